package conversion

import (
	"context"
	"errors"
	"sync"
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/metrics"

	"golang.org/x/sync/errgroup"
)

// BulkFailure names a lead whose pipeline failed inside a bulk run.
type BulkFailure struct {
	LeadID string `json:"leadId"`
	Error  string `json:"error"`
}

// BulkResult summarizes a bulk conversion. AccountsUpdated counts distinct
// accounts whose contacts counter changed: existing accounts bumped by a
// contact conversion, and new accounts that start with contacts already
// converted from their lead. A new account with no contacts is not counted.
type BulkResult struct {
	ConvertedCount  int           `json:"convertedCount"`
	AccountsUpdated int           `json:"accountsUpdated"`
	SkippedCount    int           `json:"skippedCount"`
	Failures        []BulkFailure `json:"failures"`
	Warnings        []string      `json:"warnings,omitempty"`
}

// BulkConvert converts every listed lead that has not yet been converted to
// target. Leads already converted or unknown are skipped. Pipelines run
// concurrently and a failing lead never aborts the others.
func (s *Service) BulkConvert(ctx context.Context, leadIDs []string, target domain.Target) (BulkResult, error) {
	if !target.Valid() {
		return BulkResult{}, apperr.BadRequest("unknown conversion target")
	}

	start := time.Now()
	defer func() {
		metrics.BulkConversionDuration.WithLabelValues(string(target)).Observe(time.Since(start).Seconds())
	}()

	ids := uniqueIDs(leadIDs)
	pending, err := s.leads.Find(ctx, repository.LeadFilter{IDs: ids, NotConvertedTo: target})
	if err != nil {
		s.log.DatabaseError("find bulk leads", err)
		return BulkResult{}, apperr.Internal("failed to load leads", err)
	}

	result := BulkResult{
		SkippedCount: len(ids) - len(pending),
		Failures:     make([]BulkFailure, 0),
	}
	touched := make(map[string]struct{})

	var mu sync.Mutex
	var g errgroup.Group
	if s.bulkConcurrency > 0 {
		g.SetLimit(s.bulkConcurrency)
	}

	for _, lead := range pending {
		g.Go(func() error {
			accountID, warnings, err := s.convertOne(ctx, lead, target)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, BulkFailure{LeadID: lead.ID, Error: failureMessage(err)})
				return nil
			}
			result.ConvertedCount++
			result.Warnings = append(result.Warnings, warnings...)
			if accountID != "" {
				touched[accountID] = struct{}{}
			}
			return nil
		})
	}
	_ = g.Wait()

	result.AccountsUpdated = len(touched)
	s.log.WithContext(ctx).Info("bulk conversion finished",
		"target", string(target),
		"requested", len(ids),
		"converted", result.ConvertedCount,
		"skipped", result.SkippedCount,
		"failed", len(result.Failures),
	)
	return result, nil
}

// convertOne runs a single pipeline and returns the account whose contacts
// counter it set or bumped, if any.
func (s *Service) convertOne(ctx context.Context, lead domain.Lead, target domain.Target) (string, []string, error) {
	if target == domain.TargetAccount {
		res, err := s.convertAccount(ctx, lead)
		if err != nil {
			return "", nil, err
		}
		if res.Account.Contacts == 0 {
			return "", res.Warnings, nil
		}
		return res.Account.ID, res.Warnings, nil
	}

	res, err := s.convertContact(ctx, lead)
	if err != nil {
		return "", nil, err
	}
	if res.Lead.ConvertedToAccountID == nil || len(res.Warnings) > 0 {
		return "", res.Warnings, nil
	}
	return *res.Lead.ConvertedToAccountID, nil, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// failureMessage is the client-facing reason for a failed pipeline. Wrapped
// store errors stay in the logs.
func failureMessage(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
