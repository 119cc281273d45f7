// Package dedup removes duplicate leads that share the same values on a
// configurable set of fields.
package dedup

import (
	"context"
	"fmt"
	"strings"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/phone"
)

const keySeparator = "|"

// phoneFields are normalized to E.164 before keying when enabled.
var phoneFields = map[string]bool{"phone": true, "mobile": true}

// Result summarizes a deduplication run.
type Result struct {
	DuplicatesFound  int `json:"duplicatesFound"`
	UniqueLeadsCount int `json:"uniqueLeadsCount"`
}

// Service deduplicates leads.
type Service struct {
	leads           repository.LeadStore
	bus             events.Bus
	log             *logger.Logger
	phones          *phone.Normalizer
	defaultCriteria []string
}

// Option customizes a Service.
type Option func(*Service)

// WithPhoneNormalizer keys phone and mobile fields on their E.164 form.
func WithPhoneNormalizer(n *phone.Normalizer) Option {
	return func(s *Service) { s.phones = n }
}

// New creates a deduplication service. defaultCriteria is used when a run
// names no fields.
func New(leads repository.LeadStore, bus events.Bus, log *logger.Logger, defaultCriteria []string, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		leads:           leads,
		bus:             bus,
		log:             log,
		defaultCriteria: defaultCriteria,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deduplicate keeps the first lead (in load order) for every distinct key
// built from criteria and deletes the rest. Leads whose criteria fields are
// all empty are never considered duplicates. A lead that fails to delete is
// logged and counted as retained.
func (s *Service) Deduplicate(ctx context.Context, criteria []string) (Result, error) {
	fields, err := s.resolveCriteria(criteria)
	if err != nil {
		return Result{}, err
	}

	leads, err := s.leads.Find(ctx, repository.LeadFilter{})
	if err != nil {
		s.log.DatabaseError("load leads for deduplication", err)
		return Result{}, apperr.Internal("failed to load leads", err)
	}

	seen := make(map[string]string, len(leads))
	removed := 0
	for _, lead := range leads {
		key, ok := s.key(lead, fields)
		if !ok {
			continue
		}
		keptID, dup := seen[key]
		if !dup {
			seen[key] = lead.ID
			continue
		}

		if err := s.leads.Delete(ctx, lead.ID); err != nil {
			s.log.WithContext(ctx).Error("failed to delete duplicate lead",
				"lead_id", lead.ID, "kept_lead_id", keptID, "error", err)
			continue
		}
		removed++
	}

	result := Result{
		DuplicatesFound:  removed,
		UniqueLeadsCount: len(leads) - removed,
	}

	s.log.WithContext(ctx).Info("leads deduplicated",
		"criteria", strings.Join(fields, ","),
		"scanned", len(leads),
		"removed", removed,
	)
	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadsDeduplicated{
			BaseEvent:       events.NewBaseEvent(),
			Criteria:        fields,
			DuplicatesFound: result.DuplicatesFound,
			UniqueLeads:     result.UniqueLeadsCount,
		})
	}
	return result, nil
}

func (s *Service) resolveCriteria(criteria []string) ([]string, error) {
	if len(criteria) == 0 {
		criteria = s.defaultCriteria
	}

	fields := make([]string, 0, len(criteria))
	var invalid []apperr.FieldError
	for _, c := range criteria {
		name := strings.TrimSpace(c)
		if name == "" {
			continue
		}
		if !domain.IsLeadStringField(name) {
			invalid = append(invalid, apperr.FieldError{
				Field:   "criteria",
				Message: fmt.Sprintf("%q is not a lead field that can be matched", name),
			})
			continue
		}
		fields = append(fields, name)
	}

	if len(invalid) > 0 {
		return nil, apperr.Validation("invalid deduplication criteria", invalid...)
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("invalid deduplication criteria", apperr.FieldError{
			Field:   "criteria",
			Message: "at least one field is required",
		})
	}
	return fields, nil
}

// key joins the lower-cased criteria values. Values are not trimmed, so
// " a@x.com" and "a@x.com" are different keys and "   " is a value. ok is
// false when every value is empty.
func (s *Service) key(lead domain.Lead, fields []string) (string, bool) {
	parts := make([]string, len(fields))
	anyValue := false
	for i, field := range fields {
		v := lead.FieldValue(field)
		if v == "" {
			continue
		}
		anyValue = true
		if s.phones != nil && phoneFields[field] {
			v = s.phones.E164(v)
		}
		parts[i] = strings.ToLower(v)
	}
	return strings.Join(parts, keySeparator), anyValue
}
