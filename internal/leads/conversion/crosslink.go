package conversion

import (
	"context"
	"errors"
	"fmt"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
)

// Consistency steps reported when a follow-up write fails.
const (
	stepIncrementCounter = "increment_account_contacts"
	stepLinkContacts     = "link_existing_contacts"
)

// LinkExistingContactsToAccount points every contact converted from leadID at
// the account. It keeps going past individual failures and returns how many
// contacts were linked together with the joined errors.
func (s *Service) LinkExistingContactsToAccount(ctx context.Context, leadID, accountID, accountName string) (int, error) {
	contacts, err := s.contacts.Find(ctx, repository.ContactFilter{ConvertedFromLead: leadID})
	if err != nil {
		return 0, fmt.Errorf("find contacts of lead %s: %w", leadID, err)
	}

	now := s.now()
	linked := 0
	var errs []error
	for _, contact := range contacts {
		id := accountID
		contact.AccountID = &id
		contact.AccountName = accountName
		contact.UpdatedAt = now
		if err := s.contacts.Update(ctx, contact); err != nil {
			errs = append(errs, fmt.Errorf("link contact %s: %w", contact.ID, err))
			continue
		}
		linked++
	}

	return linked, errors.Join(errs...)
}

// IncrementAccountContactsCounter adds delta to the account's contacts
// counter, never going below zero.
//
// This is a plain read-modify-write. Two concurrent increments on the same
// account can lose one update; ReconcileAccountContacts repairs the count.
func (s *Service) IncrementAccountContactsCounter(ctx context.Context, accountID string, delta int) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load account %s: %w", accountID, err)
	}

	account.Contacts = max(0, account.Contacts+delta)
	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("update account %s: %w", accountID, err)
	}
	return nil
}

// ReconcileAccountContacts recomputes the account's contacts counter from the
// contacts that reference it.
func (s *Service) ReconcileAccountContacts(ctx context.Context, accountID string) (domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, apperr.NotFound("account not found")
		}
		return domain.Account{}, apperr.Internal("failed to load account", err)
	}

	n, err := s.contacts.Count(ctx, repository.ContactFilter{AccountID: accountID})
	if err != nil {
		s.log.DatabaseError("count account contacts", err)
		return domain.Account{}, apperr.Internal("failed to count account contacts", err)
	}

	if account.Contacts == n {
		return account, nil
	}

	s.log.WithContext(ctx).Info("account contacts counter reconciled",
		"account_id", accountID, "previous", account.Contacts, "actual", n)
	account.Contacts = n
	account.UpdatedAt = s.now()
	if err := s.accounts.Update(ctx, account); err != nil {
		s.log.DatabaseError("update account contacts", err)
		return domain.Account{}, apperr.Internal("failed to update account", err)
	}
	return account, nil
}

// consistencyWarning reports a follow-up write that failed after the primary
// record was persisted and returns the warning surfaced to the caller.
func (s *Service) consistencyWarning(ctx context.Context, step, leadID, accountID string, err error) string {
	s.log.WithContext(ctx).ConsistencyFailure(step, leadID, accountID, err)
	s.publish(ctx, events.ConsistencyFailed{
		BaseEvent: events.NewBaseEvent(),
		Step:      step,
		LeadID:    leadID,
		AccountID: accountID,
		Reason:    err.Error(),
	})

	switch step {
	case stepIncrementCounter:
		return fmt.Sprintf("contact created but account %s contacts counter was not updated", accountID)
	case stepLinkContacts:
		return fmt.Sprintf("account created but some existing contacts were not linked to account %s", accountID)
	default:
		return fmt.Sprintf("%s failed for account %s", step, accountID)
	}
}
