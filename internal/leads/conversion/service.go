// Package conversion turns leads into contacts and accounts, keeps the
// converted records in step with their source lead and maintains the
// contact/account cross links.
package conversion

import (
	"context"
	"errors"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
	"crm_backend/platform/schema"
)

const msgLeadNotFound = "lead not found"

// Service runs the conversion, sync and bulk pipelines.
type Service struct {
	leads    repository.LeadStore
	contacts repository.ContactStore
	accounts repository.AccountStore
	schemas  *schema.Registry
	bus      events.Bus
	log      *logger.Logger
	now      func() time.Time

	bulkConcurrency int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBulkConcurrency bounds how many pipelines a bulk conversion runs at
// once. n <= 0 means unbounded.
func WithBulkConcurrency(n int) Option {
	return func(s *Service) { s.bulkConcurrency = n }
}

// New creates a conversion service.
func New(stores repository.Stores, schemas *schema.Registry, bus events.Bus, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		leads:    stores.Leads,
		contacts: stores.Contacts,
		accounts: stores.Accounts,
		schemas:  schemas,
		bus:      bus,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ContactConversion is the outcome of converting a lead to a contact.
type ContactConversion struct {
	Lead     domain.Lead
	Contact  domain.Contact
	Warnings []string
}

// AccountConversion is the outcome of converting a lead to an account.
type AccountConversion struct {
	Lead           domain.Lead
	Account        domain.Account
	LinkedContacts int
	Warnings       []string
}

// ConvertToContact creates a contact from the lead and records the
// conversion. A lead that already produced a contact is rejected with a
// conflict.
func (s *Service) ConvertToContact(ctx context.Context, leadID string) (ContactConversion, error) {
	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return ContactConversion{}, err
	}
	if !domain.CanConvertToContact(lead) {
		return ContactConversion{}, apperr.Conflict("lead already converted to contact").WithOp("conversion.ConvertToContact")
	}
	return s.convertContact(ctx, lead)
}

// ConvertToAccount creates an account from the lead, records the conversion
// and back-links contacts previously converted from the same lead.
func (s *Service) ConvertToAccount(ctx context.Context, leadID string) (AccountConversion, error) {
	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return AccountConversion{}, err
	}
	if !domain.CanConvertToAccount(lead) {
		return AccountConversion{}, apperr.Conflict("lead already converted to account").WithOp("conversion.ConvertToAccount")
	}
	return s.convertAccount(ctx, lead)
}

// convertContact runs the contact pipeline without the idempotency guard:
// materialize, record on the lead, then bump the linked account counter.
func (s *Service) convertContact(ctx context.Context, lead domain.Lead) (ContactConversion, error) {
	now := s.now()

	contact, err := s.materializeContact(ctx, lead, now)
	if err != nil {
		return ContactConversion{}, err
	}

	domain.RecordContactConversion(&lead, contact.ID, now)
	if err := s.leads.Update(ctx, lead); err != nil {
		s.log.DatabaseError("record contact conversion", err)
		return ContactConversion{}, apperr.Internal("failed to record contact conversion", err)
	}

	result := ContactConversion{Lead: lead, Contact: contact}
	if lead.ConvertedToAccountID != nil {
		accountID := *lead.ConvertedToAccountID
		if err := s.IncrementAccountContactsCounter(ctx, accountID, 1); err != nil {
			result.Warnings = append(result.Warnings, s.consistencyWarning(ctx, stepIncrementCounter, lead.ID, accountID, err))
		}
	}

	s.log.WithContext(ctx).ConversionEvent("convert_to_contact", lead.ID, contact.ID)
	s.publish(ctx, events.LeadConvertedToContact{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		ContactID: contact.ID,
		AccountID: lead.ConvertedToAccountID,
	})

	return result, nil
}

// convertAccount runs the account pipeline without the idempotency guard.
func (s *Service) convertAccount(ctx context.Context, lead domain.Lead) (AccountConversion, error) {
	now := s.now()

	account, existing, err := s.materializeAccount(ctx, lead, now)
	if err != nil {
		return AccountConversion{}, err
	}

	domain.RecordAccountConversion(&lead, account.ID, now)
	if err := s.leads.Update(ctx, lead); err != nil {
		s.log.DatabaseError("record account conversion", err)
		return AccountConversion{}, apperr.Internal("failed to record account conversion", err)
	}

	result := AccountConversion{Lead: lead, Account: account}
	if len(existing) > 0 {
		linked, err := s.LinkExistingContactsToAccount(ctx, lead.ID, account.ID, account.Name)
		result.LinkedContacts = linked
		if err != nil {
			result.Warnings = append(result.Warnings, s.consistencyWarning(ctx, stepLinkContacts, lead.ID, account.ID, err))
		}
	}

	s.log.WithContext(ctx).ConversionEvent("convert_to_account", lead.ID, account.ID)
	s.publish(ctx, events.LeadConvertedToAccount{
		BaseEvent:      events.NewBaseEvent(),
		LeadID:         lead.ID,
		AccountID:      account.ID,
		LinkedContacts: result.LinkedContacts,
	})

	return result, nil
}

func (s *Service) findLead(ctx context.Context, id string) (domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return domain.Lead{}, apperr.Internal("failed to load lead", err)
	}
	return lead, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}
