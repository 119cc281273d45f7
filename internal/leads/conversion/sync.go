package conversion

import (
	"context"
	"errors"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
)

// ContactSync is the outcome of re-applying a lead onto its contact.
type ContactSync struct {
	Lead     domain.Lead
	Contact  domain.Contact
	Created  bool
	Warnings []string
}

// AccountSync is the outcome of re-applying a lead onto its account.
type AccountSync struct {
	Lead     domain.Lead
	Account  domain.Account
	Created  bool
	Warnings []string
}

// SyncToContact overwrites the contact converted from the lead with the
// lead's current values. Without a contact it performs a first-time
// conversion. The lead always wins; nothing is merged.
func (s *Service) SyncToContact(ctx context.Context, leadID string) (ContactSync, error) {
	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return ContactSync{}, err
	}

	candidates, err := s.contacts.Find(ctx, repository.ContactFilter{ConvertedFromLead: lead.ID})
	if err != nil {
		s.log.DatabaseError("find converted contacts", err)
		return ContactSync{}, apperr.Internal("failed to load converted contacts", err)
	}

	if len(candidates) == 0 {
		res, err := s.convertContact(ctx, lead)
		if err != nil {
			return ContactSync{}, err
		}
		s.publishSynced(ctx, lead.ID, events.TargetContact, res.Contact.ID, true)
		return ContactSync{Lead: res.Lead, Contact: res.Contact, Created: true, Warnings: res.Warnings}, nil
	}

	contact := pickContact(candidates, lead.ConvertedToContactID)
	now := s.now()
	domain.ApplyLeadToContact(&contact, lead, now)
	if err := s.validate(domain.SchemaContact, contact); err != nil {
		return ContactSync{}, err
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		s.log.DatabaseError("sync contact", err)
		return ContactSync{}, apperr.Internal("failed to update contact", err)
	}

	if lead.ConvertedToContactID == nil || *lead.ConvertedToContactID != contact.ID {
		domain.RecordContactConversion(&lead, contact.ID, now)
		if err := s.leads.Update(ctx, lead); err != nil {
			s.log.DatabaseError("record contact conversion", err)
			return ContactSync{}, apperr.Internal("failed to record contact conversion", err)
		}
	}

	s.log.WithContext(ctx).ConversionEvent("sync_contact", lead.ID, contact.ID)
	s.publishSynced(ctx, lead.ID, events.TargetContact, contact.ID, false)
	return ContactSync{Lead: lead, Contact: contact}, nil
}

// SyncToAccount overwrites the lead's account with the lead's current values,
// keeping the contacts counter. A missing account is recreated.
func (s *Service) SyncToAccount(ctx context.Context, leadID string) (AccountSync, error) {
	lead, err := s.findLead(ctx, leadID)
	if err != nil {
		return AccountSync{}, err
	}
	if lead.ConvertedToAccountID == nil {
		return AccountSync{}, apperr.BadRequest("lead has not been converted to an account")
	}

	account, err := s.accounts.FindByID(ctx, *lead.ConvertedToAccountID)
	if errors.Is(err, repository.ErrNotFound) {
		res, err := s.convertAccount(ctx, lead)
		if err != nil {
			return AccountSync{}, err
		}
		s.publishSynced(ctx, lead.ID, events.TargetAccount, res.Account.ID, true)
		return AccountSync{Lead: res.Lead, Account: res.Account, Created: true, Warnings: res.Warnings}, nil
	}
	if err != nil {
		s.log.DatabaseError("find account", err)
		return AccountSync{}, apperr.Internal("failed to load account", err)
	}

	domain.ApplyLeadToAccount(&account, lead, s.now())
	if err := s.validate(domain.SchemaAccount, account); err != nil {
		return AccountSync{}, err
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		s.log.DatabaseError("sync account", err)
		return AccountSync{}, apperr.Internal("failed to update account", err)
	}

	s.log.WithContext(ctx).ConversionEvent("sync_account", lead.ID, account.ID)
	s.publishSynced(ctx, lead.ID, events.TargetAccount, account.ID, false)
	return AccountSync{Lead: lead, Account: account}, nil
}

// pickContact prefers the contact the lead points at, else the oldest one.
func pickContact(candidates []domain.Contact, preferred *string) domain.Contact {
	if preferred != nil {
		for _, c := range candidates {
			if c.ID == *preferred {
				return c
			}
		}
	}
	return candidates[0]
}

func (s *Service) publishSynced(ctx context.Context, leadID, target, targetID string, created bool) {
	s.publish(ctx, events.LeadSynced{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Target:    target,
		TargetID:  targetID,
		Created:   created,
	})
}
