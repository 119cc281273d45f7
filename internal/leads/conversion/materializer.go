package conversion

import (
	"context"
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// materializeContact maps the lead onto a new contact, validates it against
// the contact schema and persists it. Neither the lead nor any account is
// touched.
func (s *Service) materializeContact(ctx context.Context, lead domain.Lead, now time.Time) (domain.Contact, error) {
	contact := domain.MapLeadToContact(lead, now)
	contact.ID = uuid.NewString()

	if err := s.validate(domain.SchemaContact, contact); err != nil {
		return domain.Contact{}, err
	}

	if err := s.contacts.Create(ctx, &contact); err != nil {
		s.log.DatabaseError("create contact", err)
		return domain.Contact{}, apperr.Internal("failed to create contact", err)
	}
	return contact, nil
}

// materializeAccount maps the lead onto a new account whose contacts counter
// starts at the number of contacts already converted from the lead. The
// pre-existing contacts are returned so the caller can back-link them.
func (s *Service) materializeAccount(ctx context.Context, lead domain.Lead, now time.Time) (domain.Account, []domain.Contact, error) {
	existing, err := s.contacts.Find(ctx, repository.ContactFilter{ConvertedFromLead: lead.ID})
	if err != nil {
		s.log.DatabaseError("find converted contacts", err)
		return domain.Account{}, nil, apperr.Internal("failed to load converted contacts", err)
	}

	account := domain.MapLeadToAccount(lead, len(existing), now)
	account.ID = uuid.NewString()

	if err := s.validate(domain.SchemaAccount, account); err != nil {
		return domain.Account{}, nil, err
	}

	if err := s.accounts.Create(ctx, &account); err != nil {
		s.log.DatabaseError("create account", err)
		return domain.Account{}, nil, apperr.Internal("failed to create account", err)
	}
	return account, existing, nil
}

func (s *Service) validate(name string, doc any) error {
	if s.schemas == nil {
		return nil
	}
	if err := s.schemas.Validate(name, doc); err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return err
		}
		return apperr.Internal("schema validation unavailable", err)
	}
	return nil
}
