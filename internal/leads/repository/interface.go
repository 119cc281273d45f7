package repository

import (
	"context"
	"errors"

	"crm_backend/internal/leads/domain"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// =====================================
// Filters
// =====================================

// LeadFilter selects leads. Zero values match everything.
type LeadFilter struct {
	// IDs restricts the result to the given lead ids.
	IDs []string
	// NotConvertedTo excludes leads already converted to the target.
	NotConvertedTo domain.Target
}

// ContactFilter selects contacts. Zero values match everything.
type ContactFilter struct {
	ConvertedFromLead string
	AccountID         string
}

// =====================================
// Segregated Interfaces
// =====================================

// LeadStore persists leads. Find returns leads in load order: creation time,
// then id.
type LeadStore interface {
	Create(ctx context.Context, lead *domain.Lead) error
	FindByID(ctx context.Context, id string) (domain.Lead, error)
	Find(ctx context.Context, filter LeadFilter) ([]domain.Lead, error)
	Update(ctx context.Context, lead domain.Lead) error
	Delete(ctx context.Context, id string) error
}

// ContactStore persists contacts.
type ContactStore interface {
	Create(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id string) (domain.Contact, error)
	Find(ctx context.Context, filter ContactFilter) ([]domain.Contact, error)
	Count(ctx context.Context, filter ContactFilter) (int, error)
	Update(ctx context.Context, contact domain.Contact) error
}

// AccountStore persists accounts.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (domain.Account, error)
	Update(ctx context.Context, account domain.Account) error
}

// Stores groups the three collections a conversion touches.
type Stores struct {
	Leads    LeadStore
	Contacts ContactStore
	Accounts AccountStore
}

// HealthChecker is implemented by stores backed by a remote database.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func matchesLead(lead domain.Lead, filter LeadFilter, ids map[string]struct{}) bool {
	if ids != nil {
		if _, ok := ids[lead.ID]; !ok {
			return false
		}
	}
	switch filter.NotConvertedTo {
	case domain.TargetContact:
		return lead.ConvertedToContactID == nil
	case domain.TargetAccount:
		return lead.ConvertedToAccountID == nil
	}
	return true
}

func matchesContact(contact domain.Contact, filter ContactFilter) bool {
	if filter.ConvertedFromLead != "" && contact.ConvertedFromLead != filter.ConvertedFromLead {
		return false
	}
	if filter.AccountID != "" && (contact.AccountID == nil || *contact.AccountID != filter.AccountID) {
		return false
	}
	return true
}

func idSet(ids []string) map[string]struct{} {
	if ids == nil {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
