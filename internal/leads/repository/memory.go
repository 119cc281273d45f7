package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps leads, contacts and accounts in process memory. It backs
// development runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	leads    map[string]domain.Lead
	contacts map[string]domain.Contact
	accounts map[string]domain.Account
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leads:    make(map[string]domain.Lead),
		contacts: make(map[string]domain.Contact),
		accounts: make(map[string]domain.Account),
	}
}

// Stores exposes the memory store through the segregated store interfaces.
func (m *MemoryStore) Stores() Stores {
	return Stores{
		Leads:    memoryLeads{m},
		Contacts: memoryContacts{m},
		Accounts: memoryAccounts{m},
	}
}

type memoryLeads struct{ m *MemoryStore }

func (s memoryLeads) Create(_ context.Context, lead *domain.Lead) error {
	prepareLead(lead)

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.leads[lead.ID] = cloneLead(*lead)
	return nil
}

func (s memoryLeads) FindByID(_ context.Context, id string) (domain.Lead, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	lead, ok := s.m.leads[id]
	if !ok {
		return domain.Lead{}, ErrNotFound
	}
	return cloneLead(lead), nil
}

func (s memoryLeads) Find(_ context.Context, filter LeadFilter) ([]domain.Lead, error) {
	ids := idSet(filter.IDs)

	s.m.mu.RLock()
	out := make([]domain.Lead, 0, len(s.m.leads))
	for _, lead := range s.m.leads {
		if matchesLead(lead, filter, ids) {
			out = append(out, cloneLead(lead))
		}
	}
	s.m.mu.RUnlock()

	sortLoadOrder(out)
	return out, nil
}

func (s memoryLeads) Update(_ context.Context, lead domain.Lead) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.leads[lead.ID]; !ok {
		return ErrNotFound
	}
	s.m.leads[lead.ID] = cloneLead(lead)
	return nil
}

func (s memoryLeads) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.leads[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.leads, id)
	return nil
}

type memoryContacts struct{ m *MemoryStore }

func (s memoryContacts) Create(_ context.Context, contact *domain.Contact) error {
	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.contacts[contact.ID] = cloneContact(*contact)
	return nil
}

func (s memoryContacts) FindByID(_ context.Context, id string) (domain.Contact, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	contact, ok := s.m.contacts[id]
	if !ok {
		return domain.Contact{}, ErrNotFound
	}
	return cloneContact(contact), nil
}

func (s memoryContacts) Find(_ context.Context, filter ContactFilter) ([]domain.Contact, error) {
	s.m.mu.RLock()
	out := make([]domain.Contact, 0)
	for _, contact := range s.m.contacts {
		if matchesContact(contact, filter) {
			out = append(out, cloneContact(contact))
		}
	}
	s.m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s memoryContacts) Count(_ context.Context, filter ContactFilter) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	n := 0
	for _, contact := range s.m.contacts {
		if matchesContact(contact, filter) {
			n++
		}
	}
	return n, nil
}

func (s memoryContacts) Update(_ context.Context, contact domain.Contact) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.contacts[contact.ID]; !ok {
		return ErrNotFound
	}
	s.m.contacts[contact.ID] = cloneContact(contact)
	return nil
}

type memoryAccounts struct{ m *MemoryStore }

func (s memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.accounts[account.ID] = cloneAccount(*account)
	return nil
}

func (s memoryAccounts) FindByID(_ context.Context, id string) (domain.Account, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	account, ok := s.m.accounts[id]
	if !ok {
		return domain.Account{}, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (s memoryAccounts) Update(_ context.Context, account domain.Account) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	s.m.accounts[account.ID] = cloneAccount(account)
	return nil
}

func prepareLead(lead *domain.Lead) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.CreatedAt
	}
}

func sortLoadOrder(leads []domain.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.Before(leads[j].CreatedAt)
		}
		return leads[i].ID < leads[j].ID
	})
}

func cloneLead(l domain.Lead) domain.Lead {
	l.ConvertedToContactID = cloneString(l.ConvertedToContactID)
	l.ConvertedToAccountID = cloneString(l.ConvertedToAccountID)
	l.ConversionDate = cloneTime(l.ConversionDate)
	l.AccountConversionDate = cloneTime(l.AccountConversionDate)
	return l
}

func cloneContact(c domain.Contact) domain.Contact {
	c.AccountID = cloneString(c.AccountID)
	c.LeadConversionDate = cloneTime(c.LeadConversionDate)
	c.LastSyncedFromLead = cloneTime(c.LastSyncedFromLead)
	return c
}

func cloneAccount(a domain.Account) domain.Account {
	a.LastSyncedFromLead = cloneTime(a.LastSyncedFromLead)
	return a
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
