package repository

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLeadsLoadOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStore().Stores()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, l := range []domain.Lead{
		{ID: "c", CreatedAt: base},
		{ID: "a", CreatedAt: base.Add(time.Minute)},
		{ID: "b", CreatedAt: base},
	} {
		lead := l
		require.NoError(t, stores.Leads.Create(ctx, &lead))
	}

	all, err := stores.Leads.Find(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	converted, err := stores.Leads.FindByID(ctx, "b")
	require.NoError(t, err)
	domain.RecordContactConversion(&converted, "contact-1", base)
	require.NoError(t, stores.Leads.Update(ctx, converted))

	pending, err := stores.Leads.Find(ctx, LeadFilter{IDs: []string{"a", "b", "zz"}, NotConvertedTo: domain.TargetContact})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "a", pending[0].ID)

	none, err := stores.Leads.Find(ctx, LeadFilter{IDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStore().Stores()

	lead := domain.Lead{FirstName: "Ada"}
	require.NoError(t, stores.Leads.Create(ctx, &lead))
	require.NotEmpty(t, lead.ID)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := stores.Leads.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	domain.RecordContactConversion(&got, "c-1", time.Now())

	again, err := stores.Leads.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Nil(t, again.ConvertedToContactID)
}

func TestMemoryNotFound(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStore().Stores()

	_, err := stores.Leads.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, stores.Leads.Delete(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, stores.Leads.Update(ctx, domain.Lead{ID: "missing"}), ErrNotFound)
	assert.ErrorIs(t, stores.Contacts.Update(ctx, domain.Contact{ID: "missing"}), ErrNotFound)
	_, err = stores.Accounts.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContactFilters(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStore().Stores()
	acc := "acc-1"

	for _, c := range []domain.Contact{
		{ConvertedFromLead: "lead-1", AccountID: &acc},
		{ConvertedFromLead: "lead-1"},
		{ConvertedFromLead: "lead-2", AccountID: &acc},
	} {
		contact := c
		require.NoError(t, stores.Contacts.Create(ctx, &contact))
	}

	n, err := stores.Contacts.Count(ctx, ContactFilter{ConvertedFromLead: "lead-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = stores.Contacts.Count(ctx, ContactFilter{AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := stores.Contacts.Find(ctx, ContactFilter{ConvertedFromLead: "lead-1", AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
