package conversion

import (
	"context"
	"testing"

	"crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkConvertToContact(t *testing.T) {
	f := newFixture(t, WithBulkConcurrency(2))
	ctx := context.Background()

	ok1 := f.addLead(t, domain.Lead{FirstName: "A", Company: "Acme"})
	ok2 := f.addLead(t, domain.Lead{FirstName: "B", Company: "Acme"})
	invalid := f.addLead(t, domain.Lead{FirstName: "C", Email: "broken"})
	done := f.addLead(t, domain.Lead{FirstName: "D"})
	_, err := f.svc.ConvertToContact(ctx, done.ID)
	require.NoError(t, err)

	res, err := f.svc.BulkConvert(ctx, []string{ok1.ID, ok2.ID, invalid.ID, done.ID, "unknown", ok1.ID}, domain.TargetContact)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ConvertedCount)
	assert.Equal(t, 2, res.SkippedCount)
	assert.Equal(t, 0, res.AccountsUpdated)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, invalid.ID, res.Failures[0].LeadID)

	assert.NotNil(t, f.lead(t, ok1.ID).ConvertedToContactID)
	assert.NotNil(t, f.lead(t, ok2.ID).ConvertedToContactID)
	assert.Nil(t, f.lead(t, invalid.ID).ConvertedToContactID)
}

func TestBulkConvertToAccountCountsAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addLead(t, domain.Lead{FirstName: "A", Company: "Acme"})
	b := f.addLead(t, domain.Lead{FirstName: "B", Company: "Globex"})

	res, err := f.svc.BulkConvert(ctx, []string{a.ID, b.ID}, domain.TargetAccount)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ConvertedCount)
	assert.Equal(t, 0, res.AccountsUpdated)
	assert.Empty(t, res.Failures)

	again, err := f.svc.BulkConvert(ctx, []string{a.ID, b.ID}, domain.TargetAccount)
	require.NoError(t, err)
	assert.Equal(t, 0, again.ConvertedCount)
	assert.Equal(t, 2, again.SkippedCount)
}

func TestBulkConvertToAccountCountsAccountsWithContacts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withContact := f.addLead(t, domain.Lead{FirstName: "A", Company: "Acme"})
	_, err := f.svc.ConvertToContact(ctx, withContact.ID)
	require.NoError(t, err)
	bare := f.addLead(t, domain.Lead{FirstName: "B", Company: "Globex"})

	res, err := f.svc.BulkConvert(ctx, []string{withContact.ID, bare.ID}, domain.TargetAccount)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ConvertedCount)
	assert.Equal(t, 1, res.AccountsUpdated)

	accountID := f.lead(t, withContact.ID).ConvertedToAccountID
	require.NotNil(t, accountID)
	assert.Equal(t, 1, f.account(t, *accountID).Contacts)
}

func TestBulkConvertHidesStoreErrors(t *testing.T) {
	f := newFixture(t)
	f.contacts.failCreates = true

	lead := f.addLead(t, domain.Lead{FirstName: "A"})
	res, err := f.svc.BulkConvert(context.Background(), []string{lead.ID}, domain.TargetContact)
	require.NoError(t, err)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "failed to create contact", res.Failures[0].Error)
	assert.NotContains(t, res.Failures[0].Error, errStoreDown.Error())
}

func TestBulkConvertToContactTouchesLinkedAccounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.addLead(t, domain.Lead{FirstName: "A", Company: "Acme"})
	acc, err := f.svc.ConvertToAccount(ctx, a.ID)
	require.NoError(t, err)

	res, err := f.svc.BulkConvert(ctx, []string{a.ID}, domain.TargetContact)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ConvertedCount)
	assert.Equal(t, 1, res.AccountsUpdated)
	assert.Equal(t, 1, f.account(t, acc.Account.ID).Contacts)
}

func TestBulkConvertRejectsUnknownTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.BulkConvert(context.Background(), []string{"x"}, domain.Target("opportunity"))
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
