package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead() Lead {
	return Lead{
		ID:            "lead-1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Title:         "CTO",
		Company:       "Analytical Engines",
		Email:         "ada@example.com",
		Phone:         "+15551230000",
		Mobile:        "+15551239999",
		LeadSource:    "Web",
		Industry:      "Computing",
		Website:       "https://engines.example.com",
		EmailOptOut:   true,
		Description:   "met at conference",
		Street:        "1 Main St",
		City:          "London",
		State:         "LDN",
		ZipCode:       "N1",
		Country:       "UK",
		AnnualRevenue: RawString("Acme, $50,000"),
		NoOfEmployees: Number(12),
	}
}

func TestMapLeadToContact(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	lead := sampleLead()
	accountID := "acc-1"
	lead.ConvertedToAccountID = &accountID

	c := MapLeadToContact(lead, now)

	assert.Equal(t, "Ada", c.FirstName)
	assert.Equal(t, "Lovelace", c.LastName)
	assert.Equal(t, "CTO", c.Title)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "+15551239999", c.Mobile)
	assert.True(t, c.EmailOptOut)
	assert.Equal(t, DefaultDepartment, c.Department)
	assert.Equal(t, lead.Address(), c.MailingAddress)
	assert.Equal(t, "lead-1", c.ConvertedFromLead)
	assert.Equal(t, "Analytical Engines", c.AccountName)
	require.NotNil(t, c.AccountID)
	assert.Equal(t, "acc-1", *c.AccountID)
	require.NotNil(t, c.LeadConversionDate)
	require.NotNil(t, c.LastSyncedFromLead)
	assert.Equal(t, now, *c.LeadConversionDate)
	assert.Equal(t, now, *c.LastSyncedFromLead)

	// the contact must not alias the lead's pointer
	*c.AccountID = "changed"
	assert.Equal(t, "acc-1", *lead.ConvertedToAccountID)
}

func TestMapLeadToAccount(t *testing.T) {
	now := time.Now().UTC()
	a := MapLeadToAccount(sampleLead(), 2, now)

	assert.Equal(t, "Analytical Engines", a.Name)
	assert.Equal(t, AccountTypeCustomer, a.Type)
	assert.Equal(t, 50000.0, a.AnnualRevenue)
	assert.Equal(t, 12.0, a.Employees)
	assert.Equal(t, a.BillingAddress, a.ShippingAddress)
	assert.Equal(t, "London", a.BillingAddress.City)
	assert.Equal(t, 2, a.Contacts)
	assert.Equal(t, "Computing", a.Industry)
}

func TestAccountNameFallsBackToFullName(t *testing.T) {
	lead := sampleLead()
	lead.Company = "  "
	assert.Equal(t, "Ada Lovelace", AccountName(lead))

	lead.FirstName = ""
	assert.Equal(t, "Lovelace", AccountName(lead))
}

func TestApplyLeadToAccountKeepsCounter(t *testing.T) {
	now := time.Now().UTC()
	account := Account{ID: "acc-1", Type: AccountTypePartner, Contacts: 5}
	ApplyLeadToAccount(&account, sampleLead(), now)

	assert.Equal(t, 5, account.Contacts)
	assert.Equal(t, AccountTypePartner, account.Type)
	assert.Equal(t, "Analytical Engines", account.Name)
}

func TestApplyLeadToContactKeepsRelations(t *testing.T) {
	accountID := "acc-9"
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	contact := Contact{
		ID:                 "c-1",
		ConvertedFromLead:  "lead-1",
		AccountID:          &accountID,
		LeadConversionDate: &first,
	}

	lead := sampleLead()
	lead.LastName = "Byron"
	ApplyLeadToContact(&contact, lead, time.Now().UTC())

	assert.Equal(t, "Byron", contact.LastName)
	assert.Equal(t, "acc-9", *contact.AccountID)
	assert.Equal(t, first, *contact.LeadConversionDate)
	assert.Equal(t, DefaultDepartment, contact.Department)
}

func TestLeadFieldValue(t *testing.T) {
	lead := sampleLead()
	assert.Equal(t, "ada@example.com", lead.FieldValue("email"))
	assert.Equal(t, "Analytical Engines", lead.FieldValue("company"))
	assert.Equal(t, "", lead.FieldValue("annualRevenue"))
	assert.True(t, IsLeadStringField("phone"))
	assert.False(t, IsLeadStringField("isConverted"))
	assert.False(t, IsLeadStringField("id"))
}

func TestRecordConversionSetsDateOnce(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	lead := sampleLead()

	require.True(t, CanConvertToContact(lead))
	RecordContactConversion(&lead, "c-1", first)
	assert.False(t, CanConvertToContact(lead))
	assert.True(t, CanConvertToAccount(lead))
	assert.True(t, lead.IsConverted)
	assert.Equal(t, first, *lead.ConversionDate)

	RecordAccountConversion(&lead, "a-1", second)
	assert.False(t, CanConvertTo(lead, TargetAccount))
	assert.Equal(t, first, *lead.ConversionDate)
	assert.Equal(t, second, *lead.AccountConversionDate)
	assert.Equal(t, "a-1", *lead.ConvertedToAccountID)
}
