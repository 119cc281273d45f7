package domain

import (
	"reflect"
	"strings"
	"time"
)

// MapLeadToContact builds a new contact from lead. The caller assigns the ID.
func MapLeadToContact(lead Lead, now time.Time) Contact {
	contact := Contact{
		Department:        DefaultDepartment,
		ConvertedFromLead: lead.ID,
		CreatedAt:         now,
	}
	ApplyLeadToContact(&contact, lead, now)

	at := now
	contact.LeadConversionDate = &at
	contact.AccountID = copyID(lead.ConvertedToAccountID)
	return contact
}

// ApplyLeadToContact overwrites the lead-owned fields of contact. Relation
// fields (accountId, convertedFromLead, leadConversionDate) are left alone.
func ApplyLeadToContact(contact *Contact, lead Lead, now time.Time) {
	contact.FirstName = lead.FirstName
	contact.LastName = lead.LastName
	contact.Title = lead.Title
	contact.Email = lead.Email
	contact.Phone = lead.Phone
	contact.Mobile = lead.Mobile
	contact.LeadSource = lead.LeadSource
	contact.EmailOptOut = lead.EmailOptOut
	contact.Description = lead.Description
	contact.MailingAddress = lead.Address()
	contact.AccountName = lead.Company
	if contact.Department == "" {
		contact.Department = DefaultDepartment
	}

	at := now
	contact.LastSyncedFromLead = &at
	contact.UpdatedAt = now
}

// MapLeadToAccount builds a new account from lead. existingContacts is the
// number of contacts already converted from the same lead.
func MapLeadToAccount(lead Lead, existingContacts int, now time.Time) Account {
	account := Account{
		Type:      AccountTypeCustomer,
		Contacts:  max(existingContacts, 0),
		CreatedAt: now,
	}
	ApplyLeadToAccount(&account, lead, now)
	return account
}

// ApplyLeadToAccount overwrites the lead-owned fields of account, keeping
// its type and contacts counter.
func ApplyLeadToAccount(account *Account, lead Lead, now time.Time) {
	account.Name = AccountName(lead)
	account.Phone = lead.Phone
	account.Website = lead.Website
	account.Industry = lead.Industry
	account.Description = lead.Description
	account.Employees = lead.NoOfEmployees.Normalize()
	account.AnnualRevenue = lead.AnnualRevenue.Normalize()
	account.BillingAddress = lead.Address()
	account.ShippingAddress = lead.Address()
	if account.Type == "" {
		account.Type = AccountTypeCustomer
	}

	at := now
	account.LastSyncedFromLead = &at
	account.UpdatedAt = now
}

// AccountName is the lead's company, or its full name when no company was
// captured.
func AccountName(lead Lead) string {
	if company := strings.TrimSpace(lead.Company); company != "" {
		return company
	}
	return lead.FullName()
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// leadStringFields maps JSON field names to Lead struct field indexes for
// every string field a lead can be matched on.
var leadStringFields = func() map[string]int {
	fields := make(map[string]int)
	t := reflect.TypeOf(Lead{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Kind() != reflect.String {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" || name == "id" {
			continue
		}
		fields[name] = i
	}
	return fields
}()

// IsLeadStringField reports whether name is a string-valued lead field.
func IsLeadStringField(name string) bool {
	_, ok := leadStringFields[name]
	return ok
}

// LeadStringFields lists the string-valued lead field names.
func LeadStringFields() []string {
	names := make([]string, 0, len(leadStringFields))
	for name := range leadStringFields {
		names = append(names, name)
	}
	return names
}

// FieldValue returns the value of the named string field, or "" when name is
// not a string lead field.
func (l Lead) FieldValue(name string) string {
	idx, ok := leadStringFields[name]
	if !ok {
		return ""
	}
	return reflect.ValueOf(l).Field(idx).String()
}
