// Package domain holds the lead, contact and account documents together with
// the pure rules that map a lead onto its converted counterparts.
package domain

import "time"

// Target names the entity a lead is converted into.
type Target string

const (
	TargetContact Target = "contact"
	TargetAccount Target = "account"
)

// Valid reports whether t names a known conversion target.
func (t Target) Valid() bool {
	return t == TargetContact || t == TargetAccount
}

// Account types accepted by the account collection.
const (
	AccountTypeCustomer   = "Customer"
	AccountTypeProspect   = "Prospect"
	AccountTypePartner    = "Partner"
	AccountTypeVendor     = "Vendor"
	AccountTypeCompetitor = "Competitor"
	AccountTypeOther      = "Other"
)

// DefaultDepartment is assigned to every contact created from a lead.
const DefaultDepartment = "None"

// Address is the structured postal address stored on contacts and accounts.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
}

// Lead is a prospective customer record prior to qualification.
type Lead struct {
	ID            string       `json:"id" bson:"_id"`
	FirstName     string       `json:"firstName" bson:"firstName"`
	LastName      string       `json:"lastName" bson:"lastName"`
	Title         string       `json:"title" bson:"title"`
	Company       string       `json:"company" bson:"company"`
	Email         string       `json:"email" bson:"email"`
	Phone         string       `json:"phone" bson:"phone"`
	Mobile        string       `json:"mobile" bson:"mobile"`
	LeadSource    string       `json:"leadSource" bson:"leadSource"`
	LeadStatus    string       `json:"leadStatus" bson:"leadStatus"`
	Industry      string       `json:"industry" bson:"industry"`
	Website       string       `json:"website" bson:"website"`
	EmailOptOut   bool         `json:"emailOptOut" bson:"emailOptOut"`
	Description   string       `json:"description" bson:"description"`
	Street        string       `json:"street" bson:"street"`
	City          string       `json:"city" bson:"city"`
	State         string       `json:"state" bson:"state"`
	ZipCode       string       `json:"zipCode" bson:"zipCode"`
	Country       string       `json:"country" bson:"country"`
	AnnualRevenue NumericInput `json:"annualRevenue" bson:"annualRevenue"`
	NoOfEmployees NumericInput `json:"noOfEmployees" bson:"noOfEmployees"`

	IsConverted           bool       `json:"isConverted" bson:"isConverted"`
	ConvertedToContactID  *string    `json:"convertedToContactId" bson:"convertedToContactId"`
	ConvertedToAccountID  *string    `json:"convertedToAccountId" bson:"convertedToAccountId"`
	ConversionDate        *time.Time `json:"conversionDate" bson:"conversionDate"`
	AccountConversionDate *time.Time `json:"accountConversionDate" bson:"accountConversionDate"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Address returns the lead's flat address fields as a structured Address.
func (l Lead) Address() Address {
	return Address{
		Street:  l.Street,
		City:    l.City,
		State:   l.State,
		ZipCode: l.ZipCode,
		Country: l.Country,
	}
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return joinName(l.FirstName, l.LastName)
}

// Contact is a qualified person record.
type Contact struct {
	ID                 string     `json:"id" bson:"_id"`
	FirstName          string     `json:"firstName" bson:"firstName"`
	LastName           string     `json:"lastName" bson:"lastName"`
	Title              string     `json:"title" bson:"title"`
	Email              string     `json:"email,omitempty" bson:"email"`
	Phone              string     `json:"phone" bson:"phone"`
	Mobile             string     `json:"mobile" bson:"mobile"`
	LeadSource         string     `json:"leadSource" bson:"leadSource"`
	EmailOptOut        bool       `json:"emailOptOut" bson:"emailOptOut"`
	Description        string     `json:"description" bson:"description"`
	Department         string     `json:"department" bson:"department"`
	MailingAddress     Address    `json:"mailingAddress" bson:"mailingAddress"`
	ConvertedFromLead  string     `json:"convertedFromLead" bson:"convertedFromLead"`
	LeadConversionDate *time.Time `json:"leadConversionDate" bson:"leadConversionDate"`
	LastSyncedFromLead *time.Time `json:"lastSyncedFromLead" bson:"lastSyncedFromLead"`
	AccountName        string     `json:"accountName" bson:"accountName"`
	AccountID          *string    `json:"accountId" bson:"accountId"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Account is an organization record. Contacts holds a denormalized count of
// the contacts linked to it.
type Account struct {
	ID                 string     `json:"id" bson:"_id"`
	Name               string     `json:"name" bson:"name"`
	Type               string     `json:"type" bson:"type"`
	Phone              string     `json:"phone" bson:"phone"`
	Website            string     `json:"website" bson:"website"`
	Industry           string     `json:"industry" bson:"industry"`
	Description        string     `json:"description" bson:"description"`
	Employees          float64    `json:"employees" bson:"employees"`
	AnnualRevenue      float64    `json:"annualRevenue" bson:"annualRevenue"`
	BillingAddress     Address    `json:"billingAddress" bson:"billingAddress"`
	ShippingAddress    Address    `json:"shippingAddress" bson:"shippingAddress"`
	Contacts           int        `json:"contacts" bson:"contacts"`
	LastSyncedFromLead *time.Time `json:"lastSyncedFromLead" bson:"lastSyncedFromLead"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt" bson:"updatedAt"`
}
