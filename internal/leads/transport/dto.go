package transport

import (
	"crm_backend/internal/leads/domain"
)

// Request DTOs
type CreateLeadRequest struct {
	FirstName     string              `json:"firstName" validate:"omitempty,max=100"`
	LastName      string              `json:"lastName" validate:"required,min=1,max=100"`
	Title         string              `json:"title,omitempty" validate:"omitempty,max=100"`
	Company       string              `json:"company,omitempty" validate:"omitempty,max=255"`
	Email         string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string              `json:"phone,omitempty" validate:"omitempty,min=5,max=30"`
	Mobile        string              `json:"mobile,omitempty" validate:"omitempty,min=5,max=30"`
	LeadSource    string              `json:"leadSource,omitempty" validate:"omitempty,max=100"`
	LeadStatus    string              `json:"leadStatus,omitempty" validate:"omitempty,max=100"`
	Industry      string              `json:"industry,omitempty" validate:"omitempty,max=100"`
	Website       string              `json:"website,omitempty" validate:"omitempty,url"`
	EmailOptOut   bool                `json:"emailOptOut"`
	Description   string              `json:"description,omitempty" validate:"omitempty,max=5000"`
	Street        string              `json:"street,omitempty" validate:"omitempty,max=200"`
	City          string              `json:"city,omitempty" validate:"omitempty,max=100"`
	State         string              `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode       string              `json:"zipCode,omitempty" validate:"omitempty,max=20"`
	Country       string              `json:"country,omitempty" validate:"omitempty,max=100"`
	AnnualRevenue domain.NumericInput `json:"annualRevenue" validate:"-"`
	NoOfEmployees domain.NumericInput `json:"noOfEmployees" validate:"-"`
}

type BulkConvertRequest struct {
	LeadIDs []string `json:"leadIds" validate:"required,min=1,max=1000,dive,required"`
	Async   bool     `json:"async"`
}

type DeduplicateRequest struct {
	Criteria []string `json:"criteria" validate:"omitempty,max=20,dive,required"`
	Async    bool     `json:"async"`
}

// Response DTOs
type ContactConversionResponse struct {
	Lead     domain.Lead    `json:"lead"`
	Contact  domain.Contact `json:"contact"`
	Warnings []string       `json:"warnings,omitempty"`
}

type AccountConversionResponse struct {
	Lead           domain.Lead    `json:"lead"`
	Account        domain.Account `json:"account"`
	LinkedContacts int            `json:"linkedContacts"`
	Warnings       []string       `json:"warnings,omitempty"`
}

type ContactSyncResponse struct {
	Lead     domain.Lead    `json:"lead"`
	Contact  domain.Contact `json:"contact"`
	Created  bool           `json:"created"`
	Warnings []string       `json:"warnings,omitempty"`
}

type AccountSyncResponse struct {
	Lead     domain.Lead    `json:"lead"`
	Account  domain.Account `json:"account"`
	Created  bool           `json:"created"`
	Warnings []string       `json:"warnings,omitempty"`
}

type BulkFailure struct {
	LeadID string `json:"leadId"`
	Error  string `json:"error"`
}

type BulkConvertResponse struct {
	ConvertedCount  int           `json:"convertedCount"`
	AccountsUpdated int           `json:"accountsUpdated"`
	SkippedCount    int           `json:"skippedCount"`
	Failures        []BulkFailure `json:"failures"`
	Warnings        []string      `json:"warnings,omitempty"`
}

type DeduplicateResponse struct {
	DuplicatesFound  int `json:"duplicatesFound"`
	UniqueLeadsCount int `json:"uniqueLeadsCount"`
}

type TaskAcceptedResponse struct {
	TaskID string `json:"taskId"`
}
