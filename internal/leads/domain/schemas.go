package domain

// Schema names registered with the document validator.
const (
	SchemaContact = "contact"
	SchemaAccount = "account"
)

const contactSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["lastName", "department", "convertedFromLead"],
  "properties": {
    "firstName": {"type": "string", "maxLength": 100},
    "lastName": {"type": "string", "minLength": 1, "maxLength": 100},
    "email": {"type": "string", "format": "email"},
    "department": {"type": "string"},
    "emailOptOut": {"type": "boolean"},
    "convertedFromLead": {"type": "string", "minLength": 1},
    "accountId": {"type": ["string", "null"]},
    "mailingAddress": {
      "type": "object",
      "properties": {
        "street": {"type": "string"},
        "city": {"type": "string"},
        "state": {"type": "string"},
        "zipCode": {"type": "string"},
        "country": {"type": "string"}
      }
    }
  }
}`

const accountSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "type", "contacts"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 255},
    "type": {"enum": ["Customer", "Prospect", "Partner", "Vendor", "Competitor", "Other"]},
    "employees": {"type": "number", "minimum": 0},
    "annualRevenue": {"type": "number", "minimum": 0},
    "contacts": {"type": "integer", "minimum": 0},
    "billingAddress": {"type": "object"},
    "shippingAddress": {"type": "object"}
  }
}`

// Schemas returns the raw JSON schemas for the contact and account
// collections.
func Schemas() map[string]string {
	return map[string]string{
		SchemaContact: contactSchema,
		SchemaAccount: accountSchema,
	}
}
