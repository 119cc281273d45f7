package domain

import "time"

// CanConvertToContact reports whether the lead has not yet produced a contact.
func CanConvertToContact(lead Lead) bool {
	return lead.ConvertedToContactID == nil
}

// CanConvertToAccount reports whether the lead has not yet produced an account.
func CanConvertToAccount(lead Lead) bool {
	return lead.ConvertedToAccountID == nil
}

// CanConvertTo dispatches on target.
func CanConvertTo(lead Lead, target Target) bool {
	if target == TargetAccount {
		return CanConvertToAccount(lead)
	}
	return CanConvertToContact(lead)
}

// RecordContactConversion points the lead at its contact. conversionDate is
// only set by the first conversion of either kind.
func RecordContactConversion(lead *Lead, contactID string, now time.Time) {
	id := contactID
	lead.ConvertedToContactID = &id
	markConverted(lead, now)
}

// RecordAccountConversion points the lead at its account and stamps
// accountConversionDate.
func RecordAccountConversion(lead *Lead, accountID string, now time.Time) {
	id := accountID
	at := now
	lead.ConvertedToAccountID = &id
	lead.AccountConversionDate = &at
	markConverted(lead, now)
}

func markConverted(lead *Lead, now time.Time) {
	lead.IsConverted = true
	if lead.ConversionDate == nil {
		at := now
		lead.ConversionDate = &at
	}
	lead.UpdatedAt = now
}
