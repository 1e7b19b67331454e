package form

// FieldKey names one of the fixed visa-detail fields. The string is the key
// used in the submission payload.
type FieldKey string

// FieldSpec pairs a fixed field with its display label and an example value.
type FieldSpec struct {
	Key     FieldKey
	Label   string
	Example string
}

// VisaFields lists the fixed visa-detail fields in display order.
var VisaFields = []FieldSpec{
	{"visaGrantNumber", "Visa grant number", "218957952581"},
	{"currentDateTime", "Current date and time", "Thursday August 21, 2025 15:10:22 (AEST) Canberra, Australia (GMT +1000)"},
	{"familyName", "Family name", "SHYAM LAL"},
	{"visaDescription", "Visa description", "VISITOR"},
	{"documentNumber", "Document number", "U9355845"},
	{"countryOfPassport", "Country of Passport", "INDIA"},
	{"visaClass", "Visa class / subclass", "FA / 600"},
	{"visaStream", "Visa stream", "Tourist"},
	{"visaApplicant", "Visa applicant", "Primary"},
	{"visaGrantDate", "Visa grant date", "14 March 2025"},
	{"visaExpiryDate", "Visa expiry date", "14 March 2028"},
	{"location", "Location", "Offshore"},
	{"visaStatus", "Visa status", "In Effect"},
	{"entriesAllowed", "Entries allowed", "Multiple entries"},
	{"mustNotArriveAfter", "Must not arrive after", "14 March 2028"},
	{"periodOfStay", "Period of stay", "03 months on each arrival"},
	{"workEntitlements", "Work entitlements", "The Visa Holder does not have Work Entitlements"},
	{"workplaceRights", "Workplace rights", "Workplace info"},
	{"workplaceRightsLink", "Workplace rights Link", "https://"},
	{"studyEntitlements", "Study entitlements", "Study entitlements"},
}

var visaFieldIndex = func() map[FieldKey]FieldSpec {
	m := make(map[FieldKey]FieldSpec, len(VisaFields))
	for _, f := range VisaFields {
		m[f.Key] = f
	}
	return m
}()

// LookupField returns the spec for key.
func LookupField(key FieldKey) (FieldSpec, bool) {
	f, ok := visaFieldIndex[key]
	return f, ok
}

// ConditionField names one column of a ConditionRecord.
type ConditionField string

const (
	ConditionCode        ConditionField = "code"
	ConditionDescription ConditionField = "description"
	ConditionDetails     ConditionField = "details"
	ConditionReference   ConditionField = "reference"
)

// ConditionFields lists the record columns in display order.
var ConditionFields = []ConditionField{ConditionCode, ConditionDescription, ConditionDetails, ConditionReference}

// Status labels accepted by the document-status workflow. Case-sensitive.
var StatusLabels = []string{"Processing", "Visa grant", "Immi Refusal", "Finalized", "Pending", "Hold"}

// ValidStatus reports whether s is one of StatusLabels.
func ValidStatus(s string) bool {
	for _, l := range StatusLabels {
		if l == s {
			return true
		}
	}
	return false
}
