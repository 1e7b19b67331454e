// Package form holds the editable state of the console's two submission forms.
//
// Nothing is validated while editing. Completeness is checked at submit time.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/immiconsole/internal/client/intake"
)

var (
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("condition index out of range")
)

// ConditionRecord is one visa condition. Its identity is its position.
type ConditionRecord struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Reference   string `json:"reference"`
}

// keep reports whether the record survives into the payload: both code and
// description must be non-blank. details and reference do not matter.
func (c ConditionRecord) keep() bool {
	return strings.TrimSpace(c.Code) != "" && strings.TrimSpace(c.Description) != ""
}

// PayloadConditionsKey is the payload member that carries the conditions. The
// deployed /visa/user_details endpoint reads them from "visaConditions".
const PayloadConditionsKey = "visaConditions"

// VisaForm is the visa-details form: the email, the fixed fields, the
// condition list and the attachment.
type VisaForm struct {
	Email  string
	Intake *intake.Intake
	// Submitted stays true after a successful submit until Reset.
	Submitted bool

	fields     map[FieldKey]string
	conditions []ConditionRecord
}

// NewVisaForm returns an empty form with one blank condition row.
func NewVisaForm(in *intake.Intake) *VisaForm {
	f := &VisaForm{Intake: in}
	f.clearEntries()
	return f
}

func (f *VisaForm) clearEntries() {
	f.fields = make(map[FieldKey]string, len(VisaFields))
	f.conditions = []ConditionRecord{{}}
	f.Intake.Remove()
}

func (f *VisaForm) SetField(key FieldKey, value string) error {
	if _, ok := visaFieldIndex[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	f.fields[key] = value
	return nil
}

func (f *VisaForm) Field(key FieldKey) string { return f.fields[key] }

// AddCondition appends a blank record.
func (f *VisaForm) AddCondition() {
	f.conditions = append(f.conditions, ConditionRecord{})
}

// RemoveCondition deletes the record at index; later records shift down.
// It refuses, returning false, when only one record is left or index is invalid.
func (f *VisaForm) RemoveCondition(index int) bool {
	if len(f.conditions) <= 1 || index < 0 || index >= len(f.conditions) {
		return false
	}
	f.conditions = append(f.conditions[:index], f.conditions[index+1:]...)
	return true
}

func (f *VisaForm) SetConditionField(index int, key ConditionField, value string) error {
	if index < 0 || index >= len(f.conditions) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c := &f.conditions[index]
	switch key {
	case ConditionCode:
		c.Code = value
	case ConditionDescription:
		c.Description = value
	case ConditionDetails:
		c.Details = value
	case ConditionReference:
		c.Reference = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return nil
}

// Conditions returns a copy of the condition list.
func (f *VisaForm) Conditions() []ConditionRecord {
	out := make([]ConditionRecord, len(f.conditions))
	copy(out, f.conditions)
	return out
}

// FirstMissing returns the label of the first empty required value: the email,
// then the fixed fields in display order. It returns "" when none is missing.
func (f *VisaForm) FirstMissing() string {
	if strings.TrimSpace(f.Email) == "" {
		return "Email"
	}
	for _, spec := range VisaFields {
		if strings.TrimSpace(f.fields[spec.Key]) == "" {
			return spec.Label
		}
	}
	return ""
}

// IsComplete is true when the email and every fixed field are filled and an
// attachment is selected.
func (f *VisaForm) IsComplete() bool {
	_, ok := f.Intake.Selected()
	return ok && f.FirstMissing() == ""
}

// Payload is the JSON document sent in the "payload" part.
type Payload map[string]any

// ToSubmissionPayload merges the email and the fixed fields into one flat
// object and adds the conditions whose code and description are non-blank,
// verbatim. Blank rows are dropped even when details or reference are set.
func (f *VisaForm) ToSubmissionPayload() Payload {
	p := make(Payload, len(VisaFields)+2)
	p["email"] = f.Email
	for _, spec := range VisaFields {
		p[string(spec.Key)] = f.fields[spec.Key]
	}

	kept := make([]ConditionRecord, 0, len(f.conditions))
	for _, c := range f.conditions {
		if c.keep() {
			kept = append(kept, c)
		}
	}
	p[PayloadConditionsKey] = kept
	return p
}

// JSON encodes the payload.
func (p Payload) JSON() ([]byte, error) {
	return json.Marshal(p)
}

// MarkSubmitted clears the fields, the conditions and the attachment after a
// successful submit. The email is kept.
func (f *VisaForm) MarkSubmitted() {
	f.clearEntries()
	f.Submitted = true
}

// Reset starts a new submission from scratch.
func (f *VisaForm) Reset() {
	f.clearEntries()
	f.Intake.Reset()
	f.Email = ""
	f.Submitted = false
}
