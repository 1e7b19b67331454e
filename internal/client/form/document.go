package form

import (
	"strings"

	"github.com/dmitrijs2005/immiconsole/internal/client/intake"
)

// DocumentForm is the document-status form: which user, which status label,
// which visa type, and the PDF.
type DocumentForm struct {
	Email    string
	Status   string
	VisaType string
	Intake   *intake.Intake
}

func NewDocumentForm(in *intake.Intake) *DocumentForm {
	return &DocumentForm{Intake: in}
}

// FirstMissing returns the label of the first empty value, or "".
func (f *DocumentForm) FirstMissing() string {
	switch {
	case strings.TrimSpace(f.Email) == "":
		return "Email"
	case f.Status == "":
		return "Status"
	case strings.TrimSpace(f.VisaType) == "":
		return "Visa type"
	}
	return ""
}

func (f *DocumentForm) IsComplete() bool {
	_, ok := f.Intake.Selected()
	return ok && f.FirstMissing() == ""
}

// Reset clears every value and the attachment.
func (f *DocumentForm) Reset() {
	f.Email, f.Status, f.VisaType = "", "", ""
	f.Intake.Reset()
}
