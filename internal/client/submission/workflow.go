package submission

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/immiconsole/internal/client/client"
	"github.com/dmitrijs2005/immiconsole/internal/client/form"
	"github.com/dmitrijs2005/immiconsole/internal/client/intake"
	"github.com/dmitrijs2005/immiconsole/internal/client/models"
)

const (
	MsgAuthRequired   = "Authentication required. Please login again."
	MsgSessionExpired = "Session expired. Please login again."
	MsgSelectPDF      = "Please select a PDF file before submitting."
	MsgNetworkError   = "Network error. Please check your connection and try again."

	MsgDocumentUploaded = "Document uploaded and user status updated successfully."
	MsgVisaSubmitted    = "Visa details submitted successfully! Your information has been saved."
)

// Workflow adapts one form to the submission protocol.
type Workflow interface {
	Name() models.Workflow
	Email() string
	Attachment() (intake.PdfAttachment, bool)
	// Validate returns the operator message for the first unmet precondition
	// other than the attachment, or "".
	Validate() string
	// Build returns the request without credentials.
	Build() (*client.MultipartRequest, error)
	// FailurePrefix is put in front of server error messages.
	FailurePrefix() string
	// Succeeded applies the post-success reset and returns the banner text.
	Succeeded() string
	Reset()
}

// VisaWorkflow submits a form.VisaForm to POST /visa/user_details.
type VisaWorkflow struct {
	Form *form.VisaForm
}

func (w VisaWorkflow) Name() models.Workflow { return models.WorkflowVisaDetails }
func (w VisaWorkflow) Email() string         { return w.Form.Email }

func (w VisaWorkflow) Attachment() (intake.PdfAttachment, bool) { return w.Form.Intake.Selected() }

func (w VisaWorkflow) Validate() string {
	if label := w.Form.FirstMissing(); label != "" {
		return fmt.Sprintf("Please fill in %s.", label)
	}
	return ""
}

func (w VisaWorkflow) Build() (*client.MultipartRequest, error) {
	att, ok := w.Form.Intake.Selected()
	if !ok {
		return nil, fmt.Errorf("no attachment")
	}
	payload, err := w.Form.ToSubmissionPayload().JSON()
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &client.MultipartRequest{
		Path:   client.VisaDetailsPath,
		Fields: []client.Field{{Name: "payload", Value: string(payload)}},
		File:   filePart("pdf", att),
	}, nil
}

func (w VisaWorkflow) FailurePrefix() string { return "Submission failed: " }

func (w VisaWorkflow) Succeeded() string {
	w.Form.MarkSubmitted()
	return MsgVisaSubmitted
}

func (w VisaWorkflow) Reset() { w.Form.Reset() }

// DocumentWorkflow submits a form.DocumentForm to POST /upload/doc.
type DocumentWorkflow struct {
	Form *form.DocumentForm
}

func (w DocumentWorkflow) Name() models.Workflow { return models.WorkflowDocumentStatus }
func (w DocumentWorkflow) Email() string         { return w.Form.Email }

func (w DocumentWorkflow) Attachment() (intake.PdfAttachment, bool) { return w.Form.Intake.Selected() }

func (w DocumentWorkflow) Validate() string {
	if label := w.Form.FirstMissing(); label != "" {
		return fmt.Sprintf("Please fill in %s.", label)
	}
	if !form.ValidStatus(w.Form.Status) {
		return fmt.Sprintf("Unknown status %s.", w.Form.Status)
	}
	return ""
}

func (w DocumentWorkflow) Build() (*client.MultipartRequest, error) {
	att, ok := w.Form.Intake.Selected()
	if !ok {
		return nil, fmt.Errorf("no attachment")
	}
	return &client.MultipartRequest{
		Path: client.UploadDocPath,
		Fields: []client.Field{
			{Name: "email", Value: w.Form.Email},
			{Name: "status", Value: w.Form.Status},
			{Name: "visa_type", Value: w.Form.VisaType},
		},
		File: filePart("file", att),
	}, nil
}

func (w DocumentWorkflow) FailurePrefix() string { return "Error: " }

func (w DocumentWorkflow) Succeeded() string {
	w.Form.Reset()
	return MsgDocumentUploaded
}

func (w DocumentWorkflow) Reset() { w.Form.Reset() }

func filePart(field string, att intake.PdfAttachment) *client.FilePart {
	return &client.FilePart{
		Field:       field,
		FileName:    att.Name,
		ContentType: att.MimeType,
		Content:     bytes.NewReader(att.Raw),
	}
}
