package models

import "time"

// Workflow names one of the two submissions the console performs.
type Workflow string

const (
	WorkflowDocumentStatus Workflow = "document_status"
	WorkflowVisaDetails    Workflow = "visa_details"
)

// SubmissionRecord is one journal row: the terminal outcome of a submit attempt.
type SubmissionRecord struct {
	ID        string
	Workflow  Workflow
	Email     string
	State     string
	Message   string
	CreatedAt time.Time
}
