package models

import (
	"encoding/json"
	"time"
)

// StoredFile describes a PDF that was written to object storage.
type StoredFile struct {
	Name       string
	StorageKey string
	SizeBytes  int64
}

// DocumentUpdate records one POST /upload/doc: the applicant's new status
// together with the document that backs it.
type DocumentUpdate struct {
	ID        string
	AdminID   string
	Email     string
	Status    string
	VisaType  string
	File      StoredFile
	CreatedAt time.Time
}

// VisaRecord records one POST /visa/user_details. Details is the submitted
// payload kept verbatim as JSON.
type VisaRecord struct {
	ID        string
	AdminID   string
	Email     string
	Details   json.RawMessage
	File      StoredFile
	CreatedAt time.Time
}
