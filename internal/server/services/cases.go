package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/immiconsole/internal/common"
	"github.com/dmitrijs2005/immiconsole/internal/dbx"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/dmitrijs2005/immiconsole/internal/server/models"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Statuses accepted by POST /upload/doc. Matching is case-sensitive.
var Statuses = []string{"Processing", "Visa grant", "Immi Refusal", "Finalized", "Pending", "Hold"}

// DocumentPutter stores a PDF and returns its object key.
type DocumentPutter interface {
	Put(ctx context.Context, body io.Reader, size int64) (string, error)
}

// Upload is a file received in a multipart request.
type Upload struct {
	Name string
	Data []byte
}

type DocumentUpdateInput struct {
	AdminID  string
	Email    string
	Status   string
	VisaType string
	File     Upload
}

// DocumentUpdateResult is the stored update plus the status it replaced
// ("" for a first update).
type DocumentUpdateResult struct {
	Update         *models.DocumentUpdate
	PreviousStatus string
}

type VisaInput struct {
	AdminID string
	Payload []byte
	File    Upload
}

type CaseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       DocumentPutter
	log         logging.Logger
}

func NewCaseService(db *sql.DB, m repomanager.RepositoryManager, store DocumentPutter, log logging.Logger) *CaseService {
	return &CaseService{db: db, repomanager: m, store: store, log: log}
}

// IsPDF reports whether data sniffs as a PDF document.
func IsPDF(data []byte) bool {
	return http.DetectContentType(data) == "application/pdf"
}

func validStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func checkUpload(u Upload) error {
	if len(u.Data) == 0 {
		return invalid("PDF file is required")
	}
	if !IsPDF(u.Data) {
		return invalid("Only PDF files are allowed")
	}
	return nil
}

// UpdateDocument stores the PDF and records the applicant's new status.
func (s *CaseService) UpdateDocument(ctx context.Context, in DocumentUpdateInput) (*DocumentUpdateResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.VisaType = strings.TrimSpace(in.VisaType)

	switch {
	case in.Email == "" || in.Status == "" || in.VisaType == "":
		return nil, invalid("Please fill in all fields and upload a PDF")
	case !validStatus(in.Status):
		return nil, invalid(fmt.Sprintf("Unknown status %s", in.Status))
	}
	if err := checkUpload(in.File); err != nil {
		return nil, err
	}

	key, err := s.store.Put(ctx, bytes.NewReader(in.File.Data), int64(len(in.File.Data)))
	if err != nil {
		s.log.Error(ctx, "document store failed", "error", err)
		return nil, common.ErrorInternal
	}

	res := &DocumentUpdateResult{}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cases(tx)

		prev, err := repo.LatestStatus(ctx, in.Email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		res.PreviousStatus = prev

		res.Update, err = repo.AddDocumentUpdate(ctx, &models.DocumentUpdate{
			ID:       uuid.NewString(),
			AdminID:  in.AdminID,
			Email:    in.Email,
			Status:   in.Status,
			VisaType: in.VisaType,
			File:     models.StoredFile{Name: in.File.Name, StorageKey: key, SizeBytes: int64(len(in.File.Data))},
		})
		return err
	})
	if err != nil {
		s.log.Error(ctx, "document update failed", "error", err, "storage_key", key)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "document update recorded",
		"id", res.Update.ID, "status", in.Status, "previous_status", res.PreviousStatus)
	return res, nil
}

// SubmitVisa stores the PDF and keeps the JSON payload verbatim. The payload
// must be a JSON object with a non-empty "email".
func (s *CaseService) SubmitVisa(ctx context.Context, in VisaInput) (*models.VisaRecord, error) {
	var payload map[string]any
	if err := json.Unmarshal(in.Payload, &payload); err != nil {
		return nil, invalid("Invalid visa details payload")
	}
	email, _ := payload["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("Please fill in Email")
	}
	if err := checkUpload(in.File); err != nil {
		return nil, err
	}

	key, err := s.store.Put(ctx, bytes.NewReader(in.File.Data), int64(len(in.File.Data)))
	if err != nil {
		s.log.Error(ctx, "document store failed", "error", err)
		return nil, common.ErrorInternal
	}

	rec, err := s.repomanager.Cases(s.db).AddVisaRecord(ctx, &models.VisaRecord{
		ID:      uuid.NewString(),
		AdminID: in.AdminID,
		Email:   email,
		Details: json.RawMessage(in.Payload),
		File:    models.StoredFile{Name: in.File.Name, StorageKey: key, SizeBytes: int64(len(in.File.Data))},
	})
	if err != nil {
		s.log.Error(ctx, "visa record failed", "error", err, "storage_key", key)
		return nil, common.ErrorInternal
	}

	s.log.Info(ctx, "visa record stored", "id", rec.ID)
	return rec, nil
}
