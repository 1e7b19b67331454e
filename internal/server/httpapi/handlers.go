// Package httpapi is the REST surface of the reference backend: admin login,
// document status upload and visa details submission.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/immiconsole/internal/common"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/dmitrijs2005/immiconsole/internal/server/auth"
	"github.com/dmitrijs2005/immiconsole/internal/server/models"
	"github.com/dmitrijs2005/immiconsole/internal/server/services"
)

// multipartMemory is how much of a multipart body is kept in memory before
// parts spill to temporary files.
const multipartMemory = 8 << 20

type AdminService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Authenticate(token string) (*auth.Claims, error)
}

type CaseService interface {
	UpdateDocument(ctx context.Context, in services.DocumentUpdateInput) (*services.DocumentUpdateResult, error)
	SubmitVisa(ctx context.Context, in services.VisaInput) (*models.VisaRecord, error)
}

type Handler struct {
	admins         AdminService
	cases          CaseService
	log            logging.Logger
	maxUploadBytes int64
}

func NewHandler(admins AdminService, cases CaseService, log logging.Logger, maxUploadBytes int64) *Handler {
	return &Handler{admins: admins, cases: cases, log: log, maxUploadBytes: maxUploadBytes}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{IDToken: res.IDToken, Email: res.Email, Role: res.Role})
}

type documentResponse struct {
	Message        string `json:"message"`
	ID             string `json:"id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus,omitempty"`
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	file, ok := h.readFile(w, r, "file")
	if !ok {
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	res, err := h.cases.UpdateDocument(r.Context(), services.DocumentUpdateInput{
		AdminID:  claims.Subject,
		Email:    r.FormValue("email"),
		Status:   r.FormValue("status"),
		VisaType: r.FormValue("visa_type"),
		File:     file,
	})
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{
		Message:        "Document uploaded and status updated",
		ID:             res.Update.ID,
		Status:         res.Update.Status,
		PreviousStatus: res.PreviousStatus,
	})
}

type visaResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (h *Handler) SubmitVisaDetails(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	file, ok := h.readFile(w, r, "pdf")
	if !ok {
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	rec, err := h.cases.SubmitVisa(r.Context(), services.VisaInput{
		AdminID: claims.Subject,
		Payload: []byte(r.FormValue("payload")),
		File:    file,
	})
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, visaResponse{Message: "Visa details saved", ID: rec.ID})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprint(w, "OK")
}

// parseMultipart bounds the body by maxUploadBytes and parses it. On failure
// the response has been written and false is returned.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request exceeds the %d byte upload limit", h.maxUploadBytes))
			return false
		}
		writeMessage(w, http.StatusBadRequest, "Expected a multipart/form-data body")
		return false
	}
	return true
}

func (h *Handler) readFile(w http.ResponseWriter, r *http.Request, field string) (services.Upload, bool) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "PDF file is required")
		return services.Upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Could not read uploaded file")
		return services.Upload{}, false
	}

	return services.Upload{Name: hdr.Filename, Data: data}, true
}

// writeError maps service errors to a status code and a {"message"} body.
// unauthorizedMsg overrides the text of common.ErrorUnauthorized when set.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, unauthorizedMsg string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, common.ErrorUnauthorized):
		if unauthorizedMsg == "" {
			unauthorizedMsg = "Unauthorized"
		}
		writeMessage(w, http.StatusUnauthorized, unauthorizedMsg)
	default:
		h.log.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
