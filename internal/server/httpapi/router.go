package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the public and bearer-protected routes.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/admin/login", h.Login).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(h.requireAdmin)
	protected.HandleFunc("/upload/doc", h.UploadDocument).Methods(http.MethodPost)
	protected.HandleFunc("/visa/user_details", h.SubmitVisaDetails).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})

	return r
}
