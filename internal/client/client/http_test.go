package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, LoginPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "a@b.com", "password": "x"}, body)

		_, _ = io.WriteString(w, `{"idToken":"t1","email":"a@b.com","role":"admin"}`)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL+"/", 0).Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, &LoginResponse{IDToken: "t1", Email: "a@b.com", Role: "admin"}, resp)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", http.StatusUnauthorized, `{"message":"Wrong password"}`, "Wrong password"},
		{"error field", http.StatusBadRequest, `{"error":"bad request"}`, "bad request"},
		{"no body", http.StatusInternalServerError, ``, DefaultLoginFailure},
		{"ok without token", http.StatusOK, `{"email":"a@b.com"}`, "Authentication token not received"},
		{"ok with garbage", http.StatusOK, `<html>`, "Authentication token not received"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, 0).Login(context.Background(), "a@b.com", "x")
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestLogin_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, 0).Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPostMultipart_BuildsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UploadDocPath, r.URL.Path)
		assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "user@example.com", r.FormValue("email"))
		assert.Equal(t, "Hold", r.FormValue("status"))

		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.4 test", string(b))
		assert.Equal(t, "scan.pdf", h.Filename)
		assert.Equal(t, "application/pdf", h.Header.Get("Content-Type"))

		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(srv.URL, 0).PostMultipart(context.Background(), &MultipartRequest{
		Path: UploadDocPath,
		// a caller-supplied Content-Type must never replace the boundary header
		Header:    map[string]string{"Authorization": "Bearer t1", "Content-Type": "application/json"},
		Fields:    []Field{{Name: "email", Value: "user@example.com"}, {Name: "status", Value: "Hold"}},
		File:      &FilePart{Field: "file", FileName: "scan.pdf", ContentType: "application/pdf", Content: strings.NewReader("%PDF-1.4 test")},
		RequestID: "req-1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestPostMultipart_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantUnauth bool
		wantMsg    string
	}{
		{"401", http.StatusUnauthorized, `{"message":"expired"}`, true, ""},
		{"400 message", http.StatusBadRequest, `{"message":"email missing"}`, false, "email missing"},
		{"422 detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":"email"}]}`, false, `[{"loc":"email"}]`},
		{"413 error", http.StatusRequestEntityTooLarge, `{"error":"too big"}`, false, "too big"},
		{"500 html", http.StatusInternalServerError, `<html>oops</html>`, false, "HTTP error! status: 500"},
		{"200 not json", http.StatusOK, `done`, false, "Unexpected response from server."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, 0).PostMultipart(context.Background(), &MultipartRequest{Path: VisaDetailsPath})
			require.Error(t, err)
			if tt.wantUnauth {
				require.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			var se *ServerError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.wantMsg, se.Error())
		})
	}
}

func TestPostMultipart_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, 0).PostMultipart(context.Background(), &MultipartRequest{Path: VisaDetailsPath})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "m", ErrorMessage([]byte(`{"message":"m","error":"e"}`)))
	assert.Equal(t, "d", ErrorMessage([]byte(`{"detail":"d","error":"e"}`)))
	assert.Equal(t, "e", ErrorMessage([]byte(`{"detail":null,"error":"e"}`)))
	assert.Empty(t, ErrorMessage([]byte(`{}`)))
	assert.Empty(t, ErrorMessage([]byte(`not json`)))
}
