package client

import (
	"context"
	"io"
)

const (
	LoginPath       = "/admin/login"
	UploadDocPath   = "/upload/doc"
	VisaDetailsPath = "/visa/user_details"
)

// Client is the transport used by the auth gateway and the submission controller.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	PostMultipart(ctx context.Context, req *MultipartRequest) (*Response, error)
}

// LoginResponse is the success body of POST /admin/login.
type LoginResponse struct {
	IDToken string `json:"idToken"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// Field is a plain text part of a multipart body.
type Field struct {
	Name  string
	Value string
}

// FilePart is the binary part of a multipart body.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// MultipartRequest describes one multipart POST. Header carries extra request
// headers such as Authorization; Content-Type is always set by the transport
// because only it knows the boundary.
type MultipartRequest struct {
	Path      string
	Header    map[string]string
	Fields    []Field
	File      *FilePart
	RequestID string
}

// Response is a 2xx answer whose body parsed as JSON.
type Response struct {
	StatusCode int
	Body       []byte
}
