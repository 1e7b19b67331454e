package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const requestIDHeader = "X-Request-ID"

// HTTPClient implements Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the backend at baseURL. A zero timeout
// leaves the transport default in charge.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	status, respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		msg := ErrorMessage(respBody)
		if msg == "" {
			msg = DefaultLoginFailure
		}
		return nil, &CredentialsError{Message: msg}
	}

	var lr LoginResponse
	if err := json.Unmarshal(respBody, &lr); err != nil || lr.IDToken == "" {
		return nil, &CredentialsError{Message: "Authentication token not received"}
	}
	return &lr, nil
}

func (c *HTTPClient) PostMultipart(ctx context.Context, mr *MultipartRequest) (*Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range mr.Fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if mr.File != nil {
		if err := writeFilePart(writer, mr.File); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+mr.Path, &body)
	if err != nil {
		return nil, err
	}
	for k, v := range mr.Header {
		if strings.EqualFold(k, "Content-Type") {
			continue
		}
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if mr.RequestID != "" {
		req.Header.Set(requestIDHeader, mr.RequestID)
	}

	status, respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case status < 200 || status > 299:
		return nil, &ServerError{StatusCode: status, Message: ErrorMessage(respBody)}
	case !json.Valid(respBody):
		return nil, &ServerError{StatusCode: status, Message: "Unexpected response from server."}
	}

	return &Response{StatusCode: status, Body: respBody}, nil
}

func writeFilePart(w *multipart.Writer, f *FilePart) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(f.Field), escapeQuotes(f.FileName)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return fmt.Errorf("copy file part: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// do sends req and reads the whole body. Transport failures become ErrUnavailable.
func (c *HTTPClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, b, nil
}
