package intake

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// Source is one offered file as a drop or a file picker reports it: a name,
// a reported MIME type and the bytes behind it.
type Source interface {
	Name() string
	MimeType() string
	Open() (io.ReadCloser, error)
}

type memorySource struct {
	name     string
	mimeType string
	data     []byte
}

// FromBytes wraps in-memory content whose type is already known.
func FromBytes(name, mimeType string, data []byte) Source {
	return &memorySource{name: name, mimeType: mimeType, data: data}
}

func (m *memorySource) Name() string     { return m.name }
func (m *memorySource) MimeType() string { return m.mimeType }
func (m *memorySource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// sniffLen is how much net/http looks at when detecting a content type.
const sniffLen = 512

// pathSource is a file on disk. Its type is sniffed from content on first use,
// so a renamed text file is not taken for a PDF.
type pathSource struct {
	path string

	once     sync.Once
	mimeType string
}

// FromPath returns a lazy source for the file at path. Nothing is read until
// the source is inspected.
func FromPath(path string) Source {
	return &pathSource{path: path}
}

// FromPaths maps FromPath over paths.
func FromPaths(paths ...string) []Source {
	out := make([]Source, 0, len(paths))
	for _, p := range paths {
		out = append(out, FromPath(p))
	}
	return out
}

func (p *pathSource) Name() string { return filepath.Base(p.path) }

func (p *pathSource) MimeType() string {
	p.once.Do(func() {
		f, err := os.Open(p.path)
		if err != nil {
			return
		}
		defer f.Close()

		buf := make([]byte, sniffLen)
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return
		}
		if n == 0 {
			return
		}
		p.mimeType = http.DetectContentType(buf[:n])
	})
	return p.mimeType
}

func (p *pathSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.path, err)
	}
	return f, nil
}
