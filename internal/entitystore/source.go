package entitystore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Format is the encoding of an archive document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// maxDocumentSize bounds a single archive read.
const maxDocumentSize = 32 << 20

// Source is where the archive document lives. Fetch is called exactly once.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Fetch returns the raw document and its encoding.
	Fetch(ctx context.Context) ([]byte, Format, error)
}

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(ref string) Source {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return &HTTPSource{URL: ref}
	}
	return &FileSource{Path: ref}
}

// FileSource reads the document from the local file system.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s *FileSource) Name() string { return s.Path }

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context) ([]byte, Format, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, "", err
	}
	return data, formatFor(s.Path, ""), nil
}

// HTTPSource fetches the document with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *HTTPSource) Name() string { return s.URL }

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, Format, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", err
	}
	return data, formatFor(req.URL.Path, resp.Header.Get("Content-Type")), nil
}

func formatFor(path, contentType string) Format {
	if strings.Contains(contentType, "yaml") {
		return FormatYAML
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
