package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// SourceKind identifies which backend retrieves a mesh source.
type SourceKind int

const (
	// SourceKindFile reads the mesh from the local filesystem.
	SourceKindFile SourceKind = iota

	// SourceKindHTTP fetches the mesh over HTTP(S).
	SourceKindHTTP
)

// sourceBackend opens a mesh source for reading.
type sourceBackend interface {
	// Open returns a reader over the raw mesh text. The caller closes it.
	//
	// Parameters:
	//   - ctx: cancels the retrieval
	//   - source: the backend-specific location of the mesh
	//
	// Returns:
	//   - io.ReadCloser: the mesh text stream
	//   - error: an error if the source cannot be retrieved
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// fileBackend reads mesh sources from disk, resolving relative paths against baseDir.
type fileBackend struct {
	baseDir string
}

var _ sourceBackend = &fileBackend{}

func newFileBackend(baseDir string) sourceBackend {
	return &fileBackend{baseDir: baseDir}
}

func (b *fileBackend) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(b.resolve(source))
}

func (b *fileBackend) resolve(source string) string {
	path := strings.TrimPrefix(source, "file://")
	if b.baseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(b.baseDir, path)
	}
	return path
}

// httpBackend fetches mesh sources with a GET request.
type httpBackend struct {
	client *http.Client
}

var _ sourceBackend = &httpBackend{}

func newHTTPBackend(client *http.Client) sourceBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpBackend{client: client}
}

func (b *httpBackend) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// ClassifySource reports which backend serves the given source identifier.
// http:// and https:// URLs are fetched remotely; everything else is a file path.
//
// Parameters:
//   - source: a file path, file:// URL, or http(s) URL
//
// Returns:
//   - SourceKind: the backend kind for the source
func ClassifySource(source string) SourceKind {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return SourceKindHTTP
	}
	return SourceKindFile
}

// LocalPath returns the filesystem path for a file source, or "" for remote sources.
//
// Parameters:
//   - source: the mesh source identifier
//   - baseDir: directory relative paths are resolved against ("" for the working directory)
//
// Returns:
//   - string: the resolved filesystem path, or "" when the source is not local
func LocalPath(source, baseDir string) string {
	if ClassifySource(source) != SourceKindFile {
		return ""
	}
	return (&fileBackend{baseDir: baseDir}).resolve(source)
}
