package loader

import (
	"net/http"

	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option applied to a loader during construction via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger sets the structured logger used for load diagnostics.
//
// Parameters:
//   - logger: the zap logger (nil keeps the no-op default)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithHTTPClient sets the client used for http(s) sources.
//
// Parameters:
//   - client: the HTTP client (nil selects http.DefaultClient)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the client option to a loader
func WithHTTPClient(client *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		l.httpClient = client
	}
}

// WithBaseDir sets the directory relative file sources are resolved against.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}
