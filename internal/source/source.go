// Package source fetches score and instruction files by relative name from a
// local directory, an HTTP server or an Azure Blob Storage container.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/prxlab/prxdash/internal/projectconfig"
)

// ErrNotFound is returned by Open when the named file does not exist.
var ErrNotFound = errors.New("source file not found")

// Source opens files by slash-separated relative name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// String describes the source for logs.
	String() string
}

// FromConfig builds the Source described by cfg.
func FromConfig(cfg projectconfig.SourceConfig) (Source, error) {
	switch cfg.Kind {
	case projectconfig.SourceDir, "":
		return NewDir(cfg.Root), nil
	case projectconfig.SourceHTTP:
		timeout := time.Duration(cfg.Timeout) * time.Second
		return NewHTTP(cfg.URL, &http.Client{Timeout: timeout})
	case projectconfig.SourceAzBlob:
		if cfg.Anonymous != nil && *cfg.Anonymous {
			return NewAnonymousBlob(cfg.AccountURL, cfg.Container, cfg.Prefix)
		}
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("creating Azure credential: %w", err)
		}
		return NewBlob(cfg.AccountURL, cfg.Container, cfg.Prefix, cred)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
