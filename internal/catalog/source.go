package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/baezlibros/storefront/pkg/config"
	pkgerrors "github.com/baezlibros/storefront/pkg/errors"
)

// Source yields the raw catalog document. A single fetch, no retry:
// failure is fatal to startup.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the catalog from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "read catalog file")
	}
	return data, nil
}

// HTTPSource fetches the catalog from a remote URL.
type HTTPSource struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: s.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "build catalog request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "fetch catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeLoadFailure, "catalog source returned "+resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailure, err, "read catalog response")
	}
	return data, nil
}

// SourceFromConfig picks the file or HTTP source per the configuration.
func SourceFromConfig(cfg config.CatalogConfig) Source {
	if cfg.URL != "" {
		return HTTPSource{URL: cfg.URL, Timeout: cfg.FetchTimeout}
	}
	return FileSource{Path: cfg.Path}
}
