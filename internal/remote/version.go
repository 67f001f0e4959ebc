package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
)

// DefaultMappingURL is the version to commit table of the default template
// repository.
const DefaultMappingURL = "https://raw.githubusercontent.com/HaoboGu/rmk-template/main/version-mapping.json"

// VersionMapping looks up the template commit for an RMK version.
type VersionMapping struct {
	URL    string
	Client *http.Client
}

// Lookup returns the commit pinned for version.
func (v VersionMapping) Lookup(ctx context.Context, version string) (string, error) {
	url := v.URL
	if url == "" {
		url = DefaultMappingURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching version mapping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching version mapping: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetching version mapping: %w", err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(body, &mapping); err != nil {
		return "", fmt.Errorf("parsing version mapping: %w", err)
	}

	commit, ok := mapping[version]
	if !ok || commit == "" {
		return "", fmt.Errorf("version %s not found in mapping", version)
	}

	return commit, nil
}

// ResolveRef returns the ref to download for version. An empty version, or
// any lookup failure, yields the main branch.
func ResolveRef(ctx context.Context, v VersionMapping, version string, logger *slog.Logger) string {
	if version == "" {
		return DefaultRef
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	commit, err := v.Lookup(ctx, version)
	if err != nil {
		logger.Warn("failed to resolve template version, using main branch", "version", version, "error", err)
		return DefaultRef
	}

	logger.Info("using pinned template", "version", version, "commit", commit)

	return commit
}
