package remote

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Default template repository.
const (
	DefaultOwner   = "HaoboGu"
	DefaultRepo    = "rmk-template"
	DefaultBaseURL = "https://github.com"
	DefaultRef     = "main"
)

// maxArchiveSize bounds the downloaded archive.
const maxArchiveSize = 64 << 20

// GitHubArchive downloads a repository source archive and extracts one
// folder from it.
type GitHubArchive struct {
	Owner   string
	Repo    string
	Ref     string
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

// NewGitHubArchive returns a source for owner/repo at ref. Empty values take
// the defaults.
func NewGitHubArchive(owner, repo, ref string) *GitHubArchive {
	g := &GitHubArchive{Owner: owner, Repo: repo, Ref: ref}
	if g.Owner == "" {
		g.Owner = DefaultOwner
	}

	if g.Repo == "" {
		g.Repo = DefaultRepo
	}

	return g
}

// ArchiveURL is the zip URL of the configured ref. Branch "main" uses the
// heads path, anything else is treated as a commit or tag.
func (g *GitHubArchive) ArchiveURL() string {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	ref := g.Ref
	if ref == "" || ref == DefaultRef {
		return fmt.Sprintf("%s/%s/%s/archive/refs/heads/%s.zip", base, g.Owner, g.Repo, DefaultRef)
	}

	return fmt.Sprintf("%s/%s/%s/archive/%s.zip", base, g.Owner, g.Repo, ref)
}

// Fetch implements Source.
func (g *GitHubArchive) Fetch(ctx context.Context, folder string) ([]File, error) {
	url := g.ArchiveURL()
	g.logger().Info("downloading template", "url", url, "folder", folder)

	data, err := g.download(ctx, url)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading template archive %s: %w", url, err)
	}

	for _, candidate := range FolderCandidates(folder) {
		files, err := extract(zr, candidate)
		if err != nil {
			return nil, fmt.Errorf("extracting %s from %s: %w", candidate, url, err)
		}

		if len(files) > 0 {
			if candidate != folder {
				g.logger().Info("using fallback template folder", "wanted", folder, "using", candidate)
			}

			return files, nil
		}
	}

	return nil, fmt.Errorf("%w: %s in %s/%s", ErrFolderNotFound, folder, g.Owner, g.Repo)
}

func (g *GitHubArchive) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}

	if len(data) > maxArchiveSize {
		return nil, fmt.Errorf("downloading %s: archive larger than %d bytes", url, maxArchiveSize)
	}

	return data, nil
}

func (g *GitHubArchive) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return g.Logger
}

// FolderCandidates lists the folders tried for a chip folder. STM32 parts
// fall back to their series folder ("stm32f4") and then to "stm32".
func FolderCandidates(folder string) []string {
	out := []string{folder}

	name := strings.TrimSuffix(folder, "_split")
	if !strings.HasPrefix(name, "stm32") {
		return out
	}

	if len(name) > 7 {
		out = append(out, name[:7])
	}

	if name != "stm32" {
		out = append(out, "stm32")
	}

	return out
}

// extract returns the files under <root>/<folder>/ where root is the
// archive's top-level directory.
func extract(zr *zip.Reader, folder string) ([]File, error) {
	var files []File

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}

		root, rest, ok := strings.Cut(f.Name, "/")
		if !ok || root == "" {
			continue
		}

		match, err := doublestar.Match(folder+"/**", rest)
		if err != nil {
			return nil, err
		}

		if !match {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(rc)
		rc.Close()

		if err != nil {
			return nil, err
		}

		files = append(files, File{Path: strings.TrimPrefix(rest, folder+"/"), Data: data})
	}

	sortFiles(files)

	return files, nil
}
