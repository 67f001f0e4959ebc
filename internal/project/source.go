package project

import (
	"context"
	"log/slog"
	"os"

	"rmkit/internal/config"
	"rmkit/internal/remote"
)

// TemplateSource builds the overlay source described by cfg. It returns
// nil when the overlay is disabled. A non-empty rmkVersion pins the remote
// repository to the commit its version mapping names.
func TemplateSource(ctx context.Context, cfg config.Template, rmkVersion string, logger *slog.Logger) remote.Source {
	switch {
	case cfg.Offline:
		return nil
	case cfg.LocalPath != "":
		logger.Info("using local template", "path", cfg.LocalPath)
		return remote.LocalDir{FS: os.DirFS(cfg.LocalPath)}
	}

	ref := cfg.Branch
	if rmkVersion != "" {
		ref = remote.ResolveRef(ctx, remote.VersionMapping{URL: cfg.MappingURL}, rmkVersion, logger)
	}

	g := remote.NewGitHubArchive(cfg.Owner, cfg.Repo, ref)
	g.Logger = logger

	return g
}
