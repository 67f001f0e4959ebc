package gen

import (
	"fmt"
	"log/slog"
	"sort"

	"rmkit/internal/errs"
	"rmkit/internal/model"
	"rmkit/internal/remote"
)

// Config holds configuration for project rendering.
type Config struct {
	// RMKVersion is the rmk crate version written to Cargo.toml.
	RMKVersion string
	// Edition is the Rust edition of the generated crate.
	Edition string
	// Toolchain is the rust-toolchain.toml channel.
	Toolchain string
	// SubstituteGlobs select overlay files whose placeholders are replaced.
	SubstituteGlobs []string
	// DebugDir receives rendered output that fails its consistency check.
	DebugDir string
}

// DefaultConfig returns the default rendering configuration.
func DefaultConfig() Config {
	return Config{
		RMKVersion:      "0.7",
		Edition:         "2021",
		Toolchain:       "stable",
		SubstituteGlobs: []string{"**/*.toml", "**/*.json"},
	}
}

// GeneratedFile is one rendered project file.
type GeneratedFile struct {
	// Path is relative to the project root, with forward slashes.
	Path    string
	Content []byte
}

// Engine renders project files.
type Engine struct {
	config Config
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(config Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{config: config, logger: logger}
}

// Generate renders every selected template, then adds the overlay files
// that no built-in template already produces.
func (e *Engine) Generate(m *model.DeviceModel, overlay []remote.File) ([]GeneratedFile, error) {
	tfs, err := e.SelectTemplates(m)
	if err != nil {
		return nil, err
	}

	files := make([]GeneratedFile, 0, len(tfs)+len(overlay))

	for _, tf := range tfs {
		content, err := e.Render(tf, m)
		if err != nil {
			return nil, err
		}

		e.logger.Debug("rendered template", "template", tf.ID, "path", tf.Path, "bytes", len(content))
		files = append(files, GeneratedFile{Path: tf.Path, Content: content})
	}

	files, err = e.applyOverlay(files, overlay, m)
	if err != nil {
		return nil, err
	}

	e.logger.Info("rendered project", "project", m.ProjectName, "files", len(files))

	return files, nil
}

// Render produces the bytes of tf for m and checks that TOML and JSON
// output parses.
func (e *Engine) Render(tf TemplateFile, m *model.DeviceModel) ([]byte, error) {
	if tf.Render == nil {
		return nil, &errs.RenderError{Template: tf.ID, Path: tf.Path, Err: fmt.Errorf("template has no renderer")}
	}

	content, err := tf.Render(m)
	if err != nil {
		return nil, &errs.RenderError{Template: tf.ID, Path: tf.Path, Err: err}
	}

	if tf.check != nil {
		if err := tf.check(content); err != nil {
			if e.config.DebugDir != "" {
				_ = writeDebugUnchecked(e.config.DebugDir, tf.Path, content)
			}

			return nil, &errs.RenderError{Template: tf.ID, Path: tf.Path, Err: fmt.Errorf("rendered output does not parse: %w", err)}
		}
	}

	return content, nil
}

func sortTemplates(tfs []TemplateFile) {
	sort.SliceStable(tfs, func(i, j int) bool {
		if tfs[i].Path != tfs[j].Path {
			return tfs[i].Path < tfs[j].Path
		}

		return tfs[i].ID < tfs[j].ID
	})
}
