package emit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"rmkit/internal/errs"
	"rmkit/internal/gen"
)

var (
	// ErrTargetNotEmpty is returned when the target directory already has
	// content and overwriting was not requested.
	ErrTargetNotEmpty = errors.New("target directory is not empty")
	// ErrUnsafePath rejects absolute paths and paths leaving the target.
	ErrUnsafePath = errors.New("path is absolute or leaves the target directory")
	// ErrDuplicatePath rejects a second file with the same path.
	ErrDuplicatePath = errors.New("path is generated twice")
)

// Options control one emission.
type Options struct {
	// Overwrite permits writing into a non-empty target, replacing files
	// with the same path and leaving the rest untouched.
	Overwrite bool
}

// Failure is one file that could not be written.
type Failure struct {
	Path string
	Err  error
}

// Report lists the outcome of every file of one emission, by relative path
// and in emission order.
type Report struct {
	Target  string
	Written []string
	Failed  []Failure
	// Pending were never attempted.
	Pending []string
}

// Complete reports whether every file was written.
func (r *Report) Complete() bool { return len(r.Failed) == 0 && len(r.Pending) == 0 }

// Emitter writes generated files below a target directory.
type Emitter struct {
	fs     FS
	logger *slog.Logger
}

// New creates an Emitter. A nil fsys writes to the host file system and a
// nil logger discards output.
func New(fsys FS, logger *slog.Logger) *Emitter {
	if fsys == nil {
		fsys = OSFS{}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Emitter{fs: fsys, logger: logger}
}

// Emit writes files below target in order. It stops at the first failure
// or when ctx is done; the returned error is then an *errs.IOError and the
// Report tells which files made it to disk.
func (e *Emitter) Emit(ctx context.Context, target string, files []gen.GeneratedFile, opts Options) (*Report, error) {
	report := &Report{Target: target}
	for _, f := range files {
		report.Pending = append(report.Pending, f.Path)
	}

	if err := checkPaths(files); err != nil {
		return report, err
	}

	if err := e.prepareTarget(target, opts); err != nil {
		return report, err
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			report.Pending = report.Pending[i:]
			return report, &errs.IOError{Op: "write", Path: target, Err: err}
		}

		full := filepath.Join(target, filepath.FromSlash(f.Path))

		if err := e.write(full, f.Content); err != nil {
			report.Failed = append(report.Failed, Failure{Path: f.Path, Err: err})
			report.Pending = report.Pending[i+1:]

			e.logger.Error("emission stopped", "path", f.Path, "written", len(report.Written), "pending", len(report.Pending))

			return report, &errs.IOError{Op: "write", Path: full, Err: err}
		}

		e.logger.Debug("wrote file", "path", f.Path, "bytes", len(f.Content))
		report.Written = append(report.Written, f.Path)
	}

	report.Pending = nil

	e.logger.Info("emitted project", "target", target, "files", len(report.Written))

	return report, nil
}

func (e *Emitter) write(full string, content []byte) error {
	if err := e.fs.MkdirAll(filepath.Dir(full), dirPerm); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	return e.fs.WriteFile(full, content, filePerm)
}

// prepareTarget creates target, or checks that an existing one may be
// written into.
func (e *Emitter) prepareTarget(target string, opts Options) error {
	entries, err := e.fs.ReadDir(target)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return &errs.IOError{Op: "open", Path: target, Err: err}
	case len(entries) > 0 && !opts.Overwrite:
		return &errs.IOError{Op: "create", Path: target, Err: ErrTargetNotEmpty}
	case len(entries) > 0:
		e.logger.Warn("writing into non-empty directory", "target", target, "entries", len(entries))
	}

	if err := e.fs.MkdirAll(target, dirPerm); err != nil {
		return &errs.IOError{Op: "create", Path: target, Err: err}
	}

	return nil
}

// checkPaths rejects unsafe and duplicate paths before anything is written.
func checkPaths(files []gen.GeneratedFile) error {
	seen := make(map[string]bool, len(files))

	for _, f := range files {
		clean, ok := cleanPath(f.Path)
		if !ok {
			return &errs.IOError{Op: "validate", Path: f.Path, Err: ErrUnsafePath}
		}

		if seen[clean] {
			return &errs.IOError{Op: "validate", Path: f.Path, Err: ErrDuplicatePath}
		}

		seen[clean] = true
	}

	return nil
}

// cleanPath normalizes a slash separated relative path. It fails for empty,
// absolute and escaping paths.
func cleanPath(p string) (string, bool) {
	if p == "" || strings.Contains(p, `\`) || path.IsAbs(p) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", false
	}

	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	return clean, true
}
