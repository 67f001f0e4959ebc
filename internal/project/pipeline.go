package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rmkit/internal/chip"
	"rmkit/internal/diagnostic"
	"rmkit/internal/emit"
	"rmkit/internal/errs"
	"rmkit/internal/gen"
	"rmkit/internal/hardware"
	"rmkit/internal/layout"
	"rmkit/internal/model"
	"rmkit/internal/normalize"
	"rmkit/internal/reconcile"
	"rmkit/internal/remote"
	"rmkit/internal/wizard"
)

// Config holds the stage configurations of a pipeline.
type Config struct {
	Reconcile reconcile.Config
	Gen       gen.Config
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Reconcile: reconcile.DefaultConfig(),
		Gen:       gen.DefaultConfig(),
	}
}

// Pipeline wires the stages together. Templates may be nil, in which case
// only the built-in templates are rendered.
type Pipeline struct {
	catalog    *chip.Catalog
	normalizer *normalize.Normalizer
	reconciler *reconcile.Reconciler
	engine     *gen.Engine
	emitter    *emit.Emitter
	templates  remote.Source
	logger     *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithCatalog replaces the built-in chip catalog.
func WithCatalog(c *chip.Catalog) Option { return func(p *Pipeline) { p.catalog = c } }

// WithTemplates sets the overlay source. The source is fetched at most once
// per folder.
func WithTemplates(src remote.Source) Option {
	return func(p *Pipeline) {
		if src != nil {
			src = remote.NewCache(src)
		}

		p.templates = src
	}
}

// WithFS replaces the file system projects are written to.
func WithFS(fsys emit.FS) Option { return func(p *Pipeline) { p.emitter = emit.New(fsys, p.logger) } }

// New creates a Pipeline. A nil logger discards output.
func New(config Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pipeline{
		catalog: chip.Default(),
		logger:  logger,
	}
	p.emitter = emit.New(nil, logger)

	for _, opt := range opts {
		opt(p)
	}

	p.normalizer = normalize.New(p.catalog, logger)
	p.reconciler = reconcile.New(config.Reconcile, logger)
	p.engine = gen.NewEngine(config.Gen, logger)

	return p
}

// Options control one project creation.
type Options struct {
	// TargetDir defaults to the project name in the working directory.
	TargetDir string
	Overwrite bool
}

// Result describes a created project.
type Result struct {
	Model *model.DeviceModel
	// Diagnostics holds reconciliation warnings. Nil for wizard projects.
	Diagnostics *diagnostic.Report
	Files       []gen.GeneratedFile
	Emit        *emit.Report
}

// Check reads and reconciles the two documents. The report is returned
// whenever reconciliation ran, also when it found conflicts.
func (p *Pipeline) Check(hardwarePath, layoutPath string) (*model.DeviceModel, *diagnostic.Report, error) {
	hw, err := p.readHardware(hardwarePath)
	if err != nil {
		return nil, nil, err
	}

	ls, err := layout.ReadFile(layoutPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", layoutPath, err)
	}

	lay, err := p.normalizer.Layout(ls)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", layoutPath, err)
	}

	return p.reconciler.Reconcile(hw, lay)
}

// CreateFromFiles generates a project from keyboard.toml and vial.json.
func (p *Pipeline) CreateFromFiles(ctx context.Context, hardwarePath, layoutPath string, opts Options) (*Result, error) {
	m, report, err := p.Check(hardwarePath, layoutPath)
	if err != nil {
		return &Result{Diagnostics: report}, err
	}

	for _, w := range report.Warnings {
		p.logger.Warn("reconcile warning", "code", w.Code, "field", w.Field, "message", w.Message)
	}

	res, err := p.create(ctx, m, opts)
	res.Diagnostics = report

	return res, err
}

// CreateInteractive runs a wizard session with prompter and generates the
// resulting project. An aborted session writes nothing.
func (p *Pipeline) CreateInteractive(ctx context.Context, s *wizard.Session, prompter wizard.Prompter, opts Options) (*Result, error) {
	m, err := wizard.Run(ctx, s, prompter, p.logger)
	if err != nil {
		return &Result{}, err
	}

	return p.create(ctx, m, opts)
}

// NewSession starts a wizard session on the pipeline's chip catalog.
func (p *Pipeline) NewSession() *wizard.Session { return wizard.NewSession(p.catalog) }

func (p *Pipeline) create(ctx context.Context, m *model.DeviceModel, opts Options) (*Result, error) {
	res := &Result{Model: m}

	files, err := p.Generate(ctx, m)
	if err != nil {
		return res, err
	}

	res.Files = files

	target := opts.TargetDir
	if target == "" {
		target = m.ProjectName
	}

	res.Emit, err = p.emitter.Emit(ctx, target, files, emit.Options{Overwrite: opts.Overwrite})

	return res, err
}

// Generate renders the project files of m, including the template overlay
// when a source is configured.
func (p *Pipeline) Generate(ctx context.Context, m *model.DeviceModel) ([]gen.GeneratedFile, error) {
	overlay, err := p.fetchOverlay(ctx, m)
	if err != nil {
		return nil, err
	}

	return p.engine.Generate(m, overlay)
}

func (p *Pipeline) fetchOverlay(ctx context.Context, m *model.DeviceModel) ([]remote.File, error) {
	if p.templates == nil {
		return nil, nil
	}

	folder := m.Chip.RemoteFolder(m.IsSplit())

	files, err := p.templates.Fetch(ctx, folder)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		return nil, &errs.IOError{Op: "fetch template", Path: folder, Err: err}
	}

	p.logger.Info("fetched template", "folder", folder, "files", len(files))

	return files, nil
}

func (p *Pipeline) readHardware(path string) (*model.HardwareModel, error) {
	spec, err := hardware.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	hw, err := p.normalizer.Hardware(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return hw, nil
}

// Info is what the helper commands print about a keyboard.toml.
type Info struct {
	ProjectName string
	Chip        string
	// RemoteFolder is the template repository folder of the keyboard.
	RemoteFolder string
	UF2Key       string
	Row2Col      bool
	TargetDir    string
}

// Describe summarizes keyboard.toml without reading the layout.
func (p *Pipeline) Describe(hardwarePath string) (*Info, error) {
	hw, err := p.readHardware(hardwarePath)
	if err != nil {
		return nil, err
	}

	row2col := hw.Matrix != nil && hw.Matrix.Row2Col
	if hw.Split != nil {
		row2col = hw.Split.Central.Matrix.Row2Col
	}

	info := &Info{
		ProjectName:  hw.ProjectName,
		Chip:         hw.Chip.Name,
		RemoteFolder: hw.Chip.RemoteFolder(hw.Topology == model.TopologySplit),
		UF2Key:       hw.Chip.UF2Key(),
		Row2Col:      row2col,
		TargetDir:    hw.ProjectName,
	}

	if wd, err := os.Getwd(); err == nil {
		info.TargetDir = filepath.Join(wd, hw.ProjectName)
	}

	return info, nil
}
