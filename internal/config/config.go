// Package config loads tool settings from defaults, an optional TOML file
// and RMKIT_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"rmkit/internal/remote"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "RMKIT_"

// Config holds the tool settings.
type Config struct {
	Log      Log      `toml:"log"`
	Template Template `toml:"template"`
	Emit     Emit     `toml:"emit"`
}

// Log selects the log handler.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// Template locates the remote template repository.
type Template struct {
	Owner      string `toml:"owner"`
	Repo       string `toml:"repo"`
	Branch     string `toml:"branch"`
	MappingURL string `toml:"mapping_url"`
	// LocalPath replaces the remote repository with a local directory.
	LocalPath string `toml:"local_path"`
	// Offline skips the template overlay entirely.
	Offline bool `toml:"offline"`
}

// Emit holds project writing defaults.
type Emit struct {
	Overwrite bool `toml:"overwrite"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: Log{Level: "warn", Format: "text"},
		Template: Template{
			Owner:      remote.DefaultOwner,
			Repo:       remote.DefaultRepo,
			Branch:     remote.DefaultRef,
			MappingURL: remote.DefaultMappingURL,
		},
	}
}

// Path is the default config file location.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rmkit", "config.toml")
	}

	home, _ := os.UserHomeDir()

	return filepath.Join(home, ".config", "rmkit", "config.toml")
}

// Load returns the defaults overlaid with the file at path, when it exists,
// and then with the process environment.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)

		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := c.decode(data); err != nil {
				return c, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}

	return c, c.Validate()
}

// decode overlays TOML data on c. Unknown keys are rejected so typos do
// not pass silently.
func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	return dec.Decode(c)
}

// envBinding maps one environment variable to a setting.
type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

func str(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func boolean(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		*field(c) = b

		return nil
	}
}

var envBindings = []envBinding{
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
	{"TEMPLATE_OWNER", str(func(c *Config) *string { return &c.Template.Owner })},
	{"TEMPLATE_REPO", str(func(c *Config) *string { return &c.Template.Repo })},
	{"TEMPLATE_BRANCH", str(func(c *Config) *string { return &c.Template.Branch })},
	{"TEMPLATE_MAPPING_URL", str(func(c *Config) *string { return &c.Template.MappingURL })},
	{"TEMPLATE_LOCAL_PATH", str(func(c *Config) *string { return &c.Template.LocalPath })},
	{"TEMPLATE_OFFLINE", boolean(func(c *Config) *bool { return &c.Template.Offline })},
	{"EMIT_OVERWRITE", boolean(func(c *Config) *bool { return &c.Emit.Overwrite })},
}

// EnvNames lists the recognized environment variables.
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}

	return names
}

// ApplyEnv overlays the variables found by lookup. Every bad value is
// reported, not just the first.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var problems []error

	for _, b := range envBindings {
		name := EnvPrefix + b.name

		v, ok := lookup(name)
		if !ok {
			continue
		}

		if err := b.set(c, strings.TrimSpace(v)); err != nil {
			problems = append(problems, fmt.Errorf("%s=%q: %w", name, v, err))
		}
	}

	return errors.Join(problems...)
}

var (
	levels  = []string{"debug", "info", "warn", "error"}
	formats = []string{"text", "json"}
)

// Validate checks enumerated settings.
func (c Config) Validate() error {
	var problems []error

	if !slices.Contains(levels, strings.ToLower(c.Log.Level)) {
		problems = append(problems, fmt.Errorf("log.level %q is not one of %s", c.Log.Level, strings.Join(levels, ", ")))
	}

	if !slices.Contains(formats, strings.ToLower(c.Log.Format)) {
		problems = append(problems, fmt.Errorf("log.format %q is not one of %s", c.Log.Format, strings.Join(formats, ", ")))
	}

	if c.Template.LocalPath == "" && (c.Template.Owner == "" || c.Template.Repo == "") {
		problems = append(problems, errors.New("template.owner and template.repo must be set"))
	}

	return errors.Join(problems...)
}
