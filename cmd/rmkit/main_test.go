package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmkit/internal/errs"
)

const keyboardTOML = `
[keyboard]
name = "Test Pad"
chip = "rp2040"

[matrix]
input_pins = ["PIN_0", "PIN_1"]
output_pins = ["PIN_2", "PIN_3"]
`

const vialJSON = `{
  "matrix": {"rows": 2, "cols": 2},
  "layers": [[["KC_A", "KC_B"], ["KC_C", "KC_D"]]]
}`

// mismatched declares 2x3 against the 2x2 matrix above.
const mismatchedJSON = `{
  "matrix": {"rows": 2, "cols": 3},
  "layers": [[["KC_A", "KC_B", "KC_C"], ["KC_D", "KC_E", "KC_F"]]]
}`

const answers = `
project_name: Answer Pad
split: no
chip: rp2040
rows: 1
cols: 2
input_pins: PIN_0
output_pins: PIN_1 PIN_2
`

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) result {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, env := range os.Environ() {
		if name, _, _ := strings.Cut(env, "="); strings.HasPrefix(name, "RMKIT_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)

	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func docs(t *testing.T, hw, vial string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	hwPath := filepath.Join(dir, "keyboard.toml")
	vialPath := filepath.Join(dir, "vial.json")

	require.NoError(t, os.WriteFile(hwPath, []byte(hw), 0o600))
	require.NoError(t, os.WriteFile(vialPath, []byte(vial), 0o600))

	return hwPath, vialPath
}

func TestCreate(t *testing.T) {
	hwPath, vialPath := docs(t, keyboardTOML, vialJSON)
	target := filepath.Join(t.TempDir(), "pad")

	r := execute(t, "create", "--offline", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target)
	require.Equal(t, errs.ExitOK, r.code, r.stderr)

	assert.Contains(t, r.stdout, "Created Test_Pad in "+target)
	assert.FileExists(t, filepath.Join(target, "Cargo.toml"))
	assert.FileExists(t, filepath.Join(target, "Makefile.toml"))

	again := execute(t, "create", "--offline", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target)
	assert.Equal(t, errs.ExitIO, again.code)
	assert.Contains(t, again.stderr, "target directory is not empty")

	forced := execute(t, "create", "--offline", "--force", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target)
	assert.Equal(t, errs.ExitOK, forced.code, forced.stderr)
}

func TestCreateReportsPartialWrite(t *testing.T) {
	hwPath, vialPath := docs(t, keyboardTOML, vialJSON)
	target := filepath.Join(t.TempDir(), "pad")

	// A regular file where the src directory belongs stops emission midway.
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "src"), []byte("x"), 0o600))

	r := execute(t, "create", "--offline", "--force", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target)
	assert.Equal(t, errs.ExitIO, r.code)

	assert.Contains(t, r.stderr, "written (8):\n")
	assert.Contains(t, r.stderr, "  Cargo.toml\n")
	assert.Contains(t, r.stderr, "failed (1):\n  src/keymap.rs: ")
	assert.Contains(t, r.stderr, "not written (2):\n  src/main.rs\n  vial.json\n")
	assert.FileExists(t, filepath.Join(target, "Cargo.toml"))
	assert.NoFileExists(t, filepath.Join(target, "vial.json"))
}

func TestCreateVersionPinsDependency(t *testing.T) {
	hwPath, vialPath := docs(t, keyboardTOML, vialJSON)
	target := filepath.Join(t.TempDir(), "pad")

	r := execute(t, "create", "--offline", "--version", "0.6.1",
		"--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target)
	require.Equal(t, errs.ExitOK, r.code, r.stderr)

	cargo, err := os.ReadFile(filepath.Join(target, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cargo), `rmk = { version = "0.6.1"`)
}

func TestCreateFailures(t *testing.T) {
	tests := []struct {
		name     string
		hw       string
		vial     string
		extra    []string
		wantCode int
		wantErr  string
	}{
		{"conflict", keyboardTOML, mismatchedJSON, nil, errs.ExitConflict, "conflict(s)"},
		{"parse", "[keyboard", vialJSON, nil, errs.ExitParse, "keyboard.toml"},
		{"bad template repo", keyboardTOML, vialJSON, []string{"--template-repo", "nodash"}, errs.ExitOther, "owner/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hwPath, vialPath := docs(t, tt.hw, tt.vial)
			target := filepath.Join(t.TempDir(), "pad")

			args := append([]string{"create", "--offline", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath, "--target-dir", target}, tt.extra...)

			r := execute(t, args...)
			assert.Equal(t, tt.wantCode, r.code)
			assert.Contains(t, r.stderr, tt.wantErr)
			assert.NoDirExists(t, target)
		})
	}
}

func TestInitWithAnswers(t *testing.T) {
	dir := t.TempDir()
	answersPath := filepath.Join(dir, "answers.yaml")
	require.NoError(t, os.WriteFile(answersPath, []byte(answers), 0o600))

	target := filepath.Join(dir, "out")

	r := execute(t, "init", "--offline", "--answers", answersPath, "--target-dir", target, "--project-name", "Flag Pad")
	require.Equal(t, errs.ExitOK, r.code, r.stderr)

	assert.Contains(t, r.stdout, "Created Flag_Pad")
	assert.FileExists(t, filepath.Join(target, "src", "main.rs"))
}

func TestInitWithoutTerminal(t *testing.T) {
	r := execute(t, "init", "--offline")
	assert.Equal(t, errs.ExitOther, r.code)
	assert.Contains(t, r.stderr, "needs a terminal")
}

func TestInitCancelled(t *testing.T) {
	dir := t.TempDir()
	answersPath := filepath.Join(dir, "answers.yaml")
	require.NoError(t, os.WriteFile(answersPath, []byte(answers+"confirm: no\n"), 0o600))

	target := filepath.Join(dir, "out")

	r := execute(t, "init", "--offline", "--answers", answersPath, "--target-dir", target)
	assert.Equal(t, errs.ExitCancelled, r.code)
	assert.NoDirExists(t, target)
}

func TestInfoCommands(t *testing.T) {
	hwPath, _ := docs(t, keyboardTOML, vialJSON)

	chip := execute(t, "get-chip", "--keyboard-toml-path", hwPath)
	require.Equal(t, errs.ExitOK, chip.code, chip.stderr)
	assert.Equal(t, "rp2040\n", chip.stdout)

	name := execute(t, "get-project-name", "--keyboard-toml-path", hwPath)
	require.Equal(t, errs.ExitOK, name.code, name.stderr)
	assert.Equal(t, "Test_Pad\n", name.stdout)

	missing := execute(t, "get-chip")
	assert.Equal(t, errs.ExitOther, missing.code)
}

func TestChips(t *testing.T) {
	all := execute(t, "chips")
	require.Equal(t, errs.ExitOK, all.code)
	assert.Contains(t, all.stdout, "nrf52840\n")
	assert.Contains(t, all.stdout, "esp32c3\n")

	split := execute(t, "chips", "--split")
	assert.Equal(t, "nrf52840\nrp2040\n", split.stdout)

	boards := execute(t, "chips", "--boards")
	assert.Contains(t, boards.stdout, "nice!nano\tnrf52840\n")
}

func TestCheck(t *testing.T) {
	hwPath, vialPath := docs(t, keyboardTOML, vialJSON)

	ok := execute(t, "check", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath)
	require.Equal(t, errs.ExitOK, ok.code, ok.stderr)
	assert.Equal(t, "ok\n", ok.stdout)

	hwPath, vialPath = docs(t, keyboardTOML, mismatchedJSON)

	bad := execute(t, "check", "--json", "--keyboard-toml-path", hwPath, "--vial-json-path", vialPath)
	assert.Equal(t, errs.ExitConflict, bad.code)
	assert.Contains(t, bad.stderr, "matrix_shape_mismatch")

	var report struct {
		Conflicts []struct {
			Code string `json:"code"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal([]byte(bad.stdout), &report))
	require.NotEmpty(t, report.Conflicts)
	assert.Equal(t, "matrix_shape_mismatch", report.Conflicts[0].Code)
}

func TestConfigFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"shout\"\n"), 0o600))

	r := execute(t, "--config", cfgPath, "chips")
	assert.Equal(t, errs.ExitOther, r.code)
	assert.Contains(t, r.stderr, "log.level")

	debug := execute(t, "--log-level", "debug", "--log-format", "json", "chips")
	assert.Equal(t, errs.ExitOK, debug.code)
}
