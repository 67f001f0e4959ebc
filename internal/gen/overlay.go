package gen

import (
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"rmkit/internal/model"
	"rmkit/internal/remote"
)

// Placeholders replaced in overlay files.
const (
	PlaceholderProjectName = "{{ project_name }}"
	PlaceholderChipName    = "{{ chip_name }}"
	PlaceholderUF2Key      = "{{ uf2_key }}"
)

// Substitute replaces the template repository placeholders in content.
func Substitute(content []byte, m *model.DeviceModel) []byte {
	r := strings.NewReplacer(
		PlaceholderProjectName, m.ProjectName,
		PlaceholderChipName, m.Chip.Name,
		PlaceholderUF2Key, m.Chip.UF2Key(),
	)

	return []byte(r.Replace(string(content)))
}

// applyOverlay appends overlay files in path order. Built-in files win over
// overlay files with the same path.
func (e *Engine) applyOverlay(files []GeneratedFile, overlay []remote.File, m *model.DeviceModel) ([]GeneratedFile, error) {
	have := make(map[string]bool, len(files))
	for _, f := range files {
		have[f.Path] = true
	}

	sorted := slices.Clone(overlay)
	slices.SortFunc(sorted, func(a, b remote.File) int { return strings.Compare(a.Path, b.Path) })

	for _, f := range sorted {
		if have[f.Path] {
			e.logger.Debug("overlay file shadowed by built-in template", "path", f.Path)
			continue
		}

		substitute, err := e.substitutes(f.Path)
		if err != nil {
			return nil, err
		}

		data := f.Data
		if substitute {
			data = Substitute(data, m)
		}

		have[f.Path] = true
		files = append(files, GeneratedFile{Path: f.Path, Content: data})
	}

	return files, nil
}

func (e *Engine) substitutes(path string) (bool, error) {
	for _, glob := range e.config.SubstituteGlobs {
		ok, err := doublestar.Match(glob, path)
		if err != nil {
			return false, err
		}

		if ok {
			return true, nil
		}
	}

	return false, nil
}
