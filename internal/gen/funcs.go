package gen

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"text/template"
)

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

// quote renders s as a TOML basic string, which is also a valid Rust
// string literal.
func quote(s string) string { return `"` + stringEscaper.Replace(s) + `"` }

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = quote(s)
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

func byteList(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("0x%02x", v)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func rustRow(row []string) string {
	parts := make([]string, len(row))
	for i, code := range row {
		parts[i] = rustAction(code)
	}

	return strings.Join(parts, ", ")
}

func tomlRow(row []string) string {
	parts := make([]string, len(row))
	for i, code := range row {
		parts[i] = tomlAction(code)
	}

	return quoteList(parts)
}

// keymapMacros lists the rmk macros keymap.rs needs, comma separated.
func keymapMacros(layers [][][]string) string {
	used := map[string]bool{"a": true, "k": true, "layer": true}

	for _, layer := range layers {
		for _, row := range layer {
			for _, code := range row {
				action := rustAction(code)
				used[action[:strings.Index(action, "!")]] = true
			}
		}
	}

	names := make([]string, 0, len(used))
	for name := range used {
		names = append(names, name)
	}

	sort.Strings(names)

	return strings.Join(names, ", ")
}

// vialID derives the 8-byte Vial keyboard id from the project name, so a
// project keeps its id across regenerations.
func vialID(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))

	return byteList(h.Sum(nil))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"quote":        quote,
		"quoteList":    quoteList,
		"byteList":     byteList,
		"rustRow":      rustRow,
		"tomlRow":      tomlRow,
		"vialID":       vialID,
		"keymapMacros": keymapMacros,
		"lower":        strings.ToLower,
		"sub":          func(a, b int) int { return a - b },
	}
}
