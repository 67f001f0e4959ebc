package layout

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"rmkit/internal/errs"
)

// ReadFile loads and parses vial.json from path.
func ReadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.IOError{Op: "read", Path: path, Err: err}
	}

	return Read(data)
}

// Read parses vial.json. The matrix size and at least one layer are
// required; everything else is optional.
func Read(data []byte) (*Spec, error) {
	var spec Spec

	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, decodeError(data, err)
	}

	if spec.Matrix == nil {
		return nil, missing("matrix")
	}

	if spec.Matrix.Rows == 0 {
		return nil, missing("matrix.rows")
	}

	if spec.Matrix.Cols == 0 {
		return nil, missing("matrix.cols")
	}

	if len(spec.Layers) == 0 {
		return nil, missing("layers")
	}

	keymap, err := scanKeymap(data)
	if err != nil {
		return nil, err
	}

	spec.Keymap = keymap

	return &spec, nil
}

// scanKeymap collects the string items of layouts.keymap. Object items are
// KLE property maps and are skipped.
func scanKeymap(data []byte) ([]KeyLabel, error) {
	km := gjson.GetBytes(data, "layouts.keymap")
	if !km.Exists() {
		return nil, nil
	}

	if !km.IsArray() {
		return nil, &errs.ParseError{Document: Document, Field: "layouts.keymap", Msg: "must be an array of rows"}
	}

	var labels []KeyLabel

	for r, row := range km.Array() {
		if !row.IsArray() {
			return nil, &errs.ParseError{
				Document: Document,
				Field:    fmt.Sprintf("layouts.keymap[%d]", r),
				Msg:      "must be an array",
			}
		}

		for i, item := range row.Array() {
			if item.Type != gjson.String {
				continue
			}

			first, _, _ := strings.Cut(item.Str, "\n")
			if first == "" {
				continue
			}

			if !strings.Contains(first, ",") {
				return nil, &errs.ParseError{
					Document: Document,
					Field:    fmt.Sprintf("layouts.keymap[%d][%d]", r, i),
					Msg:      fmt.Sprintf("key label %q is not in row,col form", first),
				}
			}

			labels = append(labels, KeyLabel{Label: first, Row: r, Item: i})
		}
	}

	return labels, nil
}

func missing(field string) error {
	return &errs.ParseError{Document: Document, Field: field, Msg: "missing required field"}
}

func decodeError(data []byte, err error) error {
	pe := &errs.ParseError{Document: Document, Msg: err.Error(), Err: err}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		pe.Line, pe.Column = lineColumn(data, syntaxErr.Offset)
	case errors.As(err, &typeErr):
		pe.Field = typeErr.Field
		pe.Line, pe.Column = lineColumn(data, typeErr.Offset)
		pe.Msg = fmt.Sprintf("cannot use JSON %s as %s", typeErr.Value, typeErr.Type)
	}

	return pe
}

// lineColumn converts a byte offset into 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	if offset > int64(len(data)) {
		offset = int64(len(data))
	}

	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')

	return line, col
}
