package gen

import (
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
)

func checkTOML(content []byte) error {
	var v map[string]any
	return toml.Unmarshal(content, &v)
}

func checkJSON(content []byte) error {
	var v any
	return json.Unmarshal(content, &v)
}
