// Package sortspec loads the categories that drive declaration ordering.
//
// A spec is a JSON array of objects with a "category" name and a list of
// "keywords". Only the top-level shape is validated. Entries that do not
// decode into a category are kept as empty categories, so they match
// nothing but do not shift the positions of the others.
package sortspec

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"mibk.dev/cssfmt/naive"
)

//go:embed default.json
var defaultJSON []byte

// ErrNotArray is returned when a spec is not a JSON array.
var ErrNotArray = errors.New("spec is not an array")

// Default returns the built-in categories.
func Default() []naive.Category {
	spec, err := Parse(defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("sortspec: bad default spec: %v", err))
	}
	return spec
}

// Parse decodes a spec from JSON data.
func Parse(data []byte) ([]naive.Category, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if _, ok := raw.([]any); !ok {
		return nil, ErrNotArray
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	spec := make([]naive.Category, len(entries))
	for i, e := range entries {
		var c naive.Category
		if err := json.Unmarshal(e, &c); err != nil {
			continue
		}
		if strings.EqualFold(c.Name, naive.ElseCategory) {
			return nil, fmt.Errorf("category %d: name %q is reserved", i, c.Name)
		}
		spec[i] = c
	}
	return spec, nil
}

// Load reads and parses the spec stored in the named file.
func Load(filename string) ([]naive.Category, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return spec, nil
}
