// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package labelfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/nutrilens/internal/model"
	"github.com/jeranaias/nutrilens/internal/session"
)

// Format is a label file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Selector keys accepted next to the record fields.
const (
	KeyHealthGoal    = "health_goal"
	KeyDietType      = "diet_type"
	KeyNutritionData = "nutrition_data"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported label file format")

// Value is one raw field value from a label file.
type Value struct {
	Name string
	Raw  string
}

// Label is a decoded label file.
type Label struct {
	Path   string
	Values []Value // record fields in record order

	HealthGoal model.HealthGoal // "" when absent
	DietType   model.DietType   // "" when absent

	// Unknown lists keys that are neither record fields nor selectors.
	Unknown []string
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads and decodes a label file.
func Load(path string) (*Label, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read label file: %w", err)
	}
	label, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	label.Path = path
	return label, nil
}

// Decode decodes label data in the given format.
func Decode(data []byte, format Format) (*Label, error) {
	raw := map[string]any{}
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return fromMap(raw)
}

func fromMap(raw map[string]any) (*Label, error) {
	fields := map[string]string{}
	label := &Label{}

	if nested, ok := raw[KeyNutritionData]; ok {
		m, ok := asMap(nested)
		if !ok {
			return nil, fmt.Errorf("%s must be a table", KeyNutritionData)
		}
		for k, v := range m {
			if err := collect(label, fields, k, v); err != nil {
				return nil, err
			}
		}
	}
	for k, v := range raw {
		if k == KeyNutritionData {
			continue
		}
		if err := collect(label, fields, k, v); err != nil {
			return nil, err
		}
	}

	for _, name := range model.FieldNames() {
		if v, ok := fields[name]; ok {
			label.Values = append(label.Values, Value{Name: name, Raw: v})
		}
	}
	sort.Strings(label.Unknown)
	return label, nil
}

func collect(label *Label, fields map[string]string, key string, v any) error {
	text, err := scalar(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	switch {
	case key == KeyHealthGoal:
		g, err := model.ParseHealthGoal(text)
		if err != nil {
			return err
		}
		label.HealthGoal = g
	case key == KeyDietType:
		d, err := model.ParseDietType(text)
		if err != nil {
			return err
		}
		label.DietType = d
	case model.IsField(key):
		fields[key] = text
	default:
		label.Unknown = append(label.Unknown, key)
	}
	return nil
}

// scalar renders a decoded value the way a user would have typed it.
func scalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return "", fmt.Errorf("unexpected boolean %v", x)
	}
	return "", fmt.Errorf("unexpected %T value", v)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// Apply writes the label into s through the input rules. Selectors are only
// replaced when the file names them. The record is cleared first when reset
// is set.
func (l *Label) Apply(s *session.Session, reset bool) error {
	if reset {
		s.Clear()
	}
	for _, v := range l.Values {
		if _, err := s.SetField(v.Name, v.Raw); err != nil {
			return err
		}
	}
	if l.HealthGoal != "" {
		if err := s.SetHealthGoal(l.HealthGoal); err != nil {
			return err
		}
	}
	if l.DietType != "" {
		if err := s.SetDietType(l.DietType); err != nil {
			return err
		}
	}
	return nil
}
