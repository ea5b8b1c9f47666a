package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klytics/sheetkit/internal/style"
)

// Format is a design file encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("unsupported design format %q — use .yaml, .json, or .toml", filepath.Ext(path))
	}
}

// documentJSON is the wire form of a Document.
type documentJSON struct {
	Name     string           `json:"name,omitempty"`
	Culture  string           `json:"culture,omitempty"`
	Defaults *style.CellStyle `json:"defaults,omitempty"`
	Styles   *style.Styles    `json:"styles,omitempty"`
	Sheets   []*Sheet         `json:"sheets,omitempty"`
}

// Load reads a design file.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}
	d.path = path
	return d, nil
}

// Parse decodes a design document. YAML and TOML are first converted to JSON
// so every value goes through the same validating codecs.
func Parse(data []byte, format Format) (*Document, error) {
	var raw []byte
	switch format {
	case JSON:
		raw = data
	case YAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("could not parse YAML: %w", err)
		}
		b, err := json.Marshal(normalize(v))
		if err != nil {
			return nil, fmt.Errorf("could not convert YAML: %w", err)
		}
		raw = b
	case TOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("could not parse TOML: %w", err)
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("could not convert TOML: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("unsupported design format %q", format)
	}

	d := &Document{}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UnmarshalJSON decodes a document strictly and wires ownership.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("invalid design: %w", err)
	}
	*d = Document{Name: w.Name, Culture: w.Culture, Defaults: w.Defaults, Styles: w.Styles, Sheets: w.Sheets, path: d.path}
	d.wire()
	return nil
}

// MarshalJSON encodes the document, omitting everything left at its default.
func (d *Document) MarshalJSON() ([]byte, error) {
	w := documentJSON{Name: d.Name, Culture: d.Culture, Sheets: d.Sheets}
	if d.Defaults != nil && !d.Defaults.IsDefault() {
		w.Defaults = d.Defaults
	}
	if d.Styles != nil && d.Styles.Len() > 0 {
		w.Styles = d.Styles
	}
	return json.Marshal(w)
}

// Marshal encodes the document in format.
func (d *Document) Marshal(format Format) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	switch format {
	case JSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case YAML:
		// JSON is YAML; decoding into a node keeps the field order.
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		blockStyle(&node)
		return yaml.Marshal(&node)
	case TOML:
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, fmt.Errorf("could not encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported design format %q", format)
	}
}

// Save writes the document to path in the format its extension names.
func (d *Document) Save(path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := d.Marshal(format)
	if err != nil {
		return fmt.Errorf("could not encode design: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

// normalize converts map[any]any values, which JSON cannot encode, into
// map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalize(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}

// blockStyle clears the flow and quoting styles JSON input carries so the
// encoder writes idiomatic block YAML.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
