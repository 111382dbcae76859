package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vango-dev/reflex/internal/errors"
	"gopkg.in/yaml.v3"
)

// Snapshot is a partial state keyed by top-level JSON field name.
type Snapshot map[string]any

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Source loads a snapshot.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
}

// Sink stores a snapshot.
type Sink interface {
	Save(ctx context.Context, snap Snapshot) error
}

// FormatFromPath returns the format for a file name or object key by its
// extension. Unknown extensions fail with E301.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New("E301").WithDetail(fmt.Sprintf("cannot infer a snapshot format from %q", path))
	}
}

// Decode parses data in the given format. The document must be a mapping;
// anything else fails with E303.
func Decode(format Format, data []byte) (Snapshot, error) {
	var snap Snapshot
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err = dec.Decode(&snap); err == nil {
			for k, v := range snap {
				snap[k] = normalizeNumbers(v)
			}
		}
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	case FormatTOML:
		err = toml.Unmarshal(data, &snap)
	default:
		return nil, errors.New("E301").WithDetail(fmt.Sprintf("unknown format %q", format))
	}

	if err != nil {
		return nil, errors.New("E303").Wrap(err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}

// Encode serializes snap in the given format.
func Encode(format Format, snap Snapshot) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("snapshot: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(map[string]any(snap))
		if err != nil {
			return nil, fmt.Errorf("snapshot: encode yaml: %w", err)
		}
		return data, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(map[string]any(snap)); err != nil {
			return nil, fmt.Errorf("snapshot: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New("E301").WithDetail(fmt.Sprintf("unknown format %q", format))
	}
}

// From captures state as a snapshot. state must encode as a JSON object.
func From(state any) (Snapshot, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode state: %w", err)
	}
	snap, err := Decode(FormatJSON, data)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// normalizeNumbers turns json.Number values into int64 when they are
// integral and float64 otherwise, so snapshots re-encode as numbers in every
// format.
func normalizeNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeNumbers(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeNumbers(e)
		}
		return x
	default:
		return v
	}
}

// Keys returns the top-level field names in the snapshot.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
