package profile

import (
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/strata/internal/errors"
)

// Format identifies a profile document encoding.
type Format string

const (
	// FormatYAML is the primary document encoding.
	FormatYAML Format = "yaml"
	// FormatTOML is the alternate document encoding.
	FormatTOML Format = "toml"
)

// DetectFormat returns the document format for a file path based on its
// extension. Unknown extensions default to YAML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// DecodeDocument decodes raw profile bytes into an untyped document map.
// The normalizer operates on this shape before the typed decode, so legacy
// key spellings and shorthand encodings survive this step untouched.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	doc := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "unmarshaling toml document")
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "unmarshaling yaml document")
		}
	}
	return doc, nil
}

// FragmentFromDocument decodes a normalized document map into a typed
// Fragment. The document must already be in canonical shape; callers run
// the normalizer first.
func FragmentFromDocument(origin string, doc map[string]any) (*Fragment, error) {
	// Round-trip through YAML so the custom unmarshalers apply uniformly
	// regardless of the original document encoding.
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding normalized document")
	}

	var frag Fragment
	if err := yaml.Unmarshal(raw, &frag); err != nil {
		return nil, errors.Wrapf(err, "decoding fragment %q", origin)
	}
	frag.Origin = origin
	return &frag, nil
}
