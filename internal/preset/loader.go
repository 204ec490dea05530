// Package preset implements the default fragment loader: builtin presets
// from a registry table, local presets from files, and classification of
// externally-installed package references.
package preset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/normalize"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/resolver"
)

// Reference kinds, used in PresetNotFound diagnostics.
const (
	KindBuiltin  = "builtin"
	KindLocal    = "local"
	KindExternal = "external"
)

// Loader resolves preset references for the resolver. It implements
// resolver.Loader and resolver.KindClassifier.
type Loader struct {
	builtins   map[string]string
	searchDirs []string
	norm       *normalize.Normalizer
}

// NewLoader creates a Loader.
//
// builtins maps builtin preset names to YAML sources (see Builtins).
// searchDirs are directories checked, in order, when resolving external
// package references as <dir>/<ref>.yaml or <dir>/<ref>/preset.yaml.
// The normalizer canonicalizes every loaded document before decode.
func NewLoader(builtins map[string]string, searchDirs []string, norm *normalize.Normalizer) *Loader {
	if norm == nil {
		norm = normalize.Default()
	}
	return &Loader{
		builtins:   builtins,
		searchDirs: searchDirs,
		norm:       norm,
	}
}

// Classify reports the reference kind: builtin, local, or external.
// Local references are paths (contain a separator or a known extension);
// builtin references match the registry; everything else is an external
// package reference.
func (l *Loader) Classify(ref string) string {
	if _, ok := l.builtins[ref]; ok {
		return KindBuiltin
	}
	if isLocalRef(ref) {
		return KindLocal
	}
	return KindExternal
}

func isLocalRef(ref string) bool {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.ContainsRune(ref, '/') {
		return true
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// Load resolves a preset reference to its fragment.
func (l *Loader) Load(ctx context.Context, ref string) (*profile.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "loading preset %q", ref)
	}

	switch l.Classify(ref) {
	case KindBuiltin:
		return l.parse(ref, []byte(l.builtins[ref]), profile.FormatYAML)
	case KindLocal:
		return l.loadLocal(ref)
	default:
		return l.loadExternal(ref)
	}
}

func (l *Loader) loadLocal(ref string) (*profile.Fragment, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &resolver.NotFoundError{Ref: ref, Kind: KindLocal}
		}
		return nil, errors.Wrapf(err, "reading preset file %q", ref)
	}
	return l.parse(ref, data, profile.DetectFormat(ref))
}

// loadExternal resolves an installed package reference through the search
// directories. Installing packages is the package manager's concern; a
// reference with no installed content is simply not found.
func (l *Loader) loadExternal(ref string) (*profile.Fragment, error) {
	for _, dir := range l.searchDirs {
		for _, candidate := range []string{
			filepath.Join(dir, ref+".yaml"),
			filepath.Join(dir, ref+".yml"),
			filepath.Join(dir, ref+".toml"),
			filepath.Join(dir, ref, "preset.yaml"),
		} {
			data, err := os.ReadFile(candidate)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, errors.Wrapf(err, "reading preset file %q", candidate)
			}
			return l.parse(ref, data, profile.DetectFormat(candidate))
		}
	}
	return nil, &resolver.NotFoundError{Ref: ref, Kind: KindExternal}
}

// parse decodes, normalizes, and types a preset document. Normalization
// errors surface as a diagnostic.Error so the resolver can report them
// under their own codes.
func (l *Loader) parse(origin string, data []byte, format profile.Format) (*profile.Fragment, error) {
	doc, err := profile.DecodeDocument(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing preset %q", origin)
	}

	diags := l.norm.Document(origin, doc)
	if hasErrors(diags) {
		return nil, diagnostic.NewError(diags...)
	}

	return profile.FragmentFromDocument(origin, doc)
}

func hasErrors(diags []diagnostic.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diagnostic.SeverityError {
			return true
		}
	}
	return false
}
