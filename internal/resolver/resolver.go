// Package resolver walks the extends graph of a profile into a flat,
// ordered fragment list for the merge engine.
package resolver

import (
	"context"
	"strings"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/profile"
)

// Loader resolves a preset reference string to its fragment content.
// Builtin-name, local-path, and external-package resolution are the
// loader's concern; the resolver only walks the graph.
type Loader interface {
	Load(ctx context.Context, ref string) (*profile.Fragment, error)
}

// KindClassifier optionally classifies a reference for diagnostics.
// The default preset loader implements it; other loaders may not.
type KindClassifier interface {
	Classify(ref string) string
}

// NotFoundError reports an unresolvable preset reference.
type NotFoundError struct {
	// Ref is the reference that failed to resolve.
	Ref string
	// Kind classifies the reference: builtin, local, or external.
	Kind string
}

func (e *NotFoundError) Error() string {
	return "preset not found: " + e.Ref + " (" + e.Kind + ")"
}

// Unwrap makes the error match errors.ErrPresetNotFound.
func (e *NotFoundError) Unwrap() error {
	return errors.ErrPresetNotFound
}

// Resolver resolves a root fragment's inheritance graph.
type Resolver struct {
	loader Loader
}

// New creates a Resolver backed by the given fragment loader.
func New(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Resolve walks the extends graph depth-first from the root and returns
// the ordered fragment list: base-most first, the root itself last.
//
// A reference already on the current traversal path is a cycle: resolution
// fails immediately with a CircularDependency diagnostic carrying the full
// accumulated path including the repeated node. A reference that cannot be
// loaded fails with PresetNotFound. Diamond inheritance is permitted; a
// shared ancestor is included once, at its first-visit position, which is
// what gives it the lowest override precedence in the merge.
func (r *Resolver) Resolve(ctx context.Context, root *profile.Fragment) ([]*profile.Fragment, []diagnostic.Diagnostic) {
	walk := &walker{
		loader:  r.loader,
		visited: make(map[string]bool),
	}

	rootName := root.Origin
	if rootName == "" {
		rootName = "<root>"
	}

	walk.path = append(walk.path, rootName)
	if diag := walk.descend(ctx, root.Extends); diag != nil {
		return nil, []diagnostic.Diagnostic{*diag}
	}

	ordered := append(walk.ordered, root)
	return ordered, nil
}

type walker struct {
	loader  Loader
	path    []string // current traversal path, for cycle reporting
	visited map[string]bool
	ordered []*profile.Fragment
}

// descend resolves each reference in order, recursing into its parents
// before emitting it (post-order yields base-most-first output).
func (w *walker) descend(ctx context.Context, refs []string) *diagnostic.Diagnostic {
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			diag := diagnostic.Errorf(diagnostic.CodePresetNotFound, "resolution canceled: %v", err).
				WithField("extends").
				WithValue(ref)
			return &diag
		}

		if w.onPath(ref) {
			cycle := append(append([]string(nil), w.path...), ref)
			diag := diagnostic.Errorf(diagnostic.CodeCircularDependency,
				"circular extends reference: %s", strings.Join(cycle, " -> ")).
				WithField("extends").
				WithContext("path", strings.Join(cycle, ",")).
				WithRemediation("remove one of the extends references to break the cycle")
			return &diag
		}

		if w.visited[ref] {
			// Diamond inheritance: keep the first visit only.
			continue
		}

		frag, err := w.loader.Load(ctx, ref)
		if err != nil {
			return loadDiagnostic(ref, err)
		}
		if frag.Origin == "" {
			frag.Origin = ref
		}

		w.path = append(w.path, ref)
		if diag := w.descend(ctx, frag.Extends); diag != nil {
			return diag
		}
		w.path = w.path[:len(w.path)-1]

		w.visited[ref] = true
		w.ordered = append(w.ordered, frag)
	}
	return nil
}

func (w *walker) onPath(ref string) bool {
	for _, p := range w.path {
		if p == ref {
			return true
		}
	}
	return false
}

func loadDiagnostic(ref string, err error) *diagnostic.Diagnostic {
	// A loader may surface structured diagnostics from parsing the
	// fragment (e.g. a TypeCoercionError); pass the first through
	// rather than masking it as PresetNotFound.
	var diagErr *diagnostic.Error
	if errors.As(err, &diagErr) && len(diagErr.Diagnostics) > 0 {
		return &diagErr.Diagnostics[0]
	}

	kind := "unknown"
	var nf *NotFoundError
	if errors.As(err, &nf) {
		kind = nf.Kind
	}

	diag := diagnostic.Errorf(diagnostic.CodePresetNotFound, "cannot load preset %q: %v", ref, err).
		WithField("extends").
		WithValue(ref).
		WithContext("kind", kind).
		WithRemediation("check the preset name or install the package that provides it")
	return &diag
}
