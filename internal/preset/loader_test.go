package preset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/resolver"
)

func TestClassify(t *testing.T) {
	loader := NewLoader(Builtins(), nil, nil)

	tests := []struct {
		ref  string
		want string
	}{
		{"base", KindBuiltin},
		{"strict", KindBuiltin},
		{"./team.yaml", KindLocal},
		{"presets/team.yaml", KindLocal},
		{"team.toml", KindLocal},
		{"team.yml", KindLocal},
		{"company-standards", KindExternal},
	}
	for _, tt := range tests {
		if got := loader.Classify(tt.ref); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestLoad_Builtin(t *testing.T) {
	loader := NewLoader(Builtins(), nil, nil)

	frag, err := loader.Load(context.Background(), "strict")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if frag.Origin != "strict" {
		t.Errorf("Origin = %q, want strict", frag.Origin)
	}
	if len(frag.Extends) != 1 || frag.Extends[0] != "base" {
		t.Errorf("Extends = %v, want [base]", frag.Extends)
	}
	if len(frag.Permissions.Deny) != 2 {
		t.Errorf("Deny = %v", frag.Permissions.Deny)
	}
	if frag.Scalars.IncludeCoAuthoredBy == nil || *frag.Scalars.IncludeCoAuthoredBy {
		t.Errorf("IncludeCoAuthoredBy = %v, want false", frag.Scalars.IncludeCoAuthoredBy)
	}
}

func TestLoad_Local(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.yaml")
	if err := os.WriteFile(path, []byte("env:\n  TEAM: core\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(Builtins(), nil, nil)
	frag, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if frag.Env["TEAM"] != "core" {
		t.Errorf("Env[TEAM] = %q, want core", frag.Env["TEAM"])
	}
}

func TestLoad_LocalTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.toml")
	if err := os.WriteFile(path, []byte("model = \"opus\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	frag, err := NewLoader(Builtins(), nil, nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if frag.Scalars.Model != "opus" {
		t.Errorf("Model = %q, want opus", frag.Scalars.Model)
	}
}

func TestLoad_LocalNotFound(t *testing.T) {
	loader := NewLoader(Builtins(), nil, nil)

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	var nf *resolver.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.Kind != KindLocal {
		t.Errorf("Kind = %q, want local", nf.Kind)
	}
	if !errors.Is(err, errors.ErrPresetNotFound) {
		t.Error("error should match ErrPresetNotFound")
	}
}

func TestLoad_ExternalSearchDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "company.yaml"),
		[]byte("permissions:\n  deny:\n    - WebFetch\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pkgDir := filepath.Join(dir, "bundle")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "preset.yaml"),
		[]byte("env:\n  BUNDLE: \"1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(Builtins(), []string{dir}, nil)

	frag, err := loader.Load(context.Background(), "company")
	if err != nil {
		t.Fatalf("Load(company) error = %v", err)
	}
	if len(frag.Permissions.Deny) != 1 {
		t.Errorf("Deny = %v", frag.Permissions.Deny)
	}

	frag, err = loader.Load(context.Background(), "bundle")
	if err != nil {
		t.Fatalf("Load(bundle) error = %v", err)
	}
	if frag.Env["BUNDLE"] != "1" {
		t.Errorf("Env[BUNDLE] = %q", frag.Env["BUNDLE"])
	}
}

func TestLoad_ExternalNotFound(t *testing.T) {
	loader := NewLoader(Builtins(), []string{t.TempDir()}, nil)

	_, err := loader.Load(context.Background(), "nonexistent")
	var nf *resolver.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if nf.Kind != KindExternal {
		t.Errorf("Kind = %q, want external", nf.Kind)
	}
}

func TestLoad_NormalizationDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("env:\n  COUNT: 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(Builtins(), nil, nil).Load(context.Background(), path)
	var diagErr *diagnostic.Error
	if !errors.As(err, &diagErr) {
		t.Fatalf("error = %v, want diagnostic.Error", err)
	}
	if len(diagErr.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diagErr.Diagnostics))
	}
	if diagErr.Diagnostics[0].Code != diagnostic.CodeTypeCoercionError {
		t.Errorf("Code = %q, want TypeCoercionError", diagErr.Diagnostics[0].Code)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewLoader(Builtins(), nil, nil).Load(ctx, "base"); err == nil {
		t.Error("Load() should fail on a canceled context")
	}
}

func TestBuiltins_AllParse(t *testing.T) {
	loader := NewLoader(Builtins(), nil, nil)
	for name := range Builtins() {
		if _, err := loader.Load(context.Background(), name); err != nil {
			t.Errorf("builtin %q failed to load: %v", name, err)
		}
	}
}
