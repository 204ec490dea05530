package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/plugin"
	"github.com/thoreinstein/strata/internal/preset"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/schema"
	"github.com/thoreinstein/strata/internal/source"
)

func testLoader(builtins map[string]string) *preset.Loader {
	return preset.NewLoader(builtins, nil, nil)
}

func TestCompile_EndToEnd(t *testing.T) {
	builtins := map[string]string{
		"base": `
permissions:
  allow:
    - Read(**)
env:
  BASE: "1"
`,
	}

	registry := plugin.NewRegistry()
	err := registry.Register(&plugin.Definition{
		PluginName: "policy",
		TransformFunc: func(_ context.Context, cfg *profile.Config) (*profile.Config, error) {
			cfg.Permissions.Deny = append(cfg.Permissions.Deny, "Write(**/secrets/**)")
			return cfg, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	doc := []byte(`
extends: base
plugins:
  - policy
permissions:
  allow:
    - Grep
commands:
  commands:
    hello: "Say hello"
`)

	comp := New(testLoader(builtins), registry)
	result := comp.Compile(context.Background(), doc, profile.FormatYAML, "profile.yaml")

	if result.Failed() {
		t.Fatalf("compile failed: %v", result.Diagnostics.Diagnostics)
	}
	if len(result.Diagnostics.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", result.Diagnostics.Diagnostics)
	}

	settings := result.Output.Settings
	if settings.Schema != schema.DefaultMarker {
		t.Errorf("Schema = %q, want the default marker", settings.Schema)
	}

	wantAllow := []string{"Read(**)", "Grep"}
	if len(settings.Permissions.Allow) != 2 {
		t.Fatalf("Allow = %v, want %v", settings.Permissions.Allow, wantAllow)
	}
	for i := range wantAllow {
		if settings.Permissions.Allow[i] != wantAllow[i] {
			t.Errorf("Allow[%d] = %q, want %q", i, settings.Permissions.Allow[i], wantAllow[i])
		}
	}
	if len(settings.Permissions.Deny) != 1 || settings.Permissions.Deny[0] != "Write(**/secrets/**)" {
		t.Errorf("Deny = %v", settings.Permissions.Deny)
	}
	if settings.Env["BASE"] != "1" {
		t.Errorf("Env[BASE] = %q", settings.Env["BASE"])
	}
	if result.Output.Commands["hello"].Content != "Say hello" {
		t.Errorf("hello = %+v", result.Output.Commands["hello"])
	}
}

func TestCompile_DiamondInheritance(t *testing.T) {
	builtins := map[string]string{
		"shared": `
permissions:
  allow:
    - Read(**)
model: shared
`,
		"left": `
extends: shared
permissions:
  allow:
    - Read(**)
model: left
`,
		"right": `
extends: shared
permissions:
  allow:
    - Grep
`,
	}

	doc := []byte("extends:\n  - left\n  - right\n")
	comp := New(testLoader(builtins), plugin.NewRegistry())
	result := comp.Compile(context.Background(), doc, profile.FormatYAML, "p")

	if result.Failed() {
		t.Fatalf("compile failed: %v", result.Diagnostics.Diagnostics)
	}

	// The shared ancestor merges once, at its first-visit position, so no
	// duplicate permissions appear and left's scalar still overrides it.
	allow := result.Output.Settings.Permissions.Allow
	if len(allow) != 2 || allow[0] != "Read(**)" || allow[1] != "Grep" {
		t.Errorf("Allow = %v, want [Read(**) Grep]", allow)
	}
	if result.Output.Settings.Model != "left" {
		t.Errorf("Model = %q, want left", result.Output.Settings.Model)
	}
}

func TestCompile_CycleFails(t *testing.T) {
	builtins := map[string]string{
		"a": "extends: b\n",
		"b": "extends: a\n",
	}

	comp := New(testLoader(builtins), plugin.NewRegistry())
	result := comp.Compile(context.Background(), []byte("extends: a\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("cycle should fail the compile")
	}
	errs := result.Diagnostics.Errors()
	if len(errs) != 1 || errs[0].Code != diagnostic.CodeCircularDependency {
		t.Errorf("errors = %v, want one CircularDependency", errs)
	}
}

func TestCompile_PresetNotFoundFails(t *testing.T) {
	comp := New(testLoader(nil), plugin.NewRegistry())
	result := comp.Compile(context.Background(), []byte("extends: missing\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("unresolvable preset should fail the compile")
	}
	errs := result.Diagnostics.Errors()
	if len(errs) != 1 || errs[0].Code != diagnostic.CodePresetNotFound {
		t.Errorf("errors = %v, want one PresetNotFound", errs)
	}
}

func TestCompile_EnvTypeErrorFails(t *testing.T) {
	comp := New(testLoader(nil), plugin.NewRegistry())
	result := comp.Compile(context.Background(), []byte("env:\n  COUNT: 42\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("non-string env value should fail the compile")
	}
	errs := result.Diagnostics.Errors()
	if len(errs) != 1 || errs[0].Code != diagnostic.CodeTypeCoercionError {
		t.Errorf("errors = %v, want one TypeCoercionError", errs)
	}
	if errs[0].Field != "env.COUNT" {
		t.Errorf("Field = %q, want env.COUNT", errs[0].Field)
	}
}

func TestCompile_PluginLoadWarningStillEmits(t *testing.T) {
	comp := New(testLoader(nil), plugin.NewRegistry())
	result := comp.Compile(context.Background(),
		[]byte("plugins:\n  - ghost\n"), profile.FormatYAML, "p")

	if result.Failed() {
		t.Fatalf("load failure should be a warning, got errors: %v", result.Diagnostics.Errors())
	}
	warnings := result.Diagnostics.Warnings()
	if len(warnings) != 1 || warnings[0].Code != diagnostic.CodePluginLoadError {
		t.Errorf("warnings = %v, want one PluginLoadError", warnings)
	}
}

func TestCompile_PluginTransformFaultFails(t *testing.T) {
	registry := plugin.NewRegistry()
	_ = registry.Register(&plugin.Definition{
		PluginName: "boom",
		TransformFunc: func(context.Context, *profile.Config) (*profile.Config, error) {
			return nil, os.ErrInvalid
		},
	})

	comp := New(testLoader(nil), registry)
	result := comp.Compile(context.Background(),
		[]byte("plugins:\n  - boom\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("transform fault should fail the compile")
	}
	errs := result.Diagnostics.Errors()
	if len(errs) != 1 || errs[0].Code != diagnostic.CodePluginTransformError {
		t.Errorf("errors = %v, want one PluginTransformError", errs)
	}
}

func TestCompile_PluginValidateErrorBlocksEmission(t *testing.T) {
	registry := plugin.NewRegistry()
	_ = registry.Register(&plugin.Definition{
		PluginName: "strict-model",
		ValidateFunc: func(_ context.Context, cfg *profile.Config) []diagnostic.Diagnostic {
			if cfg.Scalars.Model == "" {
				return []diagnostic.Diagnostic{
					diagnostic.Errorf(diagnostic.CodeSchemaValidationError, "model is required"),
				}
			}
			return nil
		},
	})

	comp := New(testLoader(nil), registry)
	result := comp.Compile(context.Background(),
		[]byte("plugins:\n  - strict-model\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("plugin validate error should block emission")
	}
}

func TestCompile_UnparseableProfile(t *testing.T) {
	comp := New(testLoader(nil), plugin.NewRegistry())
	result := comp.Compile(context.Background(), []byte(": : :\n"), profile.FormatYAML, "p")

	if !result.Failed() {
		t.Fatal("malformed profile should fail the compile")
	}
}

func TestCompile_FileSources(t *testing.T) {
	dir := t.TempDir()
	content := "---\ndescription: code review\n---\n\nReview the diff.\n"
	if err := os.WriteFile(filepath.Join(dir, "review.md"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := []byte(`
commands:
  files:
    - "*.md"
  commands:
    review: "explicit wins"
subagents:
  files:
    - "*.md"
`)

	comp := New(testLoader(nil), plugin.NewRegistry(),
		WithSourceReader(&source.FSReader{Root: dir}))
	result := comp.Compile(context.Background(), doc, profile.FormatYAML, "p")

	if result.Failed() {
		t.Fatalf("compile failed: %v", result.Diagnostics.Diagnostics)
	}

	// Direct definitions win over file-sourced entries of the same name.
	if result.Output.Commands["review"].Content != "explicit wins" {
		t.Errorf("review = %+v", result.Output.Commands["review"])
	}
	agent := result.Output.Agents["review"]
	if agent.Description != "code review" {
		t.Errorf("agent = %+v", agent)
	}
}

func TestCompile_CommandPresets(t *testing.T) {
	builtins := map[string]string{
		"git-helpers": `
commands:
  commands:
    commit: "Write a commit message"
`,
	}

	doc := []byte(`
commands:
  presets:
    - git-helpers
`)

	comp := New(testLoader(builtins), plugin.NewRegistry())
	result := comp.Compile(context.Background(), doc, profile.FormatYAML, "p")

	if result.Failed() {
		t.Fatalf("compile failed: %v", result.Diagnostics.Diagnostics)
	}
	if result.Output.Commands["commit"].Content != "Write a commit message" {
		t.Errorf("commit = %+v", result.Output.Commands["commit"])
	}
}

func TestCompile_LegacyEncodings(t *testing.T) {
	doc := []byte(`
ENV:
  FOO: bar
agents:
  agents:
    helper: "You help."
hooks:
  PreToolUse:
    - matcher: "Write(**)"
      command: "echo hi"
`)

	comp := New(testLoader(nil), plugin.NewRegistry())
	result := comp.Compile(context.Background(), doc, profile.FormatYAML, "p")

	if result.Failed() {
		t.Fatalf("compile failed: %v", result.Diagnostics.Diagnostics)
	}

	settings := result.Output.Settings
	if settings.Env["FOO"] != "bar" {
		t.Errorf("Env = %v", settings.Env)
	}
	if result.Output.Agents["helper"].Content != "You help." {
		t.Errorf("agents = %+v", result.Output.Agents)
	}

	hooks := settings.Hooks[profile.PreToolUse]
	if len(hooks) != 1 {
		t.Fatalf("hooks = %+v", settings.Hooks)
	}
	if hooks[0].Matcher != "Write" {
		t.Errorf("Matcher = %q, want Write", hooks[0].Matcher)
	}
	if len(hooks[0].Commands) != 1 || hooks[0].Commands[0].Executable != "echo hi" {
		t.Errorf("Commands = %+v", hooks[0].Commands)
	}
}
