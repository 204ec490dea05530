package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/strata/internal/emit"
	"github.com/thoreinstein/strata/internal/profile"
)

func testOutput() *emit.Output {
	return &emit.Output{
		Settings: &emit.Settings{
			Schema: "https://example.com/schema.json",
			Permissions: profile.PermissionSet{
				Allow: []string{"Read(**)"},
			},
		},
		Commands: map[string]profile.CommandSpec{
			"hello": {Content: "Say hello."},
			"review": {
				Content:     "Review the diff.",
				Description: "code review",
				Category:    "git",
			},
		},
		Agents: map[string]profile.AgentSpec{
			"reviewer": {
				Name:        "reviewer",
				Description: "Reviews code",
				Tools:       []string{"Read", "Grep"},
				Content:     "You review code.",
			},
		},
	}
}

func TestInstall(t *testing.T) {
	root := t.TempDir()
	if err := New(root).Install(testOutput()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, SettingsFile))
	if err != nil {
		t.Fatalf("reading settings: %v", err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings.json is not valid JSON: %v", err)
	}
	if settings["$schema"] != "https://example.com/schema.json" {
		t.Errorf("$schema = %v", settings["$schema"])
	}

	// Plain command: no frontmatter header.
	hello, err := os.ReadFile(filepath.Join(root, CommandsDir, "hello.md"))
	if err != nil {
		t.Fatalf("reading hello.md: %v", err)
	}
	if strings.HasPrefix(string(hello), "---") {
		t.Error("command without metadata should not carry frontmatter")
	}
	if !strings.Contains(string(hello), "Say hello.") {
		t.Errorf("hello.md = %q", hello)
	}

	// Categorized command lands in its subdirectory with a header.
	review, err := os.ReadFile(filepath.Join(root, CommandsDir, "git", "review.md"))
	if err != nil {
		t.Fatalf("reading review.md: %v", err)
	}
	if !strings.HasPrefix(string(review), "---") {
		t.Error("command with metadata should carry frontmatter")
	}
	if !strings.Contains(string(review), "description: code review") {
		t.Errorf("review.md = %q", review)
	}

	// Agents always carry frontmatter with the name.
	agent, err := os.ReadFile(filepath.Join(root, AgentsDir, "reviewer.md"))
	if err != nil {
		t.Fatalf("reading reviewer.md: %v", err)
	}
	for _, want := range []string{"name: reviewer", "description: Reviews code", "You review code."} {
		if !strings.Contains(string(agent), want) {
			t.Errorf("reviewer.md missing %q:\n%s", want, agent)
		}
	}
}

func TestInstall_Overwrites(t *testing.T) {
	root := t.TempDir()
	installer := New(root)

	if err := installer.Install(testOutput()); err != nil {
		t.Fatalf("first Install() error = %v", err)
	}

	out := testOutput()
	out.Commands["hello"] = profile.CommandSpec{Content: "Updated."}
	if err := installer.Install(out); err != nil {
		t.Fatalf("second Install() error = %v", err)
	}

	hello, err := os.ReadFile(filepath.Join(root, CommandsDir, "hello.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(hello), "Updated.") {
		t.Errorf("hello.md = %q, want the rewritten content", hello)
	}
}

func TestInstall_LeavesUnrelatedFiles(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "keep.txt")
	if err := os.WriteFile(keep, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := New(root).Install(testOutput()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unrelated file should survive install: %v", err)
	}
}

func TestInstall_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "out")
	if err := New(root).Install(testOutput()); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, SettingsFile)); err != nil {
		t.Errorf("settings.json should exist: %v", err)
	}
}
