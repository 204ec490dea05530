package source

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFSReader_Read(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "commands/hello.md", "Say hello.\n")
	writeSource(t, dir, "commands/review.md",
		"---\ndescription: code review\ncategory: git\nallowed-tools: Read\n---\n\nReview the diff.\n")
	writeSource(t, dir, "commands/notes.txt", "not markdown\n")

	reader := &FSReader{Root: dir}
	entries, err := reader.Read("commands/*.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	// Lexical path order: hello before review.
	if entries[0].Name != "hello" || entries[1].Name != "review" {
		t.Errorf("names = %q, %q", entries[0].Name, entries[1].Name)
	}
	if entries[0].Content != "Say hello." {
		t.Errorf("content = %q", entries[0].Content)
	}

	review := entries[1]
	if review.Meta.Description != "code review" || review.Meta.Category != "git" {
		t.Errorf("meta = %+v", review.Meta)
	}
	if !reflect.DeepEqual([]string(review.Meta.AllowedTools), []string{"Read"}) {
		t.Errorf("AllowedTools = %v", review.Meta.AllowedTools)
	}
}

func TestFSReader_DoublestarGlob(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a/one.md", "one")
	writeSource(t, dir, "a/b/two.md", "two")

	reader := &FSReader{Root: dir}
	entries, err := reader.Read("**/*.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestFSReader_NoMatches(t *testing.T) {
	reader := &FSReader{Root: t.TempDir()}
	entries, err := reader.Read("missing/*.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestFSReader_NameFromFrontmatter(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "x.md", "---\nname: renamed\n---\nbody")

	entries, err := (&FSReader{Root: dir}).Read("*.md")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "renamed" {
		t.Errorf("entries = %+v, want name renamed", entries)
	}
}

func TestEntry_CommandSpec(t *testing.T) {
	e := Entry{
		Name:    "review",
		Content: "Review the diff.",
		Meta: Meta{
			Description:  "code review",
			Category:     "git",
			ArgumentHint: "[files]",
			Model:        "opus",
			AllowedTools: []string{"Read", "Grep"},
		},
	}

	spec := e.CommandSpec()
	if spec.Content != "Review the diff." || spec.Description != "code review" {
		t.Errorf("spec = %+v", spec)
	}
	if spec.Category != "git" || spec.ArgumentHint != "[files]" || spec.Model != "opus" {
		t.Errorf("spec = %+v", spec)
	}
	if len(spec.AllowedTools) != 2 {
		t.Errorf("AllowedTools = %v", spec.AllowedTools)
	}
}

func TestEntry_AgentSpec(t *testing.T) {
	e := Entry{
		Name:    "reviewer",
		Content: "You review code.",
		Meta: Meta{
			Description: "Reviews code",
			Tools:       []string{"Read"},
			Model:       "sonnet",
		},
	}

	spec := e.AgentSpec()
	if spec.Name != "reviewer" || spec.Description != "Reviews code" {
		t.Errorf("spec = %+v", spec)
	}
	if spec.Content != "You review code." || spec.Model != "sonnet" {
		t.Errorf("spec = %+v", spec)
	}
}
