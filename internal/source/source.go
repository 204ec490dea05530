// Package source resolves glob patterns to markdown command/agent sources
// with optional YAML frontmatter metadata.
package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/pkg/frontmatter"
)

// Meta is the frontmatter metadata a markdown source may carry.
type Meta struct {
	// Name overrides the filename-derived artifact name.
	Name string `yaml:"name,omitempty"`

	// Description explains the artifact.
	Description string `yaml:"description,omitempty"`

	// Category groups the artifact into a subdirectory on install.
	Category string `yaml:"category,omitempty"`

	// ArgumentHint is hint text for command arguments.
	ArgumentHint string `yaml:"argument-hint,omitempty"`

	// Model overrides the model for the artifact.
	Model string `yaml:"model,omitempty"`

	// AllowedTools lists tool permissions; accepts a string or list.
	AllowedTools profile.StringList `yaml:"allowed-tools,omitempty"`

	// Tools lists agent tools; accepts a string or list.
	Tools profile.StringList `yaml:"tools,omitempty"`
}

// Entry is one resolved markdown source.
type Entry struct {
	// Name is the artifact name: frontmatter name if set, otherwise the
	// filename without extension.
	Name string

	// Content is the markdown body with frontmatter stripped.
	Content string

	// Meta is the frontmatter-derived metadata, zero when absent.
	Meta Meta
}

// Reader resolves a glob pattern to a set of source entries.
type Reader interface {
	Read(pattern string) ([]Entry, error)
}

// FSReader reads markdown sources from the filesystem. Patterns support
// doublestar globs (**, {a,b}, etc.) and resolve relative to Root when it
// is set.
type FSReader struct {
	// Root is the base directory for relative patterns. Empty means the
	// process working directory.
	Root string
}

// Read implements Reader. Matches are returned in lexical path order so
// repeated compiles see the same artifact ordering.
func (r *FSReader) Read(pattern string) ([]Entry, error) {
	if r.Root != "" && !filepath.IsAbs(pattern) {
		pattern = filepath.Join(r.Root, pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad source pattern %q", pattern)
	}
	sort.Strings(matches)

	var entries []Entry
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "checking source %q", path)
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			continue
		}

		entry, err := readEntry(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readEntry(path string) (Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "opening source %q", path)
	}
	defer f.Close()

	var meta Meta
	body, err := frontmatter.Parse(f, &meta)
	if err != nil {
		return Entry{}, errors.Wrapf(err, "parsing source %q", path)
	}

	name := meta.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return Entry{
		Name:    name,
		Content: strings.TrimSpace(string(body)),
		Meta:    meta,
	}, nil
}

// CommandSpec converts the entry to a command definition.
func (e Entry) CommandSpec() profile.CommandSpec {
	return profile.CommandSpec{
		Content:      e.Content,
		Description:  e.Meta.Description,
		Category:     e.Meta.Category,
		ArgumentHint: e.Meta.ArgumentHint,
		Model:        e.Meta.Model,
		AllowedTools: e.Meta.AllowedTools,
	}
}

// AgentSpec converts the entry to an agent definition.
func (e Entry) AgentSpec() profile.AgentSpec {
	return profile.AgentSpec{
		Name:        e.Name,
		Description: e.Meta.Description,
		Tools:       e.Meta.Tools,
		Model:       e.Meta.Model,
		Content:     e.Content,
	}
}
