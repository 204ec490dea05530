// Package install writes compiled output to disk: the settings document
// as JSON plus one markdown artifact per command and agent.
package install

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/thoreinstein/strata/internal/emit"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/pkg/frontmatter"
)

// File names and directories under the output root.
const (
	SettingsFile = "settings.json"
	CommandsDir  = "commands"
	AgentsDir    = "agents"
)

// Installer writes compiled output under a root directory.
type Installer struct {
	root string
}

// New creates an Installer targeting the given output root.
func New(root string) *Installer {
	return &Installer{root: root}
}

// Install writes the settings document and all artifacts. Existing files
// with the same names are overwritten; nothing else in the root is
// touched.
func (i *Installer) Install(out *emit.Output) error {
	if err := os.MkdirAll(i.root, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	data, err := out.Settings.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(i.root, SettingsFile), data, 0o644); err != nil {
		return errors.Wrap(err, "writing settings document")
	}

	for _, name := range sortedKeys(out.Commands) {
		if err := i.writeCommand(name, out.Commands[name]); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(out.Agents) {
		if err := i.writeAgent(name, out.Agents[name]); err != nil {
			return err
		}
	}
	return nil
}

// commandMatter is the frontmatter header for a command artifact.
type commandMatter struct {
	Description  string   `yaml:"description,omitempty"`
	ArgumentHint string   `yaml:"argument-hint,omitempty"`
	Model        string   `yaml:"model,omitempty"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
}

func (i *Installer) writeCommand(name string, spec profile.CommandSpec) error {
	dir := filepath.Join(i.root, CommandsDir)
	if spec.Category != "" {
		dir = filepath.Join(dir, spec.Category)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating command directory for %q", name)
	}

	matter := commandMatter{
		Description:  spec.Description,
		ArgumentHint: spec.ArgumentHint,
		Model:        spec.Model,
		AllowedTools: spec.AllowedTools,
	}

	// Emit a header only when there is metadata to carry.
	hasMeta := matter.Description != "" || matter.ArgumentHint != "" ||
		matter.Model != "" || len(matter.AllowedTools) > 0

	var content []byte
	if hasMeta {
		var err error
		content, err = frontmatter.Format(matter, spec.Content)
		if err != nil {
			return errors.Wrapf(err, "formatting command %q", name)
		}
	} else {
		content = []byte(spec.Content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
	}

	path := filepath.Join(dir, name+".md")
	return errors.Wrapf(os.WriteFile(path, content, 0o644), "writing command %q", name)
}

// agentMatter is the frontmatter header for an agent artifact.
type agentMatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tools       []string `yaml:"tools,omitempty"`
	Model       string   `yaml:"model,omitempty"`
}

func (i *Installer) writeAgent(name string, spec profile.AgentSpec) error {
	dir := filepath.Join(i.root, AgentsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating agent directory for %q", name)
	}

	matter := agentMatter{
		Name:        spec.Name,
		Description: spec.Description,
		Tools:       spec.Tools,
		Model:       spec.Model,
	}
	if matter.Name == "" {
		matter.Name = name
	}

	content, err := frontmatter.Format(matter, spec.Content)
	if err != nil {
		return errors.Wrapf(err, "formatting agent %q", name)
	}

	path := filepath.Join(dir, name+".md")
	return errors.Wrapf(os.WriteFile(path, content, 0o644), "writing agent %q", name)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
