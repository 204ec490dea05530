package profile

import (
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/strata/internal/errors"
)

// CommandSpec defines one slash command artifact.
//
// Accepted encodings: a plain string (the content body) or a mapping with
// content plus optional metadata.
type CommandSpec struct {
	// Content is the command's free-text body.
	Content string `yaml:"content" json:"content"`

	// Description is shown in command listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Category groups the artifact into a subdirectory on install.
	Category string `yaml:"category,omitempty" json:"category,omitempty"`

	// ArgumentHint is hint text for command arguments.
	ArgumentHint string `yaml:"argument-hint,omitempty" json:"argumentHint,omitempty"`

	// Model overrides the model used when the command runs.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// AllowedTools lists the tool permissions available to the command.
	AllowedTools []string `yaml:"allowed-tools,omitempty" json:"allowedTools,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting a bare string as
// shorthand for {content: ...}.
func (c *CommandSpec) UnmarshalYAML(value *yaml.Node) error {
	var single string
	if err := value.Decode(&single); err == nil {
		*c = CommandSpec{Content: single}
		return nil
	}

	type plain CommandSpec
	var full plain
	if err := value.Decode(&full); err != nil {
		return errors.Wrap(err, "decoding command definition")
	}
	*c = CommandSpec(full)
	return nil
}

// AgentSpec defines one agent definition artifact.
type AgentSpec struct {
	// Name is the agent identifier. Populated from the map key when empty.
	Name string `yaml:"name,omitempty" json:"name"`

	// Description explains when the agent should be used.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Tools lists the tools available to the agent.
	Tools []string `yaml:"tools,omitempty" json:"tools,omitempty"`

	// Model overrides the model used by the agent.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// Content is the agent's free-text system prompt.
	Content string `yaml:"content" json:"content"`
}

// UnmarshalYAML implements yaml.Unmarshaler, accepting a bare string as
// shorthand for {content: ...}.
func (a *AgentSpec) UnmarshalYAML(value *yaml.Node) error {
	var single string
	if err := value.Decode(&single); err == nil {
		*a = AgentSpec{Content: single}
		return nil
	}

	type plain AgentSpec
	var full plain
	if err := value.Decode(&full); err != nil {
		return errors.Wrap(err, "decoding agent definition")
	}
	*a = AgentSpec(full)
	return nil
}

// CommandSource declares where a fragment's slash commands come from.
//
// Accepted encodings: a plain list of preset references, or a mapping with
// presets, files (glob patterns to markdown sources), and direct
// definitions.
type CommandSource struct {
	// Presets lists preset references whose command sets are included.
	Presets []string `yaml:"presets,omitempty"`

	// Files lists glob patterns resolving to markdown command sources.
	Files []string `yaml:"files,omitempty"`

	// Commands maps command names to direct definitions.
	Commands map[string]CommandSpec `yaml:"commands,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *CommandSource) UnmarshalYAML(value *yaml.Node) error {
	var refs []string
	if err := value.Decode(&refs); err == nil {
		*s = CommandSource{Presets: refs}
		return nil
	}

	type plain CommandSource
	var full plain
	if err := value.Decode(&full); err != nil {
		return errors.Wrap(err, "commands must be a list of preset references or a source mapping")
	}
	*s = CommandSource(full)
	return nil
}

// Empty reports whether the source declares nothing.
func (s CommandSource) Empty() bool {
	return len(s.Presets) == 0 && len(s.Files) == 0 && len(s.Commands) == 0
}

// AgentSource declares where a fragment's agent definitions come from.
// Same encodings as CommandSource, with direct definitions under "agents".
type AgentSource struct {
	// Presets lists preset references whose agent sets are included.
	Presets []string `yaml:"presets,omitempty"`

	// Files lists glob patterns resolving to markdown agent sources.
	Files []string `yaml:"files,omitempty"`

	// Agents maps agent names to direct definitions.
	Agents map[string]AgentSpec `yaml:"agents,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *AgentSource) UnmarshalYAML(value *yaml.Node) error {
	var refs []string
	if err := value.Decode(&refs); err == nil {
		*s = AgentSource{Presets: refs}
		return nil
	}

	type plain AgentSource
	var full plain
	if err := value.Decode(&full); err != nil {
		return errors.Wrap(err, "subagents must be a list of preset references or a source mapping")
	}
	*s = AgentSource(full)
	return nil
}

// Empty reports whether the source declares nothing.
func (s AgentSource) Empty() bool {
	return len(s.Presets) == 0 && len(s.Files) == 0 && len(s.Agents) == 0
}
