package profile

import (
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/strata/internal/errors"
)

// Fragment is a partial configuration document: the root profile, a named
// preset, or a plugin's contributed defaults. Fragments are immutable once
// resolved and discarded after merge.
type Fragment struct {
	// Origin identifies where the fragment came from (profile path,
	// preset reference, or plugin name). Not part of the document.
	Origin string `yaml:"-" json:"-"`

	// Extends lists parent preset references, most-base first.
	Extends StringList `yaml:"extends,omitempty"`

	// Plugins lists plugin references in pipeline order.
	// Only meaningful on the root fragment.
	Plugins []string `yaml:"plugins,omitempty"`

	// Permissions holds the allow/ask/deny pattern lists.
	Permissions PermissionSet `yaml:"permissions,omitempty"`

	// Hooks maps event types to hook entries.
	Hooks HookRegistry `yaml:"hooks,omitempty"`

	// Env maps environment variable names to values.
	// Values are strings by the time a fragment exists; the normalizer
	// rejects anything else before decode.
	Env map[string]string `yaml:"env,omitempty"`

	// Commands declares slash command sources.
	Commands CommandSource `yaml:"commands,omitempty"`

	// Agents declares agent definition sources.
	Agents AgentSource `yaml:"subagents,omitempty"`

	// Scalars carries the passthrough top-level fields.
	Scalars Scalars `yaml:",inline"`
}

// PermissionSet holds the three ordered permission pattern lists.
type PermissionSet struct {
	Allow []string `yaml:"allow,omitempty" json:"allow,omitempty"`
	Ask   []string `yaml:"ask,omitempty" json:"ask,omitempty"`
	Deny  []string `yaml:"deny,omitempty" json:"deny,omitempty"`
}

// Clone returns a deep copy of the permission set.
func (p PermissionSet) Clone() PermissionSet {
	return PermissionSet{
		Allow: append([]string(nil), p.Allow...),
		Ask:   append([]string(nil), p.Ask...),
		Deny:  append([]string(nil), p.Deny...),
	}
}

// StringList decodes from either a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	var multi []string
	if err := value.Decode(&multi); err == nil {
		*s = multi
		return nil
	}

	var single string
	if err := value.Decode(&single); err == nil {
		if single == "" {
			*s = nil
			return nil
		}
		*s = StringList{single}
		return nil
	}

	return errors.Newf("expected a string or list of strings, got %s", value.Tag)
}

// Scalars is the bag of passthrough top-level fields. Each field merges
// independently with last-set-wins; an unset field never overrides an
// ancestor's value, which is why optional non-string fields are pointers.
type Scalars struct {
	// Model is the default model name.
	Model string `yaml:"model,omitempty" json:"model,omitempty"`

	// APIKeyHelper is a helper command producing an API key.
	APIKeyHelper string `yaml:"apiKeyHelper,omitempty" json:"apiKeyHelper,omitempty"`

	// CleanupPeriodDays is the transcript retention period.
	CleanupPeriodDays *int `yaml:"cleanupPeriodDays,omitempty" json:"cleanupPeriodDays,omitempty"`

	// IncludeCoAuthoredBy toggles the co-authorship commit trailer.
	IncludeCoAuthoredBy *bool `yaml:"includeCoAuthoredBy,omitempty" json:"includeCoAuthoredBy,omitempty"`

	// StatusLine configures the status line display.
	StatusLine *StatusLine `yaml:"statusLine,omitempty" json:"statusLine,omitempty"`

	// ForceLoginMethod overrides the login method.
	ForceLoginMethod string `yaml:"forceLoginMethod,omitempty" json:"forceLoginMethod,omitempty"`

	// OutputStyle selects the response output style.
	OutputStyle string `yaml:"outputStyle,omitempty" json:"outputStyle,omitempty"`

	// SpinnerTipsEnabled toggles spinner tips.
	SpinnerTipsEnabled *bool `yaml:"spinnerTipsEnabled,omitempty" json:"spinnerTipsEnabled,omitempty"`

	// EnabledMCPJSONServers lists MCP servers to enable.
	EnabledMCPJSONServers []string `yaml:"enabledMcpjsonServers,omitempty" json:"enabledMcpjsonServers,omitempty"`

	// DisabledMCPJSONServers lists MCP servers to disable.
	DisabledMCPJSONServers []string `yaml:"disabledMcpjsonServers,omitempty" json:"disabledMcpjsonServers,omitempty"`
}

// StatusLine describes the status line command descriptor.
type StatusLine struct {
	Type    string `yaml:"type,omitempty" json:"type,omitempty"`
	Command string `yaml:"command,omitempty" json:"command,omitempty"`
	Padding *int   `yaml:"padding,omitempty" json:"padding,omitempty"`
}

// Clone returns a deep copy of the scalars.
func (s Scalars) Clone() Scalars {
	out := s
	if s.CleanupPeriodDays != nil {
		v := *s.CleanupPeriodDays
		out.CleanupPeriodDays = &v
	}
	if s.IncludeCoAuthoredBy != nil {
		v := *s.IncludeCoAuthoredBy
		out.IncludeCoAuthoredBy = &v
	}
	if s.SpinnerTipsEnabled != nil {
		v := *s.SpinnerTipsEnabled
		out.SpinnerTipsEnabled = &v
	}
	if s.StatusLine != nil {
		v := *s.StatusLine
		if s.StatusLine.Padding != nil {
			p := *s.StatusLine.Padding
			v.Padding = &p
		}
		out.StatusLine = &v
	}
	out.EnabledMCPJSONServers = append([]string(nil), s.EnabledMCPJSONServers...)
	out.DisabledMCPJSONServers = append([]string(nil), s.DisabledMCPJSONServers...)
	return out
}
