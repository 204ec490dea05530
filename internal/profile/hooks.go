package profile

import (
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/strata/internal/errors"
)

// EventType identifies the lifecycle event a hook runs around.
type EventType string

// The fixed set of hook event types.
const (
	PreToolUse       EventType = "PreToolUse"
	PostToolUse      EventType = "PostToolUse"
	Notification     EventType = "Notification"
	UserPromptSubmit EventType = "UserPromptSubmit"
	Stop             EventType = "Stop"
	SubagentStop     EventType = "SubagentStop"
	SessionStart     EventType = "SessionStart"
	SessionEnd       EventType = "SessionEnd"
	PreCompact       EventType = "PreCompact"
)

// eventOrder is the canonical emission order for hook event types.
var eventOrder = []EventType{
	PreToolUse,
	PostToolUse,
	Notification,
	UserPromptSubmit,
	Stop,
	SubagentStop,
	SessionStart,
	SessionEnd,
	PreCompact,
}

// Events returns all hook event types in canonical emission order.
func Events() []EventType {
	out := make([]EventType, len(eventOrder))
	copy(out, eventOrder)
	return out
}

// ValidEvent reports whether name is a recognized hook event type.
func ValidEvent(name string) bool {
	for _, e := range eventOrder {
		if string(e) == name {
			return true
		}
	}
	return false
}

// HookCommandKind is the only supported hook command kind.
const HookCommandKind = "command"

// HookCommand is one executable attached to a hook entry.
type HookCommand struct {
	// Kind is the command kind; currently always "command".
	Kind string `yaml:"kind" json:"kind"`

	// Executable is the shell command to run.
	Executable string `yaml:"executable" json:"executable"`

	// Timeout is the maximum run time in seconds. Zero means no limit.
	Timeout int `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// HookEntry binds an ordered command list to a tool matcher.
//
// Two encodings are accepted on input: the canonical nested form
// {matcher, commands: [{kind, executable}]} and the legacy shorthand
// {matcher, command: "..."} which UnmarshalYAML expands to the nested
// form. Only the canonical form is ever serialized.
type HookEntry struct {
	// Matcher selects the tool invocations the entry applies to.
	// Canonical form is a bare tool name; the normalizer reduces
	// Tool(args) matchers since the output schema has no argument-level
	// hook matching.
	Matcher string `yaml:"matcher" json:"matcher"`

	// Commands is the ordered list of commands to run.
	Commands []HookCommand `yaml:"commands" json:"commands"`
}

// hookEntryDoc accepts both the canonical and shorthand encodings.
type hookEntryDoc struct {
	Matcher  string        `yaml:"matcher"`
	Commands []HookCommand `yaml:"commands"`
	Command  string        `yaml:"command"`
	Timeout  int           `yaml:"timeout"`
}

// UnmarshalYAML implements yaml.Unmarshaler, expanding the legacy
// {matcher, command} shorthand into the canonical nested shape.
func (h *HookEntry) UnmarshalYAML(value *yaml.Node) error {
	var doc hookEntryDoc
	if err := value.Decode(&doc); err != nil {
		return errors.Wrap(err, "decoding hook entry")
	}

	h.Matcher = doc.Matcher
	h.Commands = doc.Commands
	if doc.Command != "" {
		h.Commands = append(h.Commands, HookCommand{
			Kind:       HookCommandKind,
			Executable: doc.Command,
			Timeout:    doc.Timeout,
		})
	}
	for i := range h.Commands {
		if h.Commands[i].Kind == "" {
			h.Commands[i].Kind = HookCommandKind
		}
	}
	return nil
}

// HookRegistry maps event types to their ordered hook entries.
// Repeated identical entries are kept; the merge rules never deduplicate
// hooks, so a hook registered twice runs twice.
type HookRegistry map[EventType][]HookEntry

// Clone returns a deep copy of the registry.
func (r HookRegistry) Clone() HookRegistry {
	if r == nil {
		return nil
	}
	out := make(HookRegistry, len(r))
	for event, entries := range r {
		cloned := make([]HookEntry, len(entries))
		for i, e := range entries {
			cloned[i] = HookEntry{
				Matcher:  e.Matcher,
				Commands: append([]HookCommand(nil), e.Commands...),
			}
		}
		out[event] = cloned
	}
	return out
}
