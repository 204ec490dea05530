// Package normalize canonicalizes configuration documents before the
// merge engine or schema validator inspect them. It remaps legacy field
// spellings, expands shorthand hook encodings, reduces argument-level
// hook matchers to bare tool names, and type-checks env values.
package normalize

import (
	"fmt"
	"sort"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/toolperm"
)

// DefaultAliases returns the legacy-to-canonical top-level key map.
// The table is built fresh per call so callers can extend their copy
// without affecting others.
func DefaultAliases() map[string]string {
	return map[string]string{
		"EXTENDS":     "extends",
		"Extends":     "extends",
		"PLUGINS":     "plugins",
		"Plugins":     "plugins",
		"PERMISSIONS": "permissions",
		"Permissions": "permissions",
		"HOOKS":       "hooks",
		"Hooks":       "hooks",
		"ENV":         "env",
		"Env":         "env",
		"COMMANDS":    "commands",
		"Commands":    "commands",
		"SUBAGENTS":   "subagents",
		"Subagents":   "subagents",
		"SubAgents":   "subagents",
		"agents":      "subagents",
		"Model":       "model",
		"MODEL":       "model",
	}
}

// Normalizer applies canonicalization rules. The alias table is supplied
// at construction and never mutated, so one Normalizer is safe to share
// across compiles.
type Normalizer struct {
	aliases map[string]string
}

// New creates a Normalizer with the given legacy key alias table.
func New(aliases map[string]string) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Default creates a Normalizer with the default alias table.
func Default() *Normalizer {
	return New(DefaultAliases())
}

// Document canonicalizes an untyped document map in place and returns any
// diagnostics. Error diagnostics (non-string env values) are fatal to the
// compile; the document is still fully scanned so every offending key is
// reported at once.
func (n *Normalizer) Document(origin string, doc map[string]any) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	n.remapKeys(doc)

	if hooks, ok := doc["hooks"].(map[string]any); ok {
		normalizeHooksDoc(hooks)
	}

	if env, ok := doc["env"].(map[string]any); ok {
		diags = append(diags, checkEnvDoc(origin, env)...)
	}

	return diags
}

// remapKeys rewrites legacy top-level key spellings to their canonical
// names. A legacy key never clobbers an explicitly set canonical key.
func (n *Normalizer) remapKeys(doc map[string]any) {
	var legacy []string
	for key := range doc {
		if _, ok := n.aliases[key]; ok {
			legacy = append(legacy, key)
		}
	}
	// Deterministic application order when several aliases collide.
	sort.Strings(legacy)

	for _, key := range legacy {
		canonical := n.aliases[key]
		if _, exists := doc[canonical]; !exists {
			doc[canonical] = doc[key]
		}
		delete(doc, key)
	}
}

// normalizeHooksDoc expands shorthand hook entries and reduces matchers
// inside an untyped hooks mapping.
func normalizeHooksDoc(hooks map[string]any) {
	for event, raw := range hooks {
		entries, ok := raw.([]any)
		if !ok {
			continue
		}
		for i, rawEntry := range entries {
			entry, ok := rawEntry.(map[string]any)
			if !ok {
				continue
			}
			normalizeHookEntryDoc(entry)
			entries[i] = entry
		}
		hooks[event] = entries
	}
}

func normalizeHookEntryDoc(entry map[string]any) {
	// Argument sub-patterns have no home in the output schema: hook
	// matching is tool-level only.
	if matcher, ok := entry["matcher"].(string); ok {
		entry["matcher"] = toolperm.ToolName(matcher)
	}

	var commands []any
	if existing, ok := entry["commands"].([]any); ok {
		commands = existing
	}

	// Legacy flat {matcher, command} shorthand.
	if executable, ok := entry["command"].(string); ok && executable != "" {
		cmd := map[string]any{
			"kind":       profile.HookCommandKind,
			"executable": executable,
		}
		if timeout, ok := entry["timeout"]; ok {
			cmd["timeout"] = timeout
			delete(entry, "timeout")
		}
		commands = append(commands, cmd)
		delete(entry, "command")
	}

	for i, rawCmd := range commands {
		cmd, ok := rawCmd.(map[string]any)
		if !ok {
			continue
		}
		// Accept {type, command} spellings inside the nested form.
		if typ, ok := cmd["type"]; ok {
			if _, exists := cmd["kind"]; !exists {
				cmd["kind"] = typ
			}
			delete(cmd, "type")
		}
		if executable, ok := cmd["command"]; ok {
			if _, exists := cmd["executable"]; !exists {
				cmd["executable"] = executable
			}
			delete(cmd, "command")
		}
		if _, ok := cmd["kind"]; !ok {
			cmd["kind"] = profile.HookCommandKind
		}
		commands[i] = cmd
	}

	if len(commands) > 0 {
		entry["commands"] = commands
	}
}

// checkEnvDoc rewrites env values verified to be strings and reports a
// TypeCoercionError for anything else. Values are never coerced.
func checkEnvDoc(origin string, env map[string]any) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := env[key].(string); ok {
			continue
		}
		diags = append(diags, diagnostic.
			Errorf(diagnostic.CodeTypeCoercionError, "env value must be a string").
			WithField("env."+key).
			WithValue(env[key]).
			WithContext("origin", origin).
			WithContext("observedType", fmt.Sprintf("%T", env[key])).
			WithRemediation(fmt.Sprintf("quote the value of %s", key)))
	}
	return diags
}

// Config canonicalizes a typed working configuration in place. It runs
// after every plugin transform so plugin output obeys the same shape as
// authored fragments.
func (n *Normalizer) Config(cfg *profile.Config) []diagnostic.Diagnostic {
	if cfg == nil {
		return nil
	}
	for event, entries := range cfg.Hooks {
		for i := range entries {
			entries[i].Matcher = toolperm.ToolName(entries[i].Matcher)
			for j := range entries[i].Commands {
				if entries[i].Commands[j].Kind == "" {
					entries[i].Commands[j].Kind = profile.HookCommandKind
				}
			}
		}
		cfg.Hooks[event] = entries
	}
	return nil
}
