// Package schema validates the final working configuration against the
// fixed output schema. Plugin transforms can introduce violations the
// normalizer and merge engine never would, so everything is re-checked
// before emission.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/toolperm"
)

// DefaultMarker is the canonical schema-version marker injected when the
// profile does not set one.
const DefaultMarker = "https://json.schemastore.org/claude-code-settings.json"

// Validator checks a working configuration against the output schema.
type Validator struct{}

// New creates a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks cfg and returns diagnostics. Any error-severity
// diagnostic blocks emission. The required schema marker is injected with
// its canonical default rather than failing when absent.
func (v *Validator) Validate(cfg *profile.Config) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	if cfg.Schema == "" {
		cfg.Schema = DefaultMarker
	}

	diags = append(diags, checkPermissions("permissions.allow", cfg.Permissions.Allow)...)
	diags = append(diags, checkPermissions("permissions.ask", cfg.Permissions.Ask)...)
	diags = append(diags, checkPermissions("permissions.deny", cfg.Permissions.Deny)...)
	diags = append(diags, checkHooks(cfg.Hooks)...)
	diags = append(diags, checkEnv(cfg.Env)...)
	diags = append(diags, checkNames("commands", commandKeys(cfg.Commands))...)
	diags = append(diags, checkNames("subagents", agentKeys(cfg.Agents))...)

	return diags
}

func checkPermissions(field string, patterns []string) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for i, pattern := range patterns {
		if _, err := toolperm.Parse(pattern); err != nil {
			diags = append(diags, diagnostic.
				Errorf(diagnostic.CodeInvalidPermissionFormat, "%v", err).
				WithField(fmt.Sprintf("%s[%d]", field, i)).
				WithValue(pattern).
				WithRemediation("use a bare tool name or Tool(pattern)"))
		}
	}
	return diags
}

func checkHooks(hooks profile.HookRegistry) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	events := make([]string, 0, len(hooks))
	for event := range hooks {
		events = append(events, string(event))
	}
	sort.Strings(events)

	for _, event := range events {
		if !profile.ValidEvent(event) {
			diags = append(diags, diagnostic.
				Errorf(diagnostic.CodeSchemaValidationError, "unknown hook event type %q", event).
				WithField("hooks").
				WithValue(event))
			continue
		}

		for i, entry := range hooks[profile.EventType(event)] {
			field := fmt.Sprintf("hooks.%s[%d]", event, i)

			// Post-normalization matchers are bare tool names; anything
			// else slipped past a transform without normalization.
			if strings.ContainsAny(entry.Matcher, "()") {
				diags = append(diags, diagnostic.
					Errorf(diagnostic.CodeSchemaValidationError, "hook matcher must be a bare tool name").
					WithField(field+".matcher").
					WithValue(entry.Matcher))
			}

			for j, cmd := range entry.Commands {
				if cmd.Kind != profile.HookCommandKind {
					diags = append(diags, diagnostic.
						Errorf(diagnostic.CodeSchemaValidationError, "unsupported hook command kind %q", cmd.Kind).
						WithField(fmt.Sprintf("%s.commands[%d].kind", field, j)).
						WithValue(cmd.Kind))
				}
				if cmd.Executable == "" {
					diags = append(diags, diagnostic.
						Errorf(diagnostic.CodeSchemaValidationError, "hook command executable is empty").
						WithField(fmt.Sprintf("%s.commands[%d].executable", field, j)))
				}
			}
		}
	}
	return diags
}

func checkEnv(env map[string]string) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for key := range env {
		if key == "" {
			diags = append(diags, diagnostic.
				Errorf(diagnostic.CodeSchemaValidationError, "env variable name is empty").
				WithField("env"))
		}
	}
	return diags
}

// checkNames verifies artifact names are non-empty. Uniqueness is
// guaranteed by the merge engine's override-by-name semantics; an empty
// key means a fragment or plugin slipped an unnamed artifact in.
func checkNames(field string, names []string) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic
	for _, name := range names {
		if name == "" {
			diags = append(diags, diagnostic.
				Errorf(diagnostic.CodeSchemaValidationError, "artifact name is empty").
				WithField(field))
		}
	}
	return diags
}

func commandKeys(m map[string]profile.CommandSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func agentKeys(m map[string]profile.AgentSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
