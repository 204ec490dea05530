// Package merge folds an ordered fragment list into one working
// configuration. Closer-to-root fragments override or extend earlier
// ones: child wins, but permission lists append.
package merge

import (
	"github.com/thoreinstein/strata/internal/profile"
)

// Engine applies the per-field merge strategies. It is stateless; one
// Engine may serve any number of compiles.
type Engine struct{}

// New creates a merge Engine.
func New() *Engine {
	return &Engine{}
}

// Merge folds the ordered fragment list (base-most first, root last) into
// a fresh working configuration.
func (e *Engine) Merge(fragments []*profile.Fragment) *profile.Config {
	cfg := profile.NewConfig()
	for _, frag := range fragments {
		e.Apply(cfg, frag)
	}
	return cfg
}

// Apply folds one fragment into the working configuration. The plugin
// pipeline reuses this to fold plugin-contributed defaults under the same
// rules as authored fragments.
func (e *Engine) Apply(cfg *profile.Config, frag *profile.Fragment) {
	if frag == nil {
		return
	}

	// Permissions accumulate monotonically: concatenate in resolution
	// order, dedupe by exact string equality, keep first-seen order.
	cfg.Permissions.Allow = appendUnique(cfg.Permissions.Allow, frag.Permissions.Allow)
	cfg.Permissions.Ask = appendUnique(cfg.Permissions.Ask, frag.Permissions.Ask)
	cfg.Permissions.Deny = appendUnique(cfg.Permissions.Deny, frag.Permissions.Deny)

	// Hook entries concatenate with no deduplication: a hook registered
	// twice runs twice.
	for event, entries := range frag.Hooks {
		for _, entry := range entries {
			cfg.Hooks[event] = append(cfg.Hooks[event], profile.HookEntry{
				Matcher:  entry.Matcher,
				Commands: append([]profile.HookCommand(nil), entry.Commands...),
			})
		}
	}

	// Env, commands, and agents override key-wise.
	for key, value := range frag.Env {
		cfg.Env[key] = value
	}
	for name, spec := range frag.Commands.Commands {
		cfg.Commands[name] = spec
	}
	for name, spec := range frag.Agents.Agents {
		if spec.Name == "" {
			spec.Name = name
		}
		cfg.Agents[name] = spec
	}

	applyScalars(&cfg.Scalars, frag.Scalars)
}

// applyScalars takes the fragment's value for each field the fragment
// actually sets. An unset field never nulls out an ancestor's value.
func applyScalars(dst *profile.Scalars, src profile.Scalars) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.APIKeyHelper != "" {
		dst.APIKeyHelper = src.APIKeyHelper
	}
	if src.CleanupPeriodDays != nil {
		v := *src.CleanupPeriodDays
		dst.CleanupPeriodDays = &v
	}
	if src.IncludeCoAuthoredBy != nil {
		v := *src.IncludeCoAuthoredBy
		dst.IncludeCoAuthoredBy = &v
	}
	if src.StatusLine != nil {
		v := *src.StatusLine
		if src.StatusLine.Padding != nil {
			p := *src.StatusLine.Padding
			v.Padding = &p
		}
		dst.StatusLine = &v
	}
	if src.ForceLoginMethod != "" {
		dst.ForceLoginMethod = src.ForceLoginMethod
	}
	if src.OutputStyle != "" {
		dst.OutputStyle = src.OutputStyle
	}
	if src.SpinnerTipsEnabled != nil {
		v := *src.SpinnerTipsEnabled
		dst.SpinnerTipsEnabled = &v
	}
	if len(src.EnabledMCPJSONServers) > 0 {
		dst.EnabledMCPJSONServers = append([]string(nil), src.EnabledMCPJSONServers...)
	}
	if len(src.DisabledMCPJSONServers) > 0 {
		dst.DisabledMCPJSONServers = append([]string(nil), src.DisabledMCPJSONServers...)
	}
}

// appendUnique appends src entries not already present in dst, preserving
// first-seen order.
func appendUnique(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}
