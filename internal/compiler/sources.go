package compiler

import (
	"context"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/profile"
)

// expandSources resolves a fragment's preset- and files-based command and
// agent sources into direct definition maps before merge. Precedence
// within one fragment: preset-sourced entries first, then files, then
// direct definitions, so an explicit definition wins over anything pulled
// in by reference.
func (c *Compiler) expandSources(ctx context.Context, frag *profile.Fragment) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	if !frag.Commands.Empty() {
		commands := make(map[string]profile.CommandSpec)

		for _, ref := range frag.Commands.Presets {
			parent, err := c.fragments.Load(ctx, ref)
			if err != nil {
				diags = append(diags, diagnostic.
					Errorf(diagnostic.CodePresetNotFound, "cannot load command preset %q: %v", ref, err).
					WithField("commands.presets").
					WithValue(ref).
					WithContext("origin", frag.Origin))
				continue
			}
			for name, spec := range parent.Commands.Commands {
				commands[name] = spec
			}
		}

		for _, pattern := range frag.Commands.Files {
			entries, err := c.sources.Read(pattern)
			if err != nil {
				diags = append(diags, diagnostic.
					Errorf(diagnostic.CodeSchemaValidationError, "cannot read command sources: %v", err).
					WithField("commands.files").
					WithValue(pattern).
					WithContext("origin", frag.Origin))
				continue
			}
			for _, entry := range entries {
				commands[entry.Name] = entry.CommandSpec()
			}
		}

		for name, spec := range frag.Commands.Commands {
			commands[name] = spec
		}
		frag.Commands.Commands = commands
		frag.Commands.Presets = nil
		frag.Commands.Files = nil
	}

	if !frag.Agents.Empty() {
		agents := make(map[string]profile.AgentSpec)

		for _, ref := range frag.Agents.Presets {
			parent, err := c.fragments.Load(ctx, ref)
			if err != nil {
				diags = append(diags, diagnostic.
					Errorf(diagnostic.CodePresetNotFound, "cannot load agent preset %q: %v", ref, err).
					WithField("subagents.presets").
					WithValue(ref).
					WithContext("origin", frag.Origin))
				continue
			}
			for name, spec := range parent.Agents.Agents {
				agents[name] = spec
			}
		}

		for _, pattern := range frag.Agents.Files {
			entries, err := c.sources.Read(pattern)
			if err != nil {
				diags = append(diags, diagnostic.
					Errorf(diagnostic.CodeSchemaValidationError, "cannot read agent sources: %v", err).
					WithField("subagents.files").
					WithValue(pattern).
					WithContext("origin", frag.Origin))
				continue
			}
			for _, entry := range entries {
				agents[entry.Name] = entry.AgentSpec()
			}
		}

		for name, spec := range frag.Agents.Agents {
			if spec.Name == "" {
				spec.Name = name
			}
			agents[name] = spec
		}
		frag.Agents.Agents = agents
		frag.Agents.Presets = nil
		frag.Agents.Files = nil
	}

	return diags
}
