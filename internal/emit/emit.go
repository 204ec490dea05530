// Package emit serializes a validated working configuration into the
// output document shape and splits out the command and agent collections
// for the installer.
package emit

import (
	"encoding/json"

	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/profile"
)

// Settings is the primary output document consumed by the downstream
// installer. The passthrough scalars are promoted to top level.
type Settings struct {
	Schema      string                `json:"$schema,omitempty"`
	Permissions profile.PermissionSet `json:"permissions"`
	Hooks       profile.HookRegistry  `json:"hooks,omitempty"`
	Env         map[string]string     `json:"env,omitempty"`

	profile.Scalars
}

// JSON returns the indented JSON encoding of the settings document.
func (s *Settings) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding settings document")
	}
	return append(data, '\n'), nil
}

// Output is the full result of one emission: the settings document plus
// the two auxiliary keyed collections. The collections are not embedded
// in the settings document; the installer writes one artifact per entry.
type Output struct {
	Settings *Settings
	Commands map[string]profile.CommandSpec
	Agents   map[string]profile.AgentSpec
}

// Emitter produces the output document from a validated configuration.
type Emitter struct{}

// New creates an Emitter.
func New() *Emitter {
	return &Emitter{}
}

// Emit serializes cfg into the output shape. The configuration is not
// retained; the returned output owns independent copies of the keyed
// collections.
func (e *Emitter) Emit(cfg *profile.Config) *Output {
	commands := make(map[string]profile.CommandSpec, len(cfg.Commands))
	for name, spec := range cfg.Commands {
		commands[name] = spec
	}
	agents := make(map[string]profile.AgentSpec, len(cfg.Agents))
	for name, spec := range cfg.Agents {
		if spec.Name == "" {
			spec.Name = name
		}
		agents[name] = spec
	}

	var hooks profile.HookRegistry
	if len(cfg.Hooks) > 0 {
		hooks = cfg.Hooks.Clone()
	}

	return &Output{
		Settings: &Settings{
			Schema:      cfg.Schema,
			Permissions: cfg.Permissions.Clone(),
			Hooks:       hooks,
			Env:         cloneEnv(cfg.Env),
			Scalars:     cfg.Scalars.Clone(),
		},
		Commands: commands,
		Agents:   agents,
	}
}

func cloneEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
