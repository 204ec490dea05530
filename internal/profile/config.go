package profile

// Config is the resolved working configuration: the single mutable
// document threaded through the merge engine, plugin pipeline, schema
// validator, and emitter. One Config exists per compile invocation.
type Config struct {
	// Schema is the schema-version marker for the output document.
	// The schema validator injects the canonical default when unset.
	Schema string `json:"$schema,omitempty"`

	// Permissions holds the merged allow/ask/deny pattern lists.
	Permissions PermissionSet `json:"permissions"`

	// Hooks holds the merged hook registry.
	Hooks HookRegistry `json:"hooks,omitempty"`

	// Env holds the merged environment map.
	Env map[string]string `json:"env,omitempty"`

	// Commands maps command names to their definitions. Name-wise
	// override applies during merge; names are unique by construction.
	Commands map[string]CommandSpec `json:"-"`

	// Agents maps agent names to their definitions.
	Agents map[string]AgentSpec `json:"-"`

	// Scalars carries the passthrough fields into the output document.
	Scalars Scalars `json:"-"`
}

// NewConfig returns an empty working configuration with allocated maps.
func NewConfig() *Config {
	return &Config{
		Hooks:    make(HookRegistry),
		Env:      make(map[string]string),
		Commands: make(map[string]CommandSpec),
		Agents:   make(map[string]AgentSpec),
	}
}

// Clone returns a deep copy of the configuration. The pipeline hands
// plugins a clone so a faulting transform cannot corrupt the working
// document.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{
		Schema:      c.Schema,
		Permissions: c.Permissions.Clone(),
		Hooks:       c.Hooks.Clone(),
		Env:         make(map[string]string, len(c.Env)),
		Commands:    make(map[string]CommandSpec, len(c.Commands)),
		Agents:      make(map[string]AgentSpec, len(c.Agents)),
		Scalars:     c.Scalars.Clone(),
	}
	for k, v := range c.Env {
		out.Env[k] = v
	}
	for k, v := range c.Commands {
		v.AllowedTools = append([]string(nil), v.AllowedTools...)
		out.Commands[k] = v
	}
	for k, v := range c.Agents {
		v.Tools = append([]string(nil), v.Tools...)
		out.Agents[k] = v
	}
	return out
}
