// Package plugin defines the extension contract and runs the ordered
// transform/validate pipeline over a working configuration.
package plugin

import (
	"context"
	"sync"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/errors"
	"github.com/thoreinstein/strata/internal/profile"
)

// Plugin is a loaded extension. How a plugin is packaged or executed
// (in-process, subprocess, embedded interpreter) is the loader's concern;
// the pipeline only sees this contract.
type Plugin interface {
	// Name identifies the plugin in diagnostics and logs.
	Name() string

	// Version is the plugin's version string, empty if unversioned.
	Version() string

	// Defaults returns the plugin's contributed default fragment
	// (permissions, hooks, env, commands), or nil. Defaults are folded
	// into the working config with the standard merge rules before
	// Transform runs.
	Defaults() *profile.Fragment

	// Transform rewrites the configuration. The returned config replaces
	// the working config; returning nil leaves it unchanged. An error is
	// fatal to the whole compile.
	Transform(ctx context.Context, cfg *profile.Config) (*profile.Config, error)

	// Validate reports problems with the final merged configuration.
	// It must not mutate cfg. Error-severity diagnostics block emission.
	Validate(ctx context.Context, cfg *profile.Config) []diagnostic.Diagnostic
}

// Loader resolves a plugin reference string to a live Plugin instance.
type Loader interface {
	Load(ctx context.Context, ref string) (Plugin, error)
}

// Definition is a plain-struct Plugin implementation for in-process
// plugins and tests. Nil funcs are no-ops.
type Definition struct {
	PluginName    string
	PluginVersion string
	Contributed   *profile.Fragment
	TransformFunc func(ctx context.Context, cfg *profile.Config) (*profile.Config, error)
	ValidateFunc  func(ctx context.Context, cfg *profile.Config) []diagnostic.Diagnostic
}

// Name implements Plugin.
func (d *Definition) Name() string { return d.PluginName }

// Version implements Plugin.
func (d *Definition) Version() string { return d.PluginVersion }

// Defaults implements Plugin.
func (d *Definition) Defaults() *profile.Fragment { return d.Contributed }

// Transform implements Plugin.
func (d *Definition) Transform(ctx context.Context, cfg *profile.Config) (*profile.Config, error) {
	if d.TransformFunc == nil {
		return cfg, nil
	}
	return d.TransformFunc(ctx, cfg)
}

// Validate implements Plugin.
func (d *Definition) Validate(ctx context.Context, cfg *profile.Config) []diagnostic.Diagnostic {
	if d.ValidateFunc == nil {
		return nil
	}
	return d.ValidateFunc(ctx, cfg)
}

// Sentinel errors for registry operations.
var (
	// ErrPluginAlreadyRegistered is returned when registering a plugin
	// name that is already in use.
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")

	// ErrPluginNotFound is returned when loading an unregistered plugin.
	ErrPluginNotFound = errors.New("plugin not found")
)

// Registry is an in-process plugin Loader backed by explicit
// registration. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register adds a plugin under its name.
func (r *Registry) Register(p Plugin) error {
	if p == nil || p.Name() == "" {
		return errors.New("plugin name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[p.Name()]; exists {
		return errors.Wrapf(ErrPluginAlreadyRegistered, "%q", p.Name())
	}

	r.plugins[p.Name()] = p
	return nil
}

// Load implements Loader.
func (r *Registry) Load(_ context.Context, ref string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[ref]
	if !ok {
		return nil, errors.Wrapf(ErrPluginNotFound, "%q", ref)
	}
	return p, nil
}
