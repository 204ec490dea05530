package plugin

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/merge"
	"github.com/thoreinstein/strata/internal/normalize"
	"github.com/thoreinstein/strata/internal/profile"
)

// Pipeline executes an ordered list of plugins against a working
// configuration. Order is caller-declared and authoritative; plugins are
// never reordered or run concurrently, since a later plugin may depend on
// an earlier plugin's contributed fields.
type Pipeline struct {
	loader Loader
	engine *merge.Engine
	norm   *normalize.Normalizer
	logger *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(loader Loader, engine *merge.Engine, norm *normalize.Normalizer, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		loader: loader,
		engine: engine,
		norm:   norm,
		logger: logger,
	}
}

// Run loads and applies each referenced plugin in order, then runs every
// successfully-loaded plugin's Validate against the final configuration.
//
// A plugin that fails to load is excluded with a PluginLoadError warning;
// the compile continues. A transform fault is a fatal
// PluginTransformError: Run returns a nil config and the diagnostics
// collected so far plus the fatal one.
func (p *Pipeline) Run(ctx context.Context, cfg *profile.Config, refs []string) (*profile.Config, []diagnostic.Diagnostic) {
	var diags []diagnostic.Diagnostic

	// Load phase: sequential, in declared order, so the first failure
	// for a given position is always the one reported.
	loaded := make([]Plugin, 0, len(refs))
	for _, ref := range refs {
		pl, err := p.loader.Load(ctx, ref)
		if err != nil {
			p.logger.Warn("excluding plugin", "plugin", ref, "error", err)
			diags = append(diags, diagnostic.
				Warnf(diagnostic.CodePluginLoadError, "plugin %q could not be loaded: %v", ref, err).
				WithField("plugins").
				WithValue(ref).
				WithRemediation("check the plugin reference or remove it from the profile"))
			continue
		}
		loaded = append(loaded, pl)
	}

	// Transform phase.
	for _, pl := range loaded {
		if defaults := pl.Defaults(); defaults != nil {
			if defaults.Origin == "" {
				defaults.Origin = "plugin:" + pl.Name()
			}
			p.engine.Apply(cfg, defaults)
		}

		p.logger.Debug("running plugin transform", "plugin", pl.Name(), "version", pl.Version())
		next, err := pl.Transform(ctx, cfg.Clone())
		if err != nil {
			diags = append(diags, diagnostic.
				Errorf(diagnostic.CodePluginTransformError, "plugin %q transform failed: %v", pl.Name(), err).
				WithField("plugins").
				WithValue(pl.Name()).
				WithContext("version", pl.Version()))
			return nil, diags
		}
		if next != nil {
			cfg = next
		}

		// Plugin output obeys the same canonical shape as authored
		// fragments.
		diags = append(diags, p.norm.Config(cfg)...)
	}

	// Validate phase: every loaded plugin sees the final merged config,
	// regardless of its pipeline position.
	for _, pl := range loaded {
		results := pl.Validate(ctx, cfg.Clone())
		for _, d := range results {
			if d.Code == "" {
				d.Code = diagnostic.CodeSchemaValidationError
			}
			if d.Context == nil || d.Context["plugin"] == "" {
				d = d.WithContext("plugin", pl.Name())
			}
			diags = append(diags, d)
		}
	}

	return cfg, diags
}
