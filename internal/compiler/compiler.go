// Package compiler orchestrates one compile invocation: resolve the
// extends graph, merge fragments, run the plugin pipeline, validate
// against the output schema, and emit the output document.
//
// A compile is atomic: it either fully succeeds and yields one output
// plus warning diagnostics, or it fails and yields only diagnostics.
package compiler

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/strata/internal/diagnostic"
	"github.com/thoreinstein/strata/internal/emit"
	"github.com/thoreinstein/strata/internal/logging"
	"github.com/thoreinstein/strata/internal/merge"
	"github.com/thoreinstein/strata/internal/normalize"
	"github.com/thoreinstein/strata/internal/plugin"
	"github.com/thoreinstein/strata/internal/profile"
	"github.com/thoreinstein/strata/internal/resolver"
	"github.com/thoreinstein/strata/internal/schema"
	"github.com/thoreinstein/strata/internal/source"
)

// Phase identifies where a compile currently is. Phases advance strictly
// forward; any phase can transition to failure.
type Phase string

const (
	PhaseResolving    Phase = "resolving"
	PhaseMerging      Phase = "merging"
	PhaseTransforming Phase = "transforming"
	PhaseValidating   Phase = "validating"
	PhaseEmitted      Phase = "emitted"
)

// Result is the outcome of one compile invocation. Output is nil exactly
// when the diagnostic list contains an error.
type Result struct {
	// Output is the emitted document set, nil on failure.
	Output *emit.Output

	// Diagnostics holds everything collected during the compile. On
	// success it contains warnings only.
	Diagnostics diagnostic.List
}

// Failed reports whether the compile produced no output.
func (r *Result) Failed() bool {
	return r.Output == nil
}

// Compiler runs compile invocations. It holds no per-invocation state;
// one Compiler is safe to reuse sequentially across compiles.
type Compiler struct {
	fragments resolver.Loader
	plugins   plugin.Loader
	sources   source.Reader

	norm      *normalize.Normalizer
	engine    *merge.Engine
	validator *schema.Validator
	emitter   *emit.Emitter
	logger    *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compile logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithNormalizer replaces the default normalizer, e.g. to extend the
// legacy field alias table.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Compiler) { c.norm = n }
}

// WithSourceReader sets the reader for files-based command/agent sources.
// The default reads from the process working directory.
func WithSourceReader(r source.Reader) Option {
	return func(c *Compiler) { c.sources = r }
}

// New creates a Compiler. fragments resolves preset references; plugins
// resolves plugin references.
func New(fragments resolver.Loader, plugins plugin.Loader, opts ...Option) *Compiler {
	c := &Compiler{
		fragments: fragments,
		plugins:   plugins,
		sources:   &source.FSReader{},
		norm:      normalize.Default(),
		engine:    merge.New(),
		validator: schema.New(),
		emitter:   emit.New(),
		logger:    logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and compiles a raw profile document.
func (c *Compiler) Compile(ctx context.Context, data []byte, format profile.Format, origin string) *Result {
	result := &Result{}

	doc, err := profile.DecodeDocument(data, format)
	if err != nil {
		result.Diagnostics.Add(diagnostic.
			Errorf(diagnostic.CodeSchemaValidationError, "cannot parse profile: %v", err).
			WithContext("origin", origin))
		return result
	}

	if diags := c.norm.Document(origin, doc); len(diags) > 0 {
		result.Diagnostics.Add(diags...)
		if result.Diagnostics.HasErrors() {
			return result
		}
	}

	root, err := profile.FragmentFromDocument(origin, doc)
	if err != nil {
		result.Diagnostics.Add(diagnostic.
			Errorf(diagnostic.CodeSchemaValidationError, "cannot decode profile: %v", err).
			WithContext("origin", origin))
		return result
	}

	return c.CompileFragment(ctx, root, result)
}

// CompileFragment compiles an already-parsed root fragment. The result
// accumulates onto any diagnostics already present in result; passing nil
// starts fresh.
func (c *Compiler) CompileFragment(ctx context.Context, root *profile.Fragment, result *Result) *Result {
	if result == nil {
		result = &Result{}
	}

	// Resolving
	c.logger.Debug("compile phase", "phase", PhaseResolving, "origin", root.Origin)
	fragments, diags := resolver.New(c.fragments).Resolve(ctx, root)
	result.Diagnostics.Add(diags...)
	if result.Diagnostics.HasErrors() {
		return result
	}

	for _, frag := range fragments {
		if diags := c.expandSources(ctx, frag); len(diags) > 0 {
			result.Diagnostics.Add(diags...)
			if result.Diagnostics.HasErrors() {
				return result
			}
		}
	}

	// Merging
	c.logger.Debug("compile phase", "phase", PhaseMerging, "fragments", len(fragments))
	cfg := c.engine.Merge(fragments)

	// Transforming
	c.logger.Debug("compile phase", "phase", PhaseTransforming, "plugins", len(root.Plugins))
	pipeline := plugin.NewPipeline(c.plugins, c.engine, c.norm, c.logger)
	cfg, pipelineDiags := pipeline.Run(ctx, cfg, root.Plugins)
	result.Diagnostics.Add(pipelineDiags...)
	if cfg == nil || result.Diagnostics.HasErrors() {
		result.Output = nil
		return result
	}

	// Validating
	c.logger.Debug("compile phase", "phase", PhaseValidating)
	result.Diagnostics.Add(c.validator.Validate(cfg)...)
	if result.Diagnostics.HasErrors() {
		return result
	}

	// Emitted
	result.Output = c.emitter.Emit(cfg)
	c.logger.Debug("compile phase", "phase", PhaseEmitted,
		"commands", len(result.Output.Commands), "agents", len(result.Output.Agents))
	return result
}
