package pipeline

import (
	"context"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/sync/errgroup"

	"github.com/clusterlesshq/conventions/internal/compose"
	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/credential"
	"github.com/clusterlesshq/conventions/internal/dag"
	"github.com/clusterlesshq/conventions/internal/loader"
	"github.com/clusterlesshq/conventions/internal/output"
	"github.com/clusterlesshq/conventions/internal/plugin"
	"github.com/clusterlesshq/conventions/internal/property"
	"github.com/clusterlesshq/conventions/internal/publish"
)

// pipeline implements the Pipeline interface.
type pipeline struct {
	cueCtx *cue.Context
}

// NewPipeline creates a new Pipeline. If cueCtx is nil a fresh context is created.
func NewPipeline(cueCtx *cue.Context) Pipeline {
	if cueCtx == nil {
		cueCtx = cuecontext.New()
	}
	return &pipeline{cueCtx: cueCtx}
}

// Run executes the pipeline.
//
// Phase sequence:
//  1. LOAD:      loader.Load() → *core.Workspace
//  2. SEED:      compose.Resolver.Seed() writes global properties once
//  3. ORDER:     dag.Graph.Levels() from project dependencies and after edges
//  4. CONFIGURE: compose.Resolver.Compose() per module, one errgroup per level;
//     a level's property writes are committed in name order once it completes
//  5. ASSEMBLE:  publish.Assembler.Assemble() per module with publishing metadata,
//     reading the properties that module observed
func (p *pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ws, err := loader.Load(p.cueCtx, opts.Root)
	if err != nil {
		return nil, err
	}

	plugins, err := plugin.NewRegistry(ws.Plugins)
	if err != nil {
		return nil, err
	}

	sysProps := mergeProperties(ws.SystemProperties, opts.SystemProperties)
	store := property.NewStore()
	resolver := compose.NewResolver(ws.Fragments, plugins, store, compose.Options{
		SystemProperties: sysProps,
		LookupEnv:        opts.LookupEnv,
	})

	if err := resolver.Seed(ws.Seed); err != nil {
		return nil, err
	}
	output.Debug("property store seeded", "build", store.BuildID(), "keys", len(store.Keys()))

	levels, err := Order(ws)
	if err != nil {
		return nil, err
	}

	states, err := configure(ctx, resolver, ws, levels, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	assembler := publish.NewAssembler(credential.Environment{
		SystemProperties: sysProps,
		LookupEnv:        opts.LookupEnv,
	})
	var descriptors []*publish.Descriptor
	for _, state := range states {
		if state.Publishing == nil {
			continue
		}
		d, err := assembler.Assemble(state)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}

	return &Result{
		Store:       store,
		Levels:      levels,
		Modules:     states,
		Descriptors: descriptors,
	}, nil
}

// Order groups the workspace modules into configuration levels. A module is
// configured after every module it depends on as a project or names in after.
func Order(ws *core.Workspace) ([][]string, error) {
	names := make([]string, 0, len(ws.Modules))
	for name := range ws.Modules {
		names = append(names, name)
	}
	sort.Strings(names)

	g := dag.New()
	for _, name := range names {
		g.AddNode(name)
	}
	for _, name := range names {
		m := ws.Modules[name]
		for _, d := range m.Dependencies {
			if d.Project != "" {
				g.AddEdge(d.Project, name)
			}
		}
		for _, after := range m.After {
			g.AddEdge(after, name)
		}
	}
	return g.Levels()
}

// configure composes each level concurrently and returns states in level order.
func configure(ctx context.Context, resolver *compose.Resolver, ws *core.Workspace, levels [][]string, limit int) ([]*core.ModuleState, error) {
	var states []*core.ModuleState
	for i, level := range levels {
		levelStates := make([]*core.ModuleState, len(level))

		g, gctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}
		for j, name := range level {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				state, err := resolver.Compose(ws.Modules[name])
				if err != nil {
					return err
				}
				levelStates[j] = state
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		resolver.Commit(level...)

		output.Debug("level configured", "level", i, "modules", len(level))
		states = append(states, levelStates...)
	}
	return states, nil
}

// mergeProperties returns base overlaid with overrides.
func mergeProperties(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
