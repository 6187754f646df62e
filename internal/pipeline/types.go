// Package pipeline runs a build invocation: it loads the workspace, seeds the
// property store, configures every module in dependency order and assembles
// publication descriptors.
package pipeline

import (
	"context"
	"errors"

	"github.com/clusterlesshq/conventions/internal/core"
	"github.com/clusterlesshq/conventions/internal/property"
	"github.com/clusterlesshq/conventions/internal/publish"
)

// Pipeline defines the contract for build invocations.
type Pipeline interface {
	// Run configures the workspace and returns the resolved modules.
	//
	// A failed module configuration aborts the run and returns its error.
	// The context is used for cancellation between module configurations.
	Run(ctx context.Context, opts Options) (*Result, error)
}

// Options configures a run.
type Options struct {
	// Root is the workspace directory. Required.
	Root string

	// SystemProperties are -D values. They override the workspace defaults.
	SystemProperties map[string]string

	// LookupEnv reads environment variables. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// Concurrency limits how many modules of one level are configured at
	// once. Zero or less means no limit.
	Concurrency int
}

// Validate checks that required options are set.
func (o Options) Validate() error {
	if o.Root == "" {
		return errors.New("Root is required")
	}
	return nil
}

// Result is the output of a run.
type Result struct {
	// Store is the property store of the run, after every module's writes
	// were committed.
	Store *property.Store

	// Levels lists module names grouped in configuration order.
	Levels [][]string

	// Modules holds module states in configuration order.
	Modules []*core.ModuleState

	// Descriptors holds one descriptor per module with publishing metadata,
	// in configuration order.
	Descriptors []*publish.Descriptor
}

// Module returns the named module state.
func (r *Result) Module(name string) (*core.ModuleState, bool) {
	for _, m := range r.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
