package core

// ModuleDecl declares one subproject of the workspace.
type ModuleDecl struct {
	Name string `json:"name"`

	// Fragments are applied in order.
	Fragments []string `json:"fragments,omitempty"`

	// Overrides is applied after all declared fragments, as an implicit final fragment.
	Overrides *Fragment `json:"overrides,omitempty"`

	Dependencies []Dependency `json:"dependencies,omitempty"`

	// After names modules that must be configured before this one.
	After []string `json:"after,omitempty"`

	// Path is the file the declaration was read from. Set by the loader.
	Path string `json:"-"`
}

// Dependency is a module dependency in a configuration (api, implementation,
// testImplementation, ...). Either Coordinate or Project is set.
type Dependency struct {
	Configuration string `json:"configuration"`
	Coordinate    string `json:"coordinate,omitempty"`
	Version       string `json:"version,omitempty"`
	Project       string `json:"project,omitempty"`
}

// PluginDef declares a plugin: the plugins it applies first and the tasks it registers.
type PluginDef struct {
	ID      string   `json:"id"`
	Implies []string `json:"implies,omitempty"`
	Tasks   []string `json:"tasks,omitempty"`
}

// Workspace is a loaded workspace declaration.
type Workspace struct {
	// Root is the absolute workspace directory.
	Root string `json:"-"`

	Fragments map[string]*Fragment  `json:"fragments,omitempty"`
	Plugins   map[string]PluginDef  `json:"plugins,omitempty"`
	Modules   map[string]ModuleDecl `json:"modules,omitempty"`

	// Seed names fragments whose property writes run once, before any module.
	Seed []string `json:"seed,omitempty"`

	// Include holds glob patterns for per-module declaration files.
	Include []string `json:"include,omitempty"`

	// SystemProperties are defaults; -D flags and tool config override them.
	SystemProperties map[string]string `json:"systemProperties,omitempty"`
}
