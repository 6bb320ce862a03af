package config

// targetFile is the YAML shape of a mason.yaml target declaration file.
type targetFile struct {
	Targets []targetDecl `yaml:"targets"`
}

// targetDecl is one declared target.
type targetDecl struct {
	// Name is the target identity, e.g. "//lib:core".
	Name string `yaml:"name"`

	// Kind selects the rule factory. Defaults to "genrule".
	Kind string `yaml:"kind"`

	// Cacheable marks whether the target's constructed subtree may be
	// reused across generations. Defaults to true.
	Cacheable *bool `yaml:"cacheable"`

	// Deps are the explicitly authored dependencies.
	Deps []string `yaml:"deps"`

	// ExtraDeps are tool-inferred dependencies dependents still wait on.
	ExtraDeps []string `yaml:"extra_deps"`

	// TargetGraphOnlyDeps shape graph metadata but are not passed to rule
	// construction.
	TargetGraphOnlyDeps []string `yaml:"target_graph_only_deps"`

	// Args are free-form construction arguments, e.g. cmd and outs.
	Args map[string]any `yaml:"args"`
}
