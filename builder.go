// File: stratum/builder.go
package stratum

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Builder assembles the standard layer stack with a fluent interface. The
// resulting precedence, lowest to highest, is: defaults, files (in the
// order added), environment, command-line arguments, then any extra
// sources.
type Builder struct {
	defaults  *Value
	files     []string
	envPrefix string
	useEnv    bool
	args      []string
	extra     []Source
	opts      Options
}

// NewBuilder creates a new layer-stack builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithDefaults sets the lowest-precedence layer to the given tree.
func (b *Builder) WithDefaults(tree Value) *Builder {
	t := tree.Clone()
	b.defaults = &t
	return b
}

// WithFile adds a configuration file layer. Files added later take
// precedence over earlier ones.
func (b *Builder) WithFile(path string) *Builder {
	b.files = append(b.files, path)
	return b
}

// WithEnv enables the environment layer for variables with the given
// prefix.
func (b *Builder) WithEnv(prefix string) *Builder {
	b.envPrefix = prefix
	b.useEnv = true
	return b
}

// WithArgs sets the command-line argument layer.
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithSource appends a custom source above all standard layers.
func (b *Builder) WithSource(src Source) *Builder {
	b.extra = append(b.extra, src)
	return b
}

// WithPolicy sets the failure policy for the merge pass.
func (b *Builder) WithPolicy(policy FailurePolicy) *Builder {
	b.opts.Policy = policy
	return b
}

// WithLogger sets the logger used when layers are skipped.
func (b *Builder) WithLogger(logger *zerolog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// Sources returns the assembled source list in ascending precedence order.
func (b *Builder) Sources() []Source {
	var sources []Source
	if b.defaults != nil {
		sources = append(sources, NewStaticSource("default", *b.defaults))
	}
	for _, path := range b.files {
		sources = append(sources, NewFileSource(path, path))
	}
	if b.useEnv {
		sources = append(sources, NewEnvSource("env", b.envPrefix))
	}
	if len(b.args) > 0 {
		sources = append(sources, NewArgsSource("cli", b.args))
	}
	sources = append(sources, b.extra...)
	return sources
}

// Merge runs the merge pass over the assembled layers.
func (b *Builder) Merge() (*MergedConfig, error) {
	return Merge(b.Sources(), b.opts)
}

// Quick merges the most common stack in a single call: defaults, one
// optional config file, environment variables with the given prefix, and
// os.Args. Missing layers are skipped rather than failing the merge.
func Quick(defaults Value, envPrefix, configFile string) (*MergedConfig, error) {
	b := NewBuilder().
		WithDefaults(defaults).
		WithEnv(envPrefix).
		WithArgs(os.Args[1:]).
		WithPolicy(SkipUnavailable)
	if configFile != "" {
		b.WithFile(configFile)
	}
	return b.Merge()
}

// MustQuick is like Quick but panics on error.
func MustQuick(defaults Value, envPrefix, configFile string) *MergedConfig {
	cfg, err := Quick(defaults, envPrefix, configFile)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}
