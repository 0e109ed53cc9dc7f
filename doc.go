// File: stratum/doc.go

// Package stratum is a layered configuration core: a format-agnostic value
// model, a deterministic merge engine over prioritized sources, and typed
// path-addressed access to the merged result.
//
// Configuration data is represented by Value, a tagged union over null,
// bool, int, float, string, sequence and mapping variants. Sources produce
// Value trees; Merge folds an ordered list of source snapshots into one
// tree under fixed precedence rules:
//
//   - mappings merge deeply, key by key;
//   - an incoming sequence replaces the accumulated one wholesale;
//   - everything else is replaced wholesale by the higher layer.
//
// Quick Start:
//
//	defaults := stratum.Mapping()
//	defaults.MapSet("server", stratum.Mapping())
//
//	cfg, err := stratum.Merge([]stratum.Source{
//	    stratum.NewStaticSource("default", defaults),
//	    stratum.NewFileSource("file", "config.toml"),
//	    stratum.NewEnvSource("env", "MYAPP_"),
//	}, stratum.Options{Policy: stratum.SkipUnavailable})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, err := cfg.String(stratum.MustParsePath("server.host"))
//	origin, _ := cfg.Origin(stratum.MustParsePath("server.host"))
//
// The merged result records provenance: for every leaf path, the name of
// the source that contributed its final value.
//
// Concurrency: a merge pass is a synchronous fold; a MergedConfig is an
// owned standalone tree that concurrent readers may share read-only.
// Mutation through an Accessor requires exclusive access, enforced by the
// caller.
package stratum
