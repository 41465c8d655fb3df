// Package config defines the format-agnostic use-case model: the ordered
// directive stream that builds a graph, kind manifests that extend the
// catalog, and per-use-case settings.
//
// Concrete front ends (HCL, YAML) live in separate packages and implement
// Loader. The compiler only ever sees a Model.
package config
