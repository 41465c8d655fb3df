// Package catalog is the static table of link kinds a use case may
// instantiate. Each Kind carries its port-arity contracts, the compute
// elements it may be pinned to, an optional whole-graph instance ceiling and
// the naming data the lifecycle script needs.
//
// A Catalog is immutable once built. New kinds are data entries, either Go
// literals passed to New or manifest blocks loaded through the config layer
// and merged with With.
package catalog
