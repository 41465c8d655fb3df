// Package dag holds the link topology of a use case and the error kinds the
// compiler reports.
//
// A Graph is built from directives: CreateNode (idempotent by name),
// SetElement and Connect. Structural problems (unknown names, duplicate
// edges, disallowed elements) are reported at the call that caused them.
// Arity cannot be judged from a single Connect, so it is validated once by
// Close, which also applies default elements and freezes the graph. A frozen
// graph only changes through Interpose, which the bridging rewriter uses to
// route an edge through synthesized nodes while keeping the slot indices of
// the user-declared endpoints.
package dag
