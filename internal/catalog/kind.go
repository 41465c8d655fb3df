package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// Element identifies a compute element (core) a node is pinned to. Values
// are opaque: two nodes cross when their elements differ.
type Element string

// The cores of the target SoC known to the builtin catalog.
const (
	IPU1_0 Element = "IPU1_0"
	IPU1_1 Element = "IPU1_1"
	A15    Element = "A15"
	DSP1   Element = "DSP1"
	DSP2   Element = "DSP2"
	EVE1   Element = "EVE1"
	EVE2   Element = "EVE2"
	EVE3   Element = "EVE3"
	EVE4   Element = "EVE4"
)

// Elements lists the builtin cores in their conventional order.
var Elements = []Element{IPU1_0, IPU1_1, A15, DSP1, DSP2, EVE1, EVE2, EVE3, EVE4}

// Names of the transport kinds the bridging rewriter synthesizes.
const (
	TransportOut = "IPCOut"
	TransportIn  = "IPCIn"
)

// ErrUnknownKind is returned by lookups for a kind the catalog does not hold.
var ErrUnknownKind = errors.New("unknown kind")

// Kind describes one link type.
type Kind struct {
	Name string
	// Category scopes instance numbering. Kinds sharing a category share
	// per-element counters. Defaults to Name.
	Category string

	Input  Contract
	Output Contract

	// Allowed restricts the elements a node of this kind may run on. An
	// empty slice means any element.
	Allowed []Element
	// Default is the element applied when a use case leaves it unset.
	Default Element
	// Ceiling caps the number of instances in one graph. Zero means no cap.
	Ceiling int
	// GloballyNumbered kinds also draw from the allocator's global counter.
	GloballyNumbered bool

	// Symbol is the runtime link-ID stem, e.g. "CAPTURE" for
	// SYSTEM_LINK_ID_CAPTURE_<n>. Empty derives it from Name.
	Symbol string
	// ElementPrefixed link IDs are qualified by the element,
	// e.g. IPU1_0_LINK (SYSTEM_LINK_ID_DUP_0).
	ElementPrefixed bool
	// Singleton link IDs carry no instance suffix.
	Singleton bool

	// MultiIn and MultiOut kinds address each slot as its own queue.
	MultiIn  bool
	MultiOut bool
}

// AnyElement reports whether the kind may run on every element.
func (k Kind) AnyElement() bool {
	return len(k.Allowed) == 0
}

// Allows reports whether el is a legal element for the kind.
func (k Kind) Allows(el Element) bool {
	if el == "" {
		return false
	}
	return k.AnyElement() || slices.Contains(k.Allowed, el)
}

// Arity returns the contract for the given direction.
func (k Kind) Arity(d Direction) Contract {
	if d == Output {
		return k.Output
	}
	return k.Input
}

// IsTransport reports whether the kind is one of the synthesized bridge kinds.
func (k Kind) IsTransport() bool {
	return k.Name == TransportOut || k.Name == TransportIn
}

// normalize fills derived defaults and validates the entry.
func (k Kind) normalize() (Kind, error) {
	if k.Name == "" {
		return k, errors.New("kind with empty name")
	}
	if k.Category == "" {
		k.Category = k.Name
	}
	if k.Ceiling < 0 {
		return k, fmt.Errorf("kind %q: negative instance ceiling %d", k.Name, k.Ceiling)
	}
	if _, ok := contractNames[k.Input]; !ok {
		return k, fmt.Errorf("kind %q: invalid input contract %d", k.Name, int(k.Input))
	}
	if _, ok := contractNames[k.Output]; !ok {
		return k, fmt.Errorf("kind %q: invalid output contract %d", k.Name, int(k.Output))
	}
	k.Allowed = slices.Clone(k.Allowed)
	if k.Default == "" && len(k.Allowed) > 0 {
		k.Default = k.Allowed[0]
	}
	if k.Default == "" && !k.IsTransport() {
		return k, fmt.Errorf("kind %q: no default element and no allowed elements", k.Name)
	}
	if k.Default != "" && !k.Allows(k.Default) {
		return k, fmt.Errorf("kind %q: default element %s is not in the allowed set %v", k.Name, k.Default, k.Allowed)
	}
	return k, nil
}
