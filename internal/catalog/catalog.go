package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog is an immutable set of kinds keyed by name.
type Catalog struct {
	kinds map[string]Kind
}

// transportKinds are present in every catalog so bridging always has a
// vocabulary to synthesize from.
var transportKinds = []Kind{
	{
		Name: TransportOut, Input: ExactlyOne, Output: ExactlyOne,
		GloballyNumbered: true, Symbol: "IPC_OUT", ElementPrefixed: true,
	},
	{
		Name: TransportIn, Input: ExactlyOne, Output: ExactlyOne,
		GloballyNumbered: true, Symbol: "IPC_IN", ElementPrefixed: true,
	},
}

// New builds a catalog from the given kinds. Duplicate names and malformed
// entries are rejected. The transport kinds are added unless supplied.
func New(kinds ...Kind) (*Catalog, error) {
	c := &Catalog{kinds: make(map[string]Kind, len(kinds)+len(transportKinds))}
	for _, k := range kinds {
		nk, err := k.normalize()
		if err != nil {
			return nil, err
		}
		if _, dup := c.kinds[nk.Name]; dup {
			return nil, fmt.Errorf("kind %q declared twice", nk.Name)
		}
		c.kinds[nk.Name] = nk
	}
	for _, k := range transportKinds {
		if _, ok := c.kinds[k.Name]; ok {
			continue
		}
		nk, err := k.normalize()
		if err != nil {
			return nil, err
		}
		c.kinds[nk.Name] = nk
	}
	return c, nil
}

// MustNew is New for static tables; it panics on an invalid entry.
func MustNew(kinds ...Kind) *Catalog {
	c, err := New(kinds...)
	if err != nil {
		panic(err)
	}
	return c
}

// With returns a new catalog holding the receiver's kinds plus the given
// ones. A given kind replaces an existing kind of the same name, except the
// transport kinds, which cannot be redeclared. The receiver is left
// untouched.
func (c *Catalog) With(kinds ...Kind) (*Catalog, error) {
	out := &Catalog{kinds: make(map[string]Kind, len(c.kinds)+len(kinds))}
	for name, k := range c.kinds {
		out.kinds[name] = k
	}
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		nk, err := k.normalize()
		if err != nil {
			return nil, err
		}
		if nk.IsTransport() {
			return nil, fmt.Errorf("kind %q is reserved for bridging and cannot be redeclared", nk.Name)
		}
		if seen[nk.Name] {
			return nil, fmt.Errorf("kind %q declared twice", nk.Name)
		}
		seen[nk.Name] = true
		out.kinds[nk.Name] = nk
	}
	return out, nil
}

// Lookup returns the kind registered under name.
func (c *Catalog) Lookup(name string) (Kind, bool) {
	k, ok := c.kinds[name]
	if !ok {
		return Kind{}, false
	}
	k.Allowed = slices.Clone(k.Allowed)
	return k, true
}

func (c *Catalog) get(name string) (Kind, error) {
	k, ok := c.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
	return k, nil
}

// ArityOf returns the contract of kind on the given side.
func (c *Catalog) ArityOf(kind string, d Direction) (Contract, error) {
	k, err := c.get(kind)
	if err != nil {
		return None, err
	}
	return k.Arity(d), nil
}

// AllowedElements returns the elements kind may run on. anyElement is true when
// the kind is unrestricted, in which case elems is nil.
func (c *Catalog) AllowedElements(kind string) (elems []Element, anyElement bool, err error) {
	k, err := c.get(kind)
	if err != nil {
		return nil, false, err
	}
	if k.AnyElement() {
		return nil, true, nil
	}
	return slices.Clone(k.Allowed), false, nil
}

// InstanceCeiling returns the whole-graph instance cap of kind, if any.
func (c *Catalog) InstanceCeiling(kind string) (int, bool) {
	k, ok := c.kinds[kind]
	if !ok || k.Ceiling == 0 {
		return 0, false
	}
	return k.Ceiling, true
}

// DefaultElement returns the element applied to an unpinned node of kind.
func (c *Catalog) DefaultElement(kind string) (Element, error) {
	k, err := c.get(kind)
	if err != nil {
		return "", err
	}
	return k.Default, nil
}

// Allows reports whether kind may run on el. Unknown kinds allow nothing.
func (c *Catalog) Allows(kind string, el Element) bool {
	k, ok := c.kinds[kind]
	return ok && k.Allows(el)
}

// Names returns all kind names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of kinds in the catalog.
func (c *Catalog) Len() int {
	return len(c.kinds)
}
