package config

import (
	"fmt"
	"time"

	"github.com/vk/usecasegen/internal/catalog"
)

// Op names a directive.
type Op string

const (
	OpCreate     Op = "create"
	OpSetElement Op = "set_element"
	OpConnect    Op = "connect"
)

// Model is one loaded use case.
type Model struct {
	Usecase string
	// SettleDelay is nil when the use case does not set one.
	SettleDelay *time.Duration
	Kinds       []KindSpec
	Directives  []Directive
}

// Directive is one graph-building instruction. Which fields are set
// depends on Op.
type Directive struct {
	Op       Op
	Name     string
	Kind     string
	Element  string
	Producer string
	Consumer string
	// Pos is "file:line" of the source of the directive.
	Pos string
}

func (d Directive) String() string {
	switch d.Op {
	case OpCreate:
		return fmt.Sprintf("create %s (%s)", d.Name, d.Kind)
	case OpSetElement:
		return fmt.Sprintf("set_element %s = %s", d.Name, d.Element)
	case OpConnect:
		return fmt.Sprintf("connect %s -> %s", d.Producer, d.Consumer)
	default:
		return string(d.Op)
	}
}

// Create returns a create directive.
func Create(name, kind string) Directive {
	return Directive{Op: OpCreate, Name: name, Kind: kind}
}

// SetElement returns a set_element directive.
func SetElement(name, element string) Directive {
	return Directive{Op: OpSetElement, Name: name, Element: element}
}

// Connect returns a connect directive.
func Connect(producer, consumer string) Directive {
	return Directive{Op: OpConnect, Producer: producer, Consumer: consumer}
}

// Path expands a chain of names into consecutive connect directives.
func Path(pos string, names ...string) []Directive {
	if len(names) < 2 {
		return nil
	}
	out := make([]Directive, 0, len(names)-1)
	for i := 1; i < len(names); i++ {
		d := Connect(names[i-1], names[i])
		d.Pos = pos
		out = append(out, d)
	}
	return out
}

// KindSpec is a kind manifest entry as written in a use-case file.
type KindSpec struct {
	Name            string
	Category        string
	Input           string
	Output          string
	Elements        []string
	Default         string
	Ceiling         int
	Symbol          string
	ElementPrefixed bool
	MultiIn         bool
	MultiOut        bool
	Pos             string
}

// ToKind converts the manifest entry into a catalog kind. Missing
// contracts default to unbounded.
func (s KindSpec) ToKind() (catalog.Kind, error) {
	in, err := parseContract(s.Input)
	if err != nil {
		return catalog.Kind{}, fmt.Errorf("%s: kind %q input: %w", s.Pos, s.Name, err)
	}
	out, err := parseContract(s.Output)
	if err != nil {
		return catalog.Kind{}, fmt.Errorf("%s: kind %q output: %w", s.Pos, s.Name, err)
	}
	elems := make([]catalog.Element, 0, len(s.Elements))
	for _, e := range s.Elements {
		elems = append(elems, catalog.Element(e))
	}
	return catalog.Kind{
		Name:            s.Name,
		Category:        s.Category,
		Input:           in,
		Output:          out,
		Allowed:         elems,
		Default:         catalog.Element(s.Default),
		Ceiling:         s.Ceiling,
		Symbol:          s.Symbol,
		ElementPrefixed: s.ElementPrefixed,
		MultiIn:         s.MultiIn,
		MultiOut:        s.MultiOut,
	}, nil
}

func parseContract(s string) (catalog.Contract, error) {
	if s == "" {
		return catalog.Unbounded, nil
	}
	return catalog.ParseContract(s)
}

// Catalog extends base with the kinds declared in m.
func (m *Model) Catalog(base *catalog.Catalog) (*catalog.Catalog, error) {
	if len(m.Kinds) == 0 {
		return base, nil
	}
	kinds := make([]catalog.Kind, 0, len(m.Kinds))
	for _, s := range m.Kinds {
		k, err := s.ToKind()
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	cat, err := base.With(kinds...)
	if err != nil {
		return nil, fmt.Errorf("extending kind catalog: %w", err)
	}
	return cat, nil
}

// Merge combines models loaded from several files. Kinds from all models
// are kept in order; at most one model may define a use case.
func Merge(models ...*Model) (*Model, error) {
	merged := &Model{}
	for _, m := range models {
		if m == nil {
			continue
		}
		merged.Kinds = append(merged.Kinds, m.Kinds...)
		if m.Usecase == "" && len(m.Directives) == 0 {
			continue
		}
		if merged.Usecase != "" {
			return nil, fmt.Errorf("multiple use cases defined: %q and %q", merged.Usecase, m.Usecase)
		}
		merged.Usecase = m.Usecase
		merged.SettleDelay = m.SettleDelay
		merged.Directives = m.Directives
	}
	return merged, nil
}
