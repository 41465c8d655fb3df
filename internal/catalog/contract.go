package catalog

import (
	"fmt"
	"strings"
)

// Contract is the cardinality rule a Kind imposes on one side of its ports.
type Contract int

const (
	// None allows no connections.
	None Contract = iota
	// ExactlyOne requires exactly one connection.
	ExactlyOne
	// AtMostOne allows zero or one connection.
	AtMostOne
	// AtLeastOne requires one or more connections.
	AtLeastOne
	// Unbounded allows any number of connections, including zero.
	Unbounded
)

var contractNames = map[Contract]string{
	None:       "none",
	ExactlyOne: "exactly-one",
	AtMostOne:  "at-most-one",
	AtLeastOne: "at-least-one",
	Unbounded:  "unbounded",
}

func (c Contract) String() string {
	if s, ok := contractNames[c]; ok {
		return s
	}
	return fmt.Sprintf("contract(%d)", int(c))
}

// Allows reports whether a realized degree of n satisfies the contract.
func (c Contract) Allows(n int) bool {
	switch c {
	case None:
		return n == 0
	case ExactlyOne:
		return n == 1
	case AtMostOne:
		return n <= 1
	case AtLeastOne:
		return n >= 1
	case Unbounded:
		return n >= 0
	}
	return false
}

// ParseContract converts the textual form used in manifests ("exactly-one",
// "at_least_one", "unbounded", ...) into a Contract.
func ParseContract(s string) (Contract, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for c, name := range contractNames {
		if name == norm {
			return c, nil
		}
	}
	return None, fmt.Errorf("unknown arity contract %q", s)
}

// Direction selects the input or output side of a node.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}
