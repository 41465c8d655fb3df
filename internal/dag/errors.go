package dag

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported while compiling a use case. Match them with errors.Is.
var (
	ErrSchemaViolation      = errors.New("schema violation")
	ErrUnknownNodeReference = errors.New("unknown node reference")
	ErrDuplicateEdge        = errors.New("duplicate edge")
	ErrElementNotAllowed    = errors.New("element not allowed for kind")
	ErrAllocationCeiling    = errors.New("allocation ceiling exceeded")
	ErrCyclicGraph          = errors.New("cyclic graph")
)

// ErrFrozen is returned by builder operations on a closed graph.
var ErrFrozen = errors.New("graph is frozen")

// GraphError names the node (or edge) that caused a compilation failure.
type GraphError struct {
	Kind error
	Node string
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

// Errorf builds a GraphError of the given kind about node.
func Errorf(kind error, node, format string, args ...any) error {
	return &GraphError{Kind: kind, Node: node, Msg: fmt.Sprintf(format, args...)}
}

// CycleError reports a dependency cycle along path.
func CycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	node := ""
	if len(path) > 0 {
		node = path[0]
	}
	return &GraphError{Kind: ErrCyclicGraph, Node: node, Msg: msg}
}
