// Package render serializes lifecycle scripts: the script itself as YAML,
// the bridged graph as Graphviz DOT and as an interactive HTML diagram.
// Every renderer implements lifecycle.Emitter over an io.Writer.
package render
