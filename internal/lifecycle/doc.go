// Package lifecycle turns a compiled use case into a structured lifecycle
// script: link declarations, parameter reset, queue wiring, and the
// create/start/stop/delete/statistics sequences a code-emission backend
// renders into glue code.
//
// Create runs in scheduled order. Start, Stop, Delete and both statistics
// phases run in reverse scheduled order, split into groups wherever the
// compute element changes, with a settle step between consecutive groups.
package lifecycle
