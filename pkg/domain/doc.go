// Package domain contains the core types of playgraph: the immutable playbook
// structures handed to us by the loader (plays, tasks, handlers) and the graph
// fragment (nodes, edges) handed back to the renderers.
//
// Values in this package are plain data. The notification and flush semantics
// that connect tasks to handlers live in internal/runtime; the rendering of the
// resulting graph lives in internal/presentation.
package domain
