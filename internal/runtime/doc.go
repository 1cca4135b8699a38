// Package runtime implements the notification and flush semantics that turn a
// play into graph edges: the handler registry (name and listen-topic index),
// the per-window notification queue, the flush scheduler that walks the play's
// blocks, and the graph builder that records the walk as nodes and edges.
//
// Everything here is single-threaded and deterministic: one play is one
// ordered walk. Plays are independent; callers may process them in parallel.
package runtime
