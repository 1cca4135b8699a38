// Package graph renders domain graphs into presentation formats: Mermaid
// flowcharts, Graphviz DOT, and a versioned JSON document.
package graph
