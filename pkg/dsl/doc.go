// Package dsl offers a fluent builder for constructing plays in code, for
// library consumers and tests that do not want to go through YAML files.
package dsl
