// Package compiler loads playbook YAML files into the domain model: plays
// with their task blocks, flattened role tasks, and the declaration-ordered
// handler list the runtime's registry is built from.
package compiler
