// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package graph builds the task dependency graph and produces a deterministic
// topological execution order. The graph is held as explicit node and edge
// sets and checked for cycles before any execution, rather than chasing
// dependencies recursively at run time.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateNode is returned when a node name is added twice.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrUnknownNode is returned when an edge references a name that has not
	// been added.
	ErrUnknownNode = errors.New("unknown node")
)

// CycleError reports that the combined edge set contains a cycle.
type CycleError struct {
	// Names are the node names on the offending cycle, in edge order.
	Names []string
}

// Error implements the error interface for CycleError.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Names, " -> "))
}

// Builder accumulates named nodes and directed edges. Nodes keep their
// insertion order, which is used to break ties between independent nodes so
// the produced order is reproducible across runs with identical input.
type Builder struct {
	order []string
	index map[string]int
	next  map[string][]int // edges: node index -> dependent node indices
	prev  map[string][]int // reverse edges: node index -> dependency node indices
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{
		index: make(map[string]int),
		next:  make(map[string][]int),
		prev:  make(map[string][]int),
	}
}

// AddNode registers a node name. Names must be unique.
func (b *Builder) AddNode(name string) error {
	if _, ok := b.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, name)
	}

	b.index[name] = len(b.order)
	b.order = append(b.order, name)

	return nil
}

// AddEdge declares that from must reach a terminal state before to starts.
func (b *Builder) AddEdge(from, to string) error {
	fi, ok := b.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}

	ti, ok := b.index[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}

	for _, existing := range b.next[from] {
		if existing == ti {
			return nil
		}
	}

	b.next[from] = append(b.next[from], ti)
	b.prev[to] = append(b.prev[to], fi)

	return nil
}

// Dependencies returns the names of the nodes the given node depends on.
func (b *Builder) Dependencies(name string) []string {
	deps := make([]string, 0, len(b.prev[name]))
	for _, i := range b.prev[name] {
		deps = append(deps, b.order[i])
	}

	return deps
}

// TopoSort returns a topological order of all nodes. Among simultaneously
// ready nodes the one registered first wins. A cycle is reported as a
// CycleError naming the nodes on it.
func (b *Builder) TopoSort() ([]string, error) {
	indegree := make([]int, len(b.order))

	for _, name := range b.order {
		for _, ti := range b.next[name] {
			indegree[ti]++
		}
	}

	done := make([]bool, len(b.order))
	sorted := make([]string, 0, len(b.order))

	for len(sorted) < len(b.order) {
		picked := -1

		for i := range b.order {
			if !done[i] && indegree[i] == 0 {
				picked = i
				break
			}
		}

		if picked == -1 {
			return nil, &CycleError{Names: b.findCycle()}
		}

		done[picked] = true
		sorted = append(sorted, b.order[picked])

		for _, ti := range b.next[b.order[picked]] {
			indegree[ti]--
		}
	}

	return sorted, nil
}

// findCycle locates one cycle via depth-first traversal with a recursion
// stack check.
func (b *Builder) findCycle() []string {
	const (
		unvisited = iota
		inStack
		finished
	)

	state := make([]int, len(b.order))

	var stack []int

	var dfs func(i int) []string

	dfs = func(i int) []string {
		state[i] = inStack
		stack = append(stack, i)

		for _, ti := range b.next[b.order[i]] {
			switch state[ti] {
			case inStack:
				// Back edge: the cycle is the stack from ti onwards.
				var cycle []string

				for j := len(stack) - 1; j >= 0; j-- {
					cycle = append([]string{b.order[stack[j]]}, cycle...)
					if stack[j] == ti {
						return cycle
					}
				}
			case unvisited:
				if cycle := dfs(ti); cycle != nil {
					return cycle
				}
			}
		}

		state[i] = finished
		stack = stack[:len(stack)-1]

		return nil
	}

	for i := range b.order {
		if state[i] == unvisited {
			if cycle := dfs(i); cycle != nil {
				return cycle
			}
		}
	}

	return nil
}
