// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, nodes []string, edges [][2]string) *Builder {
	t.Helper()

	b := New()

	for _, n := range nodes {
		require.NoError(t, b.AddNode(n))
	}

	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}

	return b
}

func TestTopoSortRespectsEdges(t *testing.T) {
	b := build(t,
		[]string{"c", "b", "a"},
		[][2]string{{"a", "b"}, {"b", "c"}},
	)

	sorted, err := b.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, sorted)
}

func TestTopoSortTieBreaksOnInsertionOrder(t *testing.T) {
	// No edges at all: the order is exactly the insertion order.
	b := build(t, []string{"z", "m", "a"}, nil)

	sorted, err := b.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "m", "a"}, sorted)
}

func TestTopoSortDeterministic(t *testing.T) {
	nodes := []string{"root", "right", "left", "leaf"}
	edges := [][2]string{{"root", "left"}, {"root", "right"}, {"left", "leaf"}, {"right", "leaf"}}

	first, err := build(t, nodes, edges).TopoSort()
	require.NoError(t, err)

	for range 20 {
		again, err := build(t, nodes, edges).TopoSort()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// "right" was inserted before "left", so it wins the tie.
	assert.Equal(t, []string{"root", "right", "left", "leaf"}, first)
}

func TestTopoSortCycle(t *testing.T) {
	b := build(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)

	_, err := b.TopoSort()
	require.Error(t, err)

	var cycle *CycleError

	require.ErrorAs(t, err, &cycle)
	assert.Len(t, cycle.Names, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycle.Names)
	assert.Contains(t, err.Error(), "dependency cycle detected")
}

func TestTopoSortSelfCycle(t *testing.T) {
	b := build(t, []string{"a"}, [][2]string{{"a", "a"}})

	_, err := b.TopoSort()
	require.Error(t, err)

	var cycle *CycleError

	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a"}, cycle.Names)
}

func TestAddNodeDuplicate(t *testing.T) {
	b := New()
	require.NoError(t, b.AddNode("a"))
	require.ErrorIs(t, b.AddNode("a"), ErrDuplicateNode)
}

func TestAddEdgeUnknownNode(t *testing.T) {
	b := New()
	require.NoError(t, b.AddNode("a"))

	require.ErrorIs(t, b.AddEdge("a", "missing"), ErrUnknownNode)
	require.ErrorIs(t, b.AddEdge("missing", "a"), ErrUnknownNode)
}

func TestDependencies(t *testing.T) {
	b := build(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "c"}, {"b", "c"}},
	)

	assert.Equal(t, []string{"a", "b"}, b.Dependencies("c"))
	assert.Empty(t, b.Dependencies("a"))
}

func TestAddEdgeDeduplicates(t *testing.T) {
	b := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})

	assert.Equal(t, []string{"a"}, b.Dependencies("b"))

	sorted, err := b.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sorted)
}
