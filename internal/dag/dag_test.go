package dag

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/clusterlesshq/conventions/internal/errors"
)

func TestLevels_Empty(t *testing.T) {
	levels, err := New().Levels()
	require.NoError(t, err)
	assert.Nil(t, levels)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Graph)
		want  [][]string
	}{
		{
			name:  "independent nodes share a level",
			build: func(g *Graph) { g.AddNode("a"); g.AddNode("b") },
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "linear chain",
			build: func(g *Graph) { g.AddEdge("a", "b"); g.AddEdge("b", "c") },
			want:  [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name: "diamond",
			build: func(g *Graph) {
				g.AddEdge("a", "b")
				g.AddEdge("a", "c")
				g.AddEdge("b", "d")
				g.AddEdge("c", "d")
			},
			want: [][]string{{"a"}, {"b", "c"}, {"d"}},
		},
		{
			name: "insertion order within level",
			build: func(g *Graph) {
				g.AddNode("z")
				g.AddNode("core")
				g.AddEdge("core", "aws")
			},
			want: [][]string{{"z", "core"}, {"aws"}},
		},
		{
			name: "duplicate edges",
			build: func(g *Graph) {
				g.AddEdge("a", "b")
				g.AddEdge("a", "b")
			},
			want: [][]string{{"a"}, {"b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			tt.build(g)
			levels, err := g.Levels()
			require.NoError(t, err)
			assert.Equal(t, tt.want, levels)
		})
	}
}

func TestTopologicalSort(t *testing.T) {
	g := New()
	g.AddEdge("core", "aws")
	g.AddNode("docs")

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"core", "docs", "aws"}, order)
	assert.True(t, g.HasNode("docs"))
	assert.False(t, g.HasNode("missing"))
}

func TestLevels_Cycle(t *testing.T) {
	g := New()
	g.AddNode("root")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	_, err := g.Levels()
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"a", "b"}, cycleErr.Cycle)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	assert.Equal(t, "dependency cycle detected: a -> b", err.Error())
}
