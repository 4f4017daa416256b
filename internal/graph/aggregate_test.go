package graph

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeAggregator_MergesByKey(t *testing.T) {
	agg := NewEdgeAggregator(0)
	agg.Add("a", "b", EdgeKindCalls, CallSite{File: "x.go", Line: 10})
	agg.Add("a", "b", EdgeKindCalls, CallSite{File: "x.go", Line: 20})

	edges := agg.Edges()
	require.Len(t, edges, 1, "same (from,to,type) must merge into one edge")
	assert.Equal(t, 2, edges[0].Count)
	require.Len(t, edges[0].Locations, 2)
	assert.Equal(t, 10, edges[0].Locations[0].Line, "locations keep insertion order")
	assert.Equal(t, 20, edges[0].Locations[1].Line)
}

func TestEdgeAggregator_DistinctTypesStaySeparate(t *testing.T) {
	agg := NewEdgeAggregator(0)
	agg.Add("a", "b", EdgeKindCalls)
	agg.Add("a", "b", EdgeKindContains)
	assert.Equal(t, 2, agg.Len())
}

func TestEdgeAggregator_NoLocationsForContains(t *testing.T) {
	agg := NewEdgeAggregator(0)
	agg.Add("f", "d", EdgeKindContains, CallSite{File: "f", Line: 1})
	edges := agg.Edges()
	require.Len(t, edges, 1)
	assert.Empty(t, edges[0].Locations)
	assert.Equal(t, 1, edges[0].Count)
}

func TestEdgeAggregator_CapsLocationsButNotCount(t *testing.T) {
	agg := NewEdgeAggregator(4)
	for i := 1; i <= 10; i++ {
		agg.Add("a", "b", EdgeKindCalls, CallSite{File: "x.go", Line: i})
	}
	edges := agg.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, 10, edges[0].Count)
	require.Len(t, edges[0].Locations, 4)
	assert.Equal(t, 1, edges[0].Locations[0].Line, "cap keeps first-seen sites")
	assert.Equal(t, 4, edges[0].Locations[3].Line)
}

func TestEdgeAggregator_SortedOutput(t *testing.T) {
	agg := NewEdgeAggregator(0)
	agg.Add("z", "a", EdgeKindImports)
	agg.Add("a", "z", EdgeKindImports)
	edges := agg.Edges()
	require.Len(t, edges, 2)
	assert.True(t, edges[0].Key() < edges[1].Key())
}

func TestEdgeAggregator_ConcurrentAdds(t *testing.T) {
	agg := NewEdgeAggregator(0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				agg.Add("a", fmt.Sprintf("n%d", i%10), EdgeKindCalls, CallSite{File: "x", Line: i})
			}
		}(w)
	}
	wg.Wait()

	edges := agg.Edges()
	require.Len(t, edges, 10)
	total := 0
	for _, e := range edges {
		total += e.Count
	}
	assert.Equal(t, 800, total)
}
