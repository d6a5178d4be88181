package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"megabonk-scanner/pkg/geometry"
)

func det(id string, conf float64, box geometry.Rect, count int) Detection {
	return Detection{
		EntityID:        id,
		DisplayName:     id,
		Confidence:      conf,
		BoundingBox:     box,
		Count:           count,
		CountConfidence: 1,
	}
}

func TestAggregateEmpty(t *testing.T) {
	require.Nil(t, Aggregate(nil, 0))
	require.Nil(t, Aggregate([]Detection{}, 0))
}

func TestAggregateSuppressesOverlaps(t *testing.T) {
	box := geometry.NewRect(100, 900, 66, 66)
	nudged := geometry.NewRect(102, 902, 66, 66) // IoU ~0.89

	out := Aggregate([]Detection{
		det("garlic", 0.7, box, 1),
		det("whip", 0.9, nudged, 1),
	}, 0.5)

	// The two boxes are the same physical slot; only the higher-confidence
	// detection survives.
	require.Len(t, out, 1)
	require.Equal(t, "whip", out[0].EntityID)
	require.Equal(t, 0.9, out[0].Confidence)
}

func TestAggregateKeepsDisjointSlots(t *testing.T) {
	out := Aggregate([]Detection{
		det("garlic", 0.7, geometry.NewRect(100, 900, 66, 66), 1),
		det("whip", 0.9, geometry.NewRect(200, 900, 66, 66), 1),
	}, 0.5)
	require.Len(t, out, 2)
}

func TestAggregateGroupsByEntity(t *testing.T) {
	a := det("garlic", 0.7, geometry.NewRect(100, 900, 66, 66), 2)
	b := det("garlic", 0.9, geometry.NewRect(200, 900, 66, 66), 3)
	b.CountConfidence = 0.4

	out := Aggregate([]Detection{a, b}, 0.5)
	require.Len(t, out, 1)

	g := out[0]
	// Counts sum across slots; confidence and box come from the best
	// member; count confidence degrades to the weakest member.
	require.Equal(t, 5, g.Count)
	require.Equal(t, 0.9, g.Confidence)
	require.Equal(t, geometry.NewRect(200, 900, 66, 66), g.BoundingBox)
	require.Equal(t, 0.4, g.CountConfidence)
}

func TestAggregateMergesWarnings(t *testing.T) {
	a := det("garlic", 0.7, geometry.NewRect(100, 900, 66, 66), 1)
	a.Warning = "count recognition timed out"
	b := det("garlic", 0.8, geometry.NewRect(200, 900, 66, 66), 1)
	b.Warning = "count recognition timed out"
	c := det("garlic", 0.9, geometry.NewRect(300, 900, 66, 66), 1)
	c.Warning = `unparseable count text "zz"`

	out := Aggregate([]Detection{a, b, c}, 0.5)
	require.Len(t, out, 1)
	// Duplicate warnings collapse; distinct ones both appear.
	require.Contains(t, out[0].Warning, "timed out")
	require.Contains(t, out[0].Warning, "unparseable")
}

func TestAggregateDeterministicOrder(t *testing.T) {
	dets := []Detection{
		det("whip", 0.8, geometry.NewRect(200, 900, 66, 66), 1),
		det("axe", 0.8, geometry.NewRect(100, 900, 66, 66), 1),
		det("garlic", 0.95, geometry.NewRect(300, 900, 66, 66), 1),
	}

	out := Aggregate(dets, 0.5)
	require.Len(t, out, 3)
	// Confidence descending, then entity id ascending on ties.
	require.Equal(t, "garlic", out[0].EntityID)
	require.Equal(t, "axe", out[1].EntityID)
	require.Equal(t, "whip", out[2].EntityID)
}

func TestAggregateIdempotent(t *testing.T) {
	dets := []Detection{
		det("garlic", 0.7, geometry.NewRect(100, 900, 66, 66), 2),
		det("garlic", 0.9, geometry.NewRect(200, 900, 66, 66), 3),
		det("whip", 0.8, geometry.NewRect(300, 900, 66, 66), 1),
	}

	once := Aggregate(dets, 0.5)
	twice := Aggregate(once, 0.5)
	require.Equal(t, once, twice)
}

func TestAggregateDefaultThreshold(t *testing.T) {
	box := geometry.NewRect(100, 900, 66, 66)
	out := Aggregate([]Detection{
		det("a", 0.9, box, 1),
		det("b", 0.8, box, 1),
	}, 0)
	require.Len(t, out, 1)
}
