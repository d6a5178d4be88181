// Package aggregate turns raw per-slot detections into the deduplicated,
// deterministically ordered detection list consumers receive.
package aggregate

import (
	"sort"
	"strings"

	"megabonk-scanner/pkg/geometry"
)

// Detection is the externally visible result unit. Immutable once emitted.
type Detection struct {
	EntityID        string        `json:"entity_id"`
	DisplayName     string        `json:"display_name"`
	Confidence      float64       `json:"confidence"`
	BoundingBox     geometry.Rect `json:"bounding_box"`
	Count           int           `json:"count"`
	CountConfidence float64       `json:"count_confidence"`
	Warning         string        `json:"warning,omitempty"`
}

// DefaultOverlapThreshold is the IoU above which two boxes are considered
// the same physical slot detected twice.
const DefaultOverlapThreshold = 0.5

// Aggregate deduplicates and groups raw detections:
// near-duplicate boxes are suppressed keeping the highest confidence, then
// detections group by entity with counts summed and max confidence kept,
// sorted deterministically. Aggregating an already aggregated list returns
// it unchanged.
func Aggregate(raw []Detection, overlapThreshold float64) []Detection {
	if overlapThreshold <= 0 {
		overlapThreshold = DefaultOverlapThreshold
	}
	if len(raw) == 0 {
		return nil
	}

	survivors := suppressOverlaps(raw, overlapThreshold)
	grouped := groupByEntity(survivors)

	sort.SliceStable(grouped, func(i, j int) bool {
		if grouped[i].Confidence != grouped[j].Confidence {
			return grouped[i].Confidence > grouped[j].Confidence
		}
		if grouped[i].EntityID != grouped[j].EntityID {
			return grouped[i].EntityID < grouped[j].EntityID
		}
		if grouped[i].BoundingBox.X != grouped[j].BoundingBox.X {
			return grouped[i].BoundingBox.X < grouped[j].BoundingBox.X
		}
		return grouped[i].BoundingBox.Y < grouped[j].BoundingBox.Y
	})
	return grouped
}

// suppressOverlaps drops detections whose box overlaps a higher-confidence
// detection beyond the threshold. Two matches on one slot become one.
func suppressOverlaps(raw []Detection, overlapThreshold float64) []Detection {
	// Consider candidates in confidence order so the best box wins.
	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return raw[order[a]].Confidence > raw[order[b]].Confidence
	})

	var kept []Detection
	for _, idx := range order {
		d := raw[idx]
		duplicate := false
		for _, k := range kept {
			if d.BoundingBox.IoU(k.BoundingBox) >= overlapThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, d)
		}
	}
	return kept
}

// groupByEntity merges all detections of one entity: counts sum, the
// highest-confidence member contributes confidence and bounding box, and
// the count confidence degrades to the weakest member since the summed
// count is only as reliable as its least reliable part.
func groupByEntity(dets []Detection) []Detection {
	byEntity := make(map[string]*Detection)
	var order []string

	for _, d := range dets {
		g, ok := byEntity[d.EntityID]
		if !ok {
			copied := d
			byEntity[d.EntityID] = &copied
			order = append(order, d.EntityID)
			continue
		}

		g.Count += d.Count
		if d.Confidence > g.Confidence {
			g.Confidence = d.Confidence
			g.BoundingBox = d.BoundingBox
			g.DisplayName = d.DisplayName
		}
		if d.CountConfidence < g.CountConfidence {
			g.CountConfidence = d.CountConfidence
		}
		g.Warning = mergeWarnings(g.Warning, d.Warning)
	}

	out := make([]Detection, 0, len(order))
	for _, id := range order {
		out = append(out, *byEntity[id])
	}
	return out
}

func mergeWarnings(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "" || a == b || strings.Contains(a, b):
		return a
	default:
		return a + "; " + b
	}
}
