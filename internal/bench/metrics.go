package bench

import "megabonk-scanner/internal/aggregate"

// Metrics are multiset detection counts for one image or a whole run.
// Detections expand by their resolved count before comparison, so a missed
// "x3" overlay costs recall even when the icon itself was found.
type Metrics struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

// Add accumulates another measurement.
func (m *Metrics) Add(other Metrics) {
	m.TP += other.TP
	m.FP += other.FP
	m.FN += other.FN
}

// Precision returns TP/(TP+FP); 1.0 when nothing was predicted, since an
// empty prediction makes no false claims.
func (m Metrics) Precision() float64 {
	if m.TP+m.FP == 0 {
		return 1
	}
	return float64(m.TP) / float64(m.TP+m.FP)
}

// Recall returns TP/(TP+FN); 1.0 when nothing was expected.
func (m Metrics) Recall() float64 {
	if m.TP+m.FN == 0 {
		return 1
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}

// F1 returns the harmonic mean of precision and recall.
func (m Metrics) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Compare scores a detection list against an expected entity multiset.
func Compare(expected []string, got []aggregate.Detection) Metrics {
	exp := make(map[string]int, len(expected))
	for _, id := range expected {
		exp[id]++
	}

	pred := make(map[string]int, len(got))
	for _, d := range got {
		n := d.Count
		if n < 1 {
			n = 1
		}
		pred[d.EntityID] += n
	}

	var m Metrics
	for id, p := range pred {
		e := exp[id]
		overlap := min(p, e)
		m.TP += overlap
		m.FP += p - overlap
	}
	for id, e := range exp {
		overlap := min(pred[id], e)
		m.FN += e - overlap
	}
	return m
}
