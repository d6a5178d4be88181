package bench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"megabonk-scanner/internal/aggregate"
)

func TestMetricsRates(t *testing.T) {
	m := Metrics{TP: 8, FP: 2, FN: 4}
	require.InDelta(t, 0.8, m.Precision(), 1e-9)
	require.InDelta(t, 8.0/12.0, m.Recall(), 1e-9)

	p, r := m.Precision(), m.Recall()
	require.InDelta(t, 2*p*r/(p+r), m.F1(), 1e-9)
}

func TestMetricsEmptyDenominators(t *testing.T) {
	// A true-negative image (nothing expected, nothing predicted) scores
	// perfectly rather than dividing by zero.
	var m Metrics
	require.Equal(t, 1.0, m.Precision())
	require.Equal(t, 1.0, m.Recall())
	require.Equal(t, 1.0, m.F1())

	require.Equal(t, 0.0, Metrics{FP: 3, FN: 2}.F1())
}

func TestMetricsAdd(t *testing.T) {
	m := Metrics{TP: 1, FP: 2, FN: 3}
	m.Add(Metrics{TP: 10, FP: 20, FN: 30})
	require.Equal(t, Metrics{TP: 11, FP: 22, FN: 33}, m)
}

func TestCompareMultiset(t *testing.T) {
	expected := []string{"garlic", "garlic", "garlic", "whip"}
	got := []aggregate.Detection{
		{EntityID: "garlic", Count: 2}, // one garlic short
		{EntityID: "axe", Count: 1},    // spurious
	}

	m := Compare(expected, got)
	require.Equal(t, 2, m.TP)
	require.Equal(t, 1, m.FP) // the axe
	require.Equal(t, 2, m.FN) // missing garlic and whip
}

func TestCompareCountsExpand(t *testing.T) {
	// A detection with Count 3 against a single expected instance is one
	// hit and two overcounts.
	m := Compare([]string{"garlic"}, []aggregate.Detection{{EntityID: "garlic", Count: 3}})
	require.Equal(t, Metrics{TP: 1, FP: 2, FN: 0}, m)

	// Zero/absent counts are treated as 1, matching the detection contract.
	m = Compare([]string{"garlic"}, []aggregate.Detection{{EntityID: "garlic"}})
	require.Equal(t, Metrics{TP: 1}, m)
}

func TestCorpusLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	data := `[
		{"image": "shots/a.png", "expected": ["garlic", "whip"], "resolution": {"width": 1920, "height": 1080}},
		{"image": "", "expected": ["orphaned"]},
		{"image": "b.png", "expected": []}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Entries, 2)
	require.Equal(t, 1, c.Skipped)

	// Relative references resolve against the corpus directory.
	require.Equal(t, filepath.Join(dir, "shots/a.png"), c.ImagePath(c.Entries[0]))

	// Empty expectations are a valid true-negative entry.
	require.Empty(t, c.Entries[1].Expected)
}

func TestCorpusLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
}
