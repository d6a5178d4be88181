// Package match scores captured slot icons against reference templates.
// Scores are normalized grayscale correlation coefficients mapped to [0,1]:
// robust to uniform brightness/contrast shifts, not to structural mismatch.
package match

import (
	"fmt"
	"image"
	"sort"

	"github.com/corona10/goimagehash"

	"megabonk-scanner/internal/imaging"
	"megabonk-scanner/internal/template"
	"megabonk-scanner/pkg/colorutil"
)

// Sample is a slot's icon sub-region prepared for comparison: resized to
// the canonical template size with per-slot signals computed once, however
// many templates it is scored against.
type Sample struct {
	Icon         *image.RGBA // canonical template.Size square
	Gray         []float64
	Hash         *goimagehash.ImageHash
	BorderHue    float64
	HasBorderHue bool
}

// NewSample prepares a slot icon buffer for matching.
func NewSample(icon *image.RGBA) (*Sample, error) {
	b := icon.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty slot icon")
	}

	canonical := icon
	if b.Dx() != template.Size || b.Dy() != template.Size {
		canonical = imaging.Resize(icon, template.Size, template.Size)
	}

	gray, _, _ := imaging.Grayscale(canonical)
	hash, err := goimagehash.AverageHash(canonical)
	if err != nil {
		return nil, fmt.Errorf("slot icon hashing failed: %w", err)
	}

	s := &Sample{Icon: canonical, Gray: gray, Hash: hash}
	s.BorderHue, s.HasBorderHue = colorutil.DominantBorderHue(canonical)
	return s, nil
}

// Candidate is one template's similarity against one slot sample.
type Candidate struct {
	Template *template.ReferenceTemplate
	Score    float64
}

// Options configures a scoring run.
type Options struct {
	Strategy Strategy

	// Prefilter shrinks the candidate set with cheap signals before the
	// full correlation. Average-hash distance is a coarse structural
	// check; candidates further than MaxHashDistance bits are skipped.
	Prefilter       bool
	MaxHashDistance int
}

// DefaultMaxHashDistance keeps roughly the top half of a typical template
// set; looser than any plausible true match so the prefilter only sheds
// obvious non-matches.
const DefaultMaxHashDistance = 28

// ScoreSlot scores a slot sample against every candidate template and
// returns the full distribution, sorted by descending score. The caller
// needs the whole distribution, not just the winner; the adaptive threshold
// is computed from it.
func ScoreSlot(sample *Sample, templates []*template.ReferenceTemplate, opts Options) ([]Candidate, error) {
	maxDist := opts.MaxHashDistance
	if maxDist <= 0 {
		maxDist = DefaultMaxHashDistance
	}

	candidates := make([]Candidate, 0, len(templates))
	for _, t := range templates {
		if opts.Prefilter && !prefilterPass(sample, t, maxDist) {
			continue
		}

		score, err := Compare(sample, t, opts.Strategy)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{Template: t, Score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Template.EntityID < candidates[j].Template.EntityID
	})
	return candidates, nil
}

// Compare scores one sample against one template using the given strategy.
func Compare(sample *Sample, t *template.ReferenceTemplate, strategy Strategy) (float64, error) {
	switch strategy {
	case StrategyNCC:
		return compareNCC(sample.Gray, t.Gray), nil
	case StrategyOpenCV:
		return compareOpenCV(sample, t)
	default:
		return 0, fmt.Errorf("unknown match strategy %v", strategy)
	}
}

func prefilterPass(sample *Sample, t *template.ReferenceTemplate, maxDist int) bool {
	if dist, err := sample.Hash.Distance(t.Hash); err == nil && dist > maxDist {
		return false
	}
	// Border hue disagreement is only trusted when both sides have a
	// colored border; gray-on-gray says nothing.
	if sample.HasBorderHue && t.HasBorderHue {
		if colorutil.HueDistance(sample.BorderHue, t.BorderHue) > 45 {
			return false
		}
	}
	return true
}

// BorderAgreement reports whether the sample's rarity border color
// corroborates the template. Used by the loosest resolver pass before
// accepting a low-confidence candidate.
func BorderAgreement(sample *Sample, t *template.ReferenceTemplate) bool {
	if sample == nil || t == nil {
		return false
	}
	if !sample.HasBorderHue || !t.HasBorderHue {
		return false
	}
	return colorutil.HueDistance(sample.BorderHue, t.BorderHue) <= 20
}
