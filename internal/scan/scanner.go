// Package scan runs the full detection pipeline for one screenshot:
// layout inference, occupancy filtering, template matching, adaptive
// thresholding, multi-pass resolution, count extraction and aggregation.
package scan

import (
	"context"
	"fmt"
	"image"
	"log"
	"runtime"
	"sync"

	"megabonk-scanner/internal/aggregate"
	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/count"
	"megabonk-scanner/internal/imaging"
	"megabonk-scanner/internal/layout"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/occupancy"
	"megabonk-scanner/internal/resolve"
	"megabonk-scanner/internal/template"
	"megabonk-scanner/internal/threshold"
	"megabonk-scanner/pkg/geometry"
)

// Scanner owns the immutable collaborators shared across scans: the
// template library, the entity catalog and the optional text recognizer.
// All per-scan state is request-scoped; a Scanner is safe for concurrent
// Scan calls.
type Scanner struct {
	lib *template.Library
	cat *catalog.Store
	rec count.Recognizer // nil disables count extraction (all counts 1)
}

// New creates a Scanner. The library must have finished loading; matching
// never runs against a partial template set.
func New(lib *template.Library, cat *catalog.Store, rec count.Recognizer) (*Scanner, error) {
	if lib == nil || !lib.Loaded() {
		return nil, fmt.Errorf("template library is not loaded")
	}
	return &Scanner{lib: lib, cat: cat, rec: rec}, nil
}

// slotWork carries one slot through the pipeline stages.
type slotWork struct {
	region layout.SlotRegion
	rect   geometry.RectInt
	class  occupancy.Classification
	slot   *resolve.Slot
}

// ScanFile loads an image file and scans it. Undecodable input fails fast
// with layout.ErrUnresolved; there is nothing to locate a layout in.
func (s *Scanner) ScanFile(ctx context.Context, path string, opts Options) ([]aggregate.Detection, error) {
	img, err := imaging.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", layout.ErrUnresolved, err)
	}
	return s.Scan(ctx, img, opts)
}

// Scan runs the full pipeline on one decoded screenshot.
func (s *Scanner) Scan(ctx context.Context, img image.Image, opts Options) ([]aggregate.Detection, error) {
	bounds := img.Bounds()
	lay, err := layout.Locate(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rgba := imaging.ToRGBA(img)

	// Stage 1: extract and classify every slot region.
	work := make([]*slotWork, 0, len(lay.Regions))
	occupied := make([]*slotWork, 0, len(lay.Regions))
	for _, region := range lay.Regions {
		rect := region.PixelBounds()
		buf := imaging.Crop(rgba, rect)
		class := occupancy.Classify(buf, opts.OccupancyThreshold)

		w := &slotWork{
			region: region,
			rect:   rect,
			class:  class,
			slot:   &resolve.Slot{Index: region.SlotIndex},
		}
		if !class.Occupied {
			w.slot.State = resolve.StateEmpty
			work = append(work, w)
			continue
		}

		icon := imaging.Crop(rgba, match.IconRegion(rect))
		sample, err := match.NewSample(icon)
		if err != nil {
			// A degenerate crop degrades to "no detection for this slot".
			log.Printf("[Scan] slot %d: %v", region.SlotIndex, err)
			w.slot.State = resolve.StateUnmatched
			work = append(work, w)
			continue
		}
		w.slot.Sample = sample
		work = append(work, w)
		occupied = append(occupied, w)
	}

	if len(occupied) == 0 {
		// Every slot empty: a valid scan with an empty result.
		return nil, nil
	}

	// Stage 2: score occupied slots against the full template set. Slot
	// comparisons are independent; the threshold stage needs all of them
	// collected before it can see the score distribution.
	if err := s.scoreSlots(ctx, occupied, opts); err != nil {
		return nil, err
	}

	// Stage 3: adaptive cutoff from the distribution of best scores.
	profile := s.buildProfile(occupied, opts)

	// Stage 4: multi-pass resolution.
	slots := make([]*resolve.Slot, len(work))
	for i, w := range work {
		slots[i] = w.slot
	}
	resolve.Resolve(slots, profile)

	// Stage 5: counts for matched slots, then aggregation.
	raw := s.extractDetections(ctx, rgba, work, opts)
	return aggregate.Aggregate(raw, opts.OverlapThreshold), nil
}

// scoreSlots fans slot scoring out over a bounded worker pool. The strategy
// is validated once up front; after that a slot's scoring failure only
// costs that slot (it stays candidate-less and resolves to no detection).
func (s *Scanner) scoreSlots(ctx context.Context, occupied []*slotWork, opts Options) error {
	templates := s.lib.Templates()
	if len(templates) == 0 {
		return fmt.Errorf("template library is empty")
	}
	if err := opts.Strategy.Validate(); err != nil {
		return err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(occupied) {
		workers = len(occupied)
	}

	matchOpts := match.Options{
		Strategy:        opts.Strategy,
		Prefilter:       opts.Prefilter,
		MaxHashDistance: opts.MaxHashDistance,
	}

	jobs := make(chan *slotWork)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				if ctx.Err() != nil {
					continue
				}
				cands, err := match.ScoreSlot(w.slot.Sample, templates, matchOpts)
				if err != nil {
					log.Printf("[Scan] slot %d: scoring failed: %v", w.slot.Index, err)
					continue
				}
				w.slot.Candidates = cands
			}
		}()
	}

	for _, w := range occupied {
		jobs <- w
	}
	close(jobs)
	wg.Wait()

	return ctx.Err()
}

// buildProfile computes the run's threshold profile from best-candidate
// scores, optionally split per rarity tier.
func (s *Scanner) buildProfile(occupied []*slotWork, opts Options) *threshold.Profile {
	best := make([]float64, 0, len(occupied))
	byRarity := make(map[catalog.Rarity][]float64)

	for _, w := range occupied {
		if len(w.slot.Candidates) == 0 {
			continue
		}
		top := w.slot.Candidates[0]
		best = append(best, top.Score)
		rarity := catalog.RarityUnknown
		if top.Template != nil {
			rarity = top.Template.Rarity
		}
		byRarity[rarity] = append(byRarity[rarity], top.Score)
	}

	global := threshold.Select(best, opts.Band)

	var cutoffs map[catalog.Rarity]float64
	if opts.PerRarity {
		cutoffs = threshold.SelectPerRarity(byRarity, global, opts.Band, opts.RarityBands)
	}
	return threshold.BuildProfile(cutoffs, global, opts.Loosening, opts.Band, opts.RarityBands)
}

// extractDetections builds raw detections for matched slots and resolves
// their counts with bounded concurrency. Recognition failures degrade to
// count 1; they never remove the detection.
func (s *Scanner) extractDetections(ctx context.Context, rgba *image.RGBA, work []*slotWork, opts Options) []aggregate.Detection {
	type pending struct {
		w   *slotWork
		det aggregate.Detection
	}

	var matched []pending
	for _, w := range work {
		if !w.slot.State.Matched() || w.slot.Winner == nil {
			continue
		}
		t := w.slot.Winner.Template
		name := t.DisplayName
		if s.cat != nil {
			name = s.cat.DisplayName(t.EntityID)
		}
		matched = append(matched, pending{
			w: w,
			det: aggregate.Detection{
				EntityID:    t.EntityID,
				DisplayName: name,
				// Confidence is the winning similarity itself, never an
				// average over candidates.
				Confidence:  w.slot.Winner.Score,
				BoundingBox: w.region.Bounds,
				Count:       1,
			},
		})
	}

	if len(matched) == 0 {
		return nil
	}

	if s.rec != nil {
		concurrency := opts.OCRConcurrency
		if concurrency <= 0 {
			concurrency = 1
		}
		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup

		for i := range matched {
			wg.Add(1)
			go func(p *pending) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				badge := imaging.Crop(rgba, match.BadgeRegion(p.w.rect))
				ext := count.Extract(ctx, s.rec, badge, opts.CountCeiling, opts.OCRTimeout)
				p.det.Count = ext.Count
				p.det.CountConfidence = ext.Confidence
				p.det.Warning = ext.Warning
			}(&matched[i])
		}
		wg.Wait()
	}

	out := make([]aggregate.Detection, len(matched))
	for i, p := range matched {
		out[i] = p.det
	}
	return out
}
