package scan

import (
	"time"

	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/count"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/occupancy"
	"megabonk-scanner/internal/threshold"
)

// Options configures one scan. Every run carries its own options value;
// nothing here is process-wide, so concurrent scans with different
// strategies cannot interfere.
type Options struct {
	// Strategy selects the similarity implementation for this run.
	Strategy match.Strategy

	// Prefilter enables hash/border-hue candidate shrinking before the
	// full comparison.
	Prefilter       bool
	MaxHashDistance int

	// OccupancyThreshold is the variance score below which a slot counts
	// as empty. Zero selects the calibrated default.
	OccupancyThreshold float64

	// Band clamps the adaptive threshold.
	Band threshold.Band

	// PerRarity computes separate cutoffs per rarity tier when a run has
	// enough samples of that tier.
	PerRarity bool

	// RarityBands overrides the clamp band for specific rarity tiers.
	RarityBands map[catalog.Rarity]threshold.Band

	// Loosening sets how far passes 2 and 3 relax the cutoff.
	Loosening threshold.Loosening

	// OverlapThreshold is the IoU above which detections deduplicate.
	OverlapThreshold float64

	// CountCeiling rejects implausible stack counts. Zero selects the
	// default ceiling.
	CountCeiling int

	// Workers bounds the comparison fan-out. Zero means GOMAXPROCS.
	Workers int

	// OCRConcurrency bounds concurrent recognition calls; OCRTimeout
	// bounds each call before the slot falls back to count 1.
	OCRConcurrency int
	OCRTimeout     time.Duration
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:           match.StrategyNCC,
		Prefilter:          true,
		MaxHashDistance:    match.DefaultMaxHashDistance,
		OccupancyThreshold: occupancy.DefaultThreshold,
		Band:               threshold.DefaultBand,
		PerRarity:          true,
		Loosening:          threshold.DefaultLoosening,
		OverlapThreshold:   0.5,
		CountCeiling:       count.DefaultCeiling,
		OCRConcurrency:     4,
		OCRTimeout:         count.DefaultTimeout,
	}
}
