// Package config loads scanner configuration from a JSON file, the same
// shape the rest of the project's data files use. Absent file or absent
// fields fall back to calibrated defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"megabonk-scanner/internal/count"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/occupancy"
	"megabonk-scanner/internal/scan"
	"megabonk-scanner/internal/threshold"
)

// ScanConfig is the on-disk scanner configuration.
type ScanConfig struct {
	Strategy           string                    `json:"strategy,omitempty"`
	Prefilter          *bool                     `json:"prefilter,omitempty"`
	MaxHashDistance    int                       `json:"max_hash_distance,omitempty"`
	OccupancyThreshold float64                   `json:"occupancy_threshold,omitempty"`
	Band               *threshold.Band           `json:"threshold_band,omitempty"`
	PerRarity          *bool                     `json:"per_rarity,omitempty"`
	RarityBands        map[string]threshold.Band `json:"rarity_bands,omitempty"`
	Loosening          *threshold.Loosening      `json:"loosening,omitempty"`
	OverlapThreshold   float64                   `json:"overlap_threshold,omitempty"`
	CountCeiling       int                       `json:"count_ceiling,omitempty"`
	Workers            int                       `json:"workers,omitempty"`
	OCRConcurrency     int                       `json:"ocr_concurrency,omitempty"`
	OCRTimeoutMillis   int                       `json:"ocr_timeout_millis,omitempty"`
}

// Load reads a config file. An empty path returns defaults.
func Load(path string) (*ScanConfig, error) {
	cfg := &ScanConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the typed constraints that JSON decoding cannot:
// strategy names, band sanity and rarity tags.
func (c *ScanConfig) Validate() error {
	if _, err := match.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.Band != nil && !c.Band.Valid() {
		return fmt.Errorf("invalid threshold band [%v, %v]", c.Band.Min, c.Band.Max)
	}
	if _, err := threshold.ParseRarityBands(c.RarityBands); err != nil {
		return err
	}
	if c.OccupancyThreshold < 0 {
		return fmt.Errorf("negative occupancy threshold")
	}
	if c.CountCeiling < 0 {
		return fmt.Errorf("negative count ceiling")
	}
	return nil
}

// Options materializes scan options from the config over the defaults.
func (c *ScanConfig) Options() (scan.Options, error) {
	opts := scan.DefaultOptions()

	strategy, err := match.ParseStrategy(c.Strategy)
	if err != nil {
		return opts, err
	}
	opts.Strategy = strategy

	if c.Prefilter != nil {
		opts.Prefilter = *c.Prefilter
	}
	if c.MaxHashDistance > 0 {
		opts.MaxHashDistance = c.MaxHashDistance
	}
	if c.OccupancyThreshold > 0 {
		opts.OccupancyThreshold = c.OccupancyThreshold
	} else {
		opts.OccupancyThreshold = occupancy.DefaultThreshold
	}
	if c.Band != nil {
		opts.Band = *c.Band
	}
	if c.PerRarity != nil {
		opts.PerRarity = *c.PerRarity
	}
	if len(c.RarityBands) > 0 {
		bands, err := threshold.ParseRarityBands(c.RarityBands)
		if err != nil {
			return opts, err
		}
		opts.RarityBands = bands
	}
	if c.Loosening != nil {
		opts.Loosening = *c.Loosening
	}
	if c.OverlapThreshold > 0 {
		opts.OverlapThreshold = c.OverlapThreshold
	}
	if c.CountCeiling > 0 {
		opts.CountCeiling = c.CountCeiling
	} else {
		opts.CountCeiling = count.DefaultCeiling
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	if c.OCRConcurrency > 0 {
		opts.OCRConcurrency = c.OCRConcurrency
	}
	if c.OCRTimeoutMillis > 0 {
		opts.OCRTimeout = time.Duration(c.OCRTimeoutMillis) * time.Millisecond
	}
	return opts, nil
}
