package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"megabonk-scanner/internal/scan"
)

// EntryResult records one image's replay outcome.
type EntryResult struct {
	Image      string  `json:"image"`
	Metrics    Metrics `json:"metrics"`
	Detections int     `json:"detections"`
	Millis     float64 `json:"millis"`
	Error      string  `json:"error,omitempty"`
}

// Report is a persisted run record.
type Report struct {
	RunAt     time.Time     `json:"run_at"`
	Images    int           `json:"images"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Totals    Metrics       `json:"totals"`
	Precision float64       `json:"precision"`
	Recall    float64       `json:"recall"`
	F1        float64       `json:"f1"`
	AvgMillis float64       `json:"avg_millis"`
	Entries   []EntryResult `json:"entries"`
}

// Runner replays a corpus through a scanner.
type Runner struct {
	Scanner *scan.Scanner
	Opts    scan.Options
}

// Run replays every corpus entry. Per-image failures (unreadable file,
// unresolved layout) are recorded and skipped; they never abort the run.
func (r *Runner) Run(ctx context.Context, corpus *Corpus) (*Report, error) {
	if r.Scanner == nil {
		return nil, fmt.Errorf("runner has no scanner")
	}

	report := &Report{RunAt: time.Now().UTC(), Skipped: corpus.Skipped}
	var totalMillis float64

	for _, entry := range corpus.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		dets, err := r.Scanner.ScanFile(ctx, corpus.ImagePath(entry), r.Opts)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		res := EntryResult{Image: entry.Image, Millis: elapsed}
		if err != nil {
			log.Printf("[Bench] %s: %v", entry.Image, err)
			res.Error = err.Error()
			report.Failed++
		} else {
			res.Metrics = Compare(entry.Expected, dets)
			res.Detections = len(dets)
			report.Totals.Add(res.Metrics)
		}

		report.Entries = append(report.Entries, res)
		report.Images++
		totalMillis += elapsed
	}

	if report.Images > 0 {
		report.AvgMillis = totalMillis / float64(report.Images)
	}
	report.Precision = report.Totals.Precision()
	report.Recall = report.Totals.Recall()
	report.F1 = report.Totals.F1()
	return report, nil
}

// Save persists the run record as indented JSON.
func (rep *Report) Save(path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write report: %w", err)
	}
	return nil
}
