// Package bench replays a labeled screenshot corpus through the pipeline
// and reports precision/recall/F1. Offline tooling only; nothing here runs
// in the scan path.
package bench

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Resolution is the labeled capture resolution of a corpus image.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Entry is one labeled corpus record. Expected lists entity ids with
// duplicates standing in for stack counts; an empty list is a valid
// true-negative image.
type Entry struct {
	Image      string     `json:"image"`
	Expected   []string   `json:"expected"`
	Resolution Resolution `json:"resolution,omitempty"`
}

// valid reports whether the entry can be replayed at all.
func (e Entry) valid() bool {
	return e.Image != ""
}

// Corpus is a set of labeled entries plus the directory image references
// resolve against.
type Corpus struct {
	Dir     string
	Entries []Entry
	Skipped int // malformed entries dropped at load time
}

// Load reads a corpus JSON file. Malformed entries are skipped with a
// warning; they never abort the run.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read corpus: %w", err)
	}

	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse corpus: %w", err)
	}

	c := &Corpus{Dir: filepath.Dir(path)}
	for i, e := range raw {
		if !e.valid() {
			log.Printf("[Bench] skipping corpus entry %d: no image reference", i)
			c.Skipped++
			continue
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// ImagePath resolves an entry's image reference against the corpus dir.
func (c *Corpus) ImagePath(e Entry) string {
	if filepath.IsAbs(e.Image) {
		return e.Image
	}
	return filepath.Join(c.Dir, e.Image)
}
