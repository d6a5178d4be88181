// Package catalog provides read-only access to the game entity catalog.
// The catalog is maintained outside this core; the scanner only consumes
// it to enrich detections with display names and rarity metadata.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Rarity is an entity rarity tier.
type Rarity int

const (
	// RarityUnknown is the explicit fallback for unrecognized tags.
	RarityUnknown Rarity = iota
	RarityCommon
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// AllRarities lists every known tier, fallback excluded.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// ParseRarity maps a catalog rarity tag to a Rarity. Unrecognized tags map
// to RarityUnknown rather than failing; the tag set has grown before.
func ParseRarity(tag string) Rarity {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "common":
		return RarityCommon
	case "uncommon":
		return RarityUncommon
	case "rare":
		return RarityRare
	case "epic":
		return RarityEpic
	case "legendary":
		return RarityLegendary
	default:
		return RarityUnknown
	}
}

// Entry describes one catalog entity.
type Entry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Tier   int    `json:"tier,omitempty"`
	Kind   string `json:"kind,omitempty"` // item, weapon, tome, character
}

// ParsedRarity returns the entry's rarity tag as a typed Rarity.
func (e Entry) ParsedRarity() Rarity {
	return ParseRarity(e.Rarity)
}

// Store is an immutable id -> Entry lookup loaded once from JSON.
// Safe for concurrent reads after Load returns.
type Store struct {
	entries map[string]Entry
}

// Load reads a catalog JSON file: an array of entries.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a Store from raw catalog JSON.
func Parse(data []byte) (*Store, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cannot parse catalog: %w", err)
	}

	s := &Store{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		s.entries[e.ID] = e
	}
	return s, nil
}

// NewStore builds a Store from in-memory entries. Used by tests and tools
// that synthesize a catalog.
func NewStore(entries []Entry) *Store {
	s := &Store{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		s.entries[e.ID] = e
	}
	return s
}

// Get returns the entry for an entity id.
func (s *Store) Get(id string) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// DisplayName returns the entity's display name, falling back to the id
// itself when the catalog has no entry.
func (s *Store) DisplayName(id string) string {
	if e, ok := s.entries[id]; ok && e.Name != "" {
		return e.Name
	}
	return id
}

// RarityOf returns the entity's rarity, RarityUnknown when absent.
func (s *Store) RarityOf(id string) Rarity {
	if e, ok := s.entries[id]; ok {
		return e.ParsedRarity()
	}
	return RarityUnknown
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// IDs returns all entity ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
