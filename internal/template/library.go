package template

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/imaging"
)

// Library is the immutable template cache. The initialization contract:
// Load (or NewFromTemplates) must complete before the first matching call;
// afterwards the library only serves reads. There is no eviction within a
// session; Invalidate followed by a fresh Load is the only reload path.
type Library struct {
	mu        sync.RWMutex
	templates []*ReferenceTemplate
	byID      map[string]*ReferenceTemplate
	loaded    bool
	sourceDir string
}

// LoadDirectory loads every PNG/WebP template under dir. File names encode
// entity id and optional source variant: "<id>.png" (wiki art) or
// "<id>@capture.png" (captured gameplay crop; preferred when both exist).
// Display name and rarity come from the catalog. Individual load failures
// exclude that entity from the session and are logged, not fatal.
func LoadDirectory(dir string, cat *catalog.Store) (*Library, error) {
	var files []string
	for _, pattern := range []string{"*.png", "*.webp"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("cannot list templates in %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("no template images in %s", dir)
	}

	lib := &Library{byID: make(map[string]*ReferenceTemplate), sourceDir: dir}
	failed := 0
	captures := 0

	for _, file := range files {
		id, variant := parseTemplateName(file)
		if id == "" {
			continue
		}

		img, err := imaging.LoadFile(file)
		if err != nil {
			log.Printf("[Templates] skipping %s: %v", filepath.Base(file), err)
			failed++
			continue
		}

		name := id
		rarity := catalog.RarityUnknown
		if cat != nil {
			name = cat.DisplayName(id)
			rarity = cat.RarityOf(id)
		}

		t, err := New(id, name, rarity, variant, img)
		if err != nil {
			log.Printf("[Templates] skipping %s: %v", filepath.Base(file), err)
			failed++
			continue
		}

		// Capture variants supersede wiki art for the same entity.
		if existing, ok := lib.byID[id]; ok {
			if existing.Variant == VariantCapture && t.Variant != VariantCapture {
				continue
			}
		}
		lib.byID[id] = t
		if t.Variant == VariantCapture {
			captures++
		}
	}

	if len(lib.byID) == 0 {
		return nil, fmt.Errorf("all %d templates in %s failed to load", len(files), dir)
	}

	for _, t := range lib.byID {
		lib.templates = append(lib.templates, t)
	}
	sort.Slice(lib.templates, func(i, j int) bool {
		return lib.templates[i].EntityID < lib.templates[j].EntityID
	})
	lib.loaded = true

	log.Printf("[Templates] loaded %d templates from %s (%d failed)", len(lib.templates), dir, failed)
	if captures == 0 {
		// Wiki art typically tops out around 25-30%% similarity against real
		// captures. Matching still runs, but expect weak scores until the
		// library is rebuilt from gameplay crops.
		log.Printf("[Templates] no capture-sourced templates present; similarity scores will be degraded")
	}
	return lib, nil
}

// NewFromTemplates builds a loaded library from pre-built templates.
// Used by tests and by tools that synthesize reference sets.
func NewFromTemplates(templates []*ReferenceTemplate) *Library {
	lib := &Library{byID: make(map[string]*ReferenceTemplate, len(templates))}
	for _, t := range templates {
		if t == nil || t.EntityID == "" {
			continue
		}
		lib.byID[t.EntityID] = t
	}
	for _, t := range lib.byID {
		lib.templates = append(lib.templates, t)
	}
	sort.Slice(lib.templates, func(i, j int) bool {
		return lib.templates[i].EntityID < lib.templates[j].EntityID
	})
	lib.loaded = true
	return lib
}

// parseTemplateName splits "<id>[@variant].<ext>" into id and variant.
func parseTemplateName(path string) (id, variant string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if at := strings.LastIndex(base, "@"); at >= 0 {
		return base[:at], base[at+1:]
	}
	return base, VariantWiki
}

// Templates returns the full candidate set, sorted by entity id. The
// returned slice and its templates must be treated as read-only.
func (l *Library) Templates() []*ReferenceTemplate {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil
	}
	return l.templates
}

// Get returns the template for an entity id.
func (l *Library) Get(entityID string) (*ReferenceTemplate, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.byID[entityID]
	return t, ok
}

// Len returns the number of loaded templates.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// Loaded reports whether the library finished initialization.
func (l *Library) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Invalidate drops the template set. The library must not be used for
// matching again until a fresh Load replaces it; this is the only supported
// reload path (no partial template set is ever served).
func (l *Library) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates = nil
	l.byID = make(map[string]*ReferenceTemplate)
	l.loaded = false
}
