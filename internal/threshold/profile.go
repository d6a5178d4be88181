package threshold

import (
	"fmt"

	"megabonk-scanner/internal/catalog"
)

// PassFloors are the acceptance floors for the resolver's three passes,
// strict to loose.
type PassFloors struct {
	Pass1 float64 `json:"pass1"`
	Pass2 float64 `json:"pass2"`
	Pass3 float64 `json:"pass3"`
}

// Loosening describes how much each retry pass relaxes the pass-1 cutoff.
type Loosening struct {
	Pass2 float64 `json:"pass2"`
	Pass3 float64 `json:"pass3"`
}

// DefaultLoosening gives the retry passes meaningful room without letting
// pass 3 drift into pure noise; pass 3 additionally demands corroboration.
var DefaultLoosening = Loosening{Pass2: 0.05, Pass3: 0.10}

// Profile maps rarity tiers to pass floors for one run. Computed per run
// from the adaptive cutoffs, never persisted. Lookups for tiers without an
// entry resolve to the explicit fallback, so an unexpected rarity can never
// produce an undefined floor.
type Profile struct {
	floors   map[catalog.Rarity]PassFloors
	fallback PassFloors
}

// BuildProfile derives a run's profile from per-rarity cutoffs and the
// global cutoff. All floors are clamped to the band, or to a tier's
// override band where one exists.
func BuildProfile(cutoffs map[catalog.Rarity]float64, global float64, loosen Loosening, band Band, overrides map[catalog.Rarity]Band) *Profile {
	p := &Profile{
		floors:   make(map[catalog.Rarity]PassFloors, len(cutoffs)),
		fallback: floorsFor(global, loosen, band),
	}
	for rarity, cutoff := range cutoffs {
		tierBand := band
		if b, ok := overrides[rarity]; ok {
			tierBand = b
		}
		p.floors[rarity] = floorsFor(cutoff, loosen, tierBand)
	}
	return p
}

func floorsFor(cutoff float64, loosen Loosening, band Band) PassFloors {
	return PassFloors{
		Pass1: band.Clamp(cutoff),
		Pass2: band.Clamp(cutoff - loosen.Pass2),
		Pass3: band.Clamp(cutoff - loosen.Pass3),
	}
}

// Floors returns the pass floors for a rarity tier.
func (p *Profile) Floors(rarity catalog.Rarity) PassFloors {
	if f, ok := p.floors[rarity]; ok {
		return f
	}
	return p.fallback
}

// Fallback returns the floors used for tiers without their own entry.
func (p *Profile) Fallback() PassFloors {
	return p.fallback
}

// ParseRarityBands validates a string-keyed per-rarity band table (as it
// appears in config files) into a typed map. Unknown rarity tags are an
// error at load time rather than a silent lookup miss later.
func ParseRarityBands(raw map[string]Band) (map[catalog.Rarity]Band, error) {
	out := make(map[catalog.Rarity]Band, len(raw))
	for tag, band := range raw {
		rarity := catalog.ParseRarity(tag)
		if rarity == catalog.RarityUnknown {
			return nil, fmt.Errorf("unknown rarity tag %q in threshold config", tag)
		}
		if !band.Valid() {
			return nil, fmt.Errorf("invalid threshold band for rarity %q: [%v, %v]", tag, band.Min, band.Max)
		}
		out[rarity] = band
	}
	return out, nil
}
