// Package resolve assigns each slot its final match through up to three
// passes with progressively looser floors. Slot progress is an explicit
// state machine rather than loop-carried mutable sets, so every transition
// is inspectable and a slot can never be matched twice.
package resolve

import (
	"megabonk-scanner/internal/catalog"
	"megabonk-scanner/internal/match"
	"megabonk-scanner/internal/threshold"
)

// SlotState is a slot's position in the resolution state machine.
type SlotState int

const (
	StateUnclassified SlotState = iota
	StateEmpty
	StateMatchedPass1
	StateMatchedPass2
	StateMatchedPass3
	StateUnmatched
)

func (s SlotState) String() string {
	switch s {
	case StateUnclassified:
		return "unclassified"
	case StateEmpty:
		return "empty"
	case StateMatchedPass1:
		return "matched-pass1"
	case StateMatchedPass2:
		return "matched-pass2"
	case StateMatchedPass3:
		return "matched-pass3"
	case StateUnmatched:
		return "unmatched"
	default:
		return "invalid"
	}
}

// Matched reports whether the state is any of the matched states.
func (s SlotState) Matched() bool {
	return s == StateMatchedPass1 || s == StateMatchedPass2 || s == StateMatchedPass3
}

// Slot is one slot's resolution record. Sample and Candidates are nil for
// slots classified empty.
type Slot struct {
	Index      int
	State      SlotState
	Sample     *match.Sample
	Candidates []match.Candidate // sorted by descending score
	Winner     *match.Candidate  // set when State.Matched()
}

// pass describes one resolver pass declaratively.
type pass struct {
	state SlotState
	floor func(threshold.PassFloors) float64
	// corroborate gates acceptance with additional evidence; the loosest
	// pass must not admit a candidate on score alone.
	corroborate func(*match.Sample, match.Candidate) bool
}

var passes = []pass{
	{
		state: StateMatchedPass1,
		floor: func(f threshold.PassFloors) float64 { return f.Pass1 },
	},
	{
		state: StateMatchedPass2,
		floor: func(f threshold.PassFloors) float64 { return f.Pass2 },
	},
	{
		state: StateMatchedPass3,
		floor: func(f threshold.PassFloors) float64 { return f.Pass3 },
		corroborate: func(s *match.Sample, c match.Candidate) bool {
			return match.BorderAgreement(s, c.Template)
		},
	},
}

// Resolve walks every slot through the pass sequence. Each pass only
// touches slots still unclassified; slots that survive all passes become
// Unmatched and yield no detection (silent recall loss, not an error).
func Resolve(slots []*Slot, profile *threshold.Profile) {
	for _, p := range passes {
		remaining := false
		for _, slot := range slots {
			if slot.State != StateUnclassified {
				continue
			}
			if winner := acceptCandidate(slot, p, profile); winner != nil {
				slot.Winner = winner
				slot.State = p.state
			} else {
				remaining = true
			}
		}
		if !remaining {
			return
		}
	}

	for _, slot := range slots {
		if slot.State == StateUnclassified {
			slot.State = StateUnmatched
		}
	}
}

// acceptCandidate returns the first candidate (in score order) clearing the
// pass floor for its own rarity tier and the pass's corroboration gate.
func acceptCandidate(slot *Slot, p pass, profile *threshold.Profile) *match.Candidate {
	for i := range slot.Candidates {
		c := slot.Candidates[i]

		rarity := catalog.RarityUnknown
		if c.Template != nil {
			rarity = c.Template.Rarity
		}
		if c.Score < p.floor(profile.Floors(rarity)) {
			// Floors vary by rarity, so a lower-scored candidate from a
			// looser tier may still clear its own floor. Keep scanning.
			continue
		}
		if p.corroborate != nil && !p.corroborate(slot.Sample, c) {
			continue
		}
		return &slot.Candidates[i]
	}
	return nil
}
