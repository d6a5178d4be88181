package match

import (
	"errors"
	"fmt"
)

// ErrOpenCVUnavailable is returned when StrategyOpenCV is requested in a
// build without the gocv tag.
var ErrOpenCVUnavailable = errors.New("opencv strategy requires the gocv build tag")

// Strategy selects the similarity implementation. It is passed explicitly
// through every pipeline call; there is deliberately no process-wide
// default that concurrent scans could race on.
type Strategy int

const (
	// StrategyNCC is the pure-Go masked normalized cross-correlation.
	StrategyNCC Strategy = iota
	// StrategyOpenCV scores through OpenCV's TM_CCOEFF_NORMED. Requires
	// the gocv build tag; without it every comparison returns an error.
	StrategyOpenCV
)

func (s Strategy) String() string {
	switch s {
	case StrategyNCC:
		return "ncc"
	case StrategyOpenCV:
		return "opencv"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Validate reports whether the strategy can run in this build. Checked
// once per scan so a misconfigured strategy fails fast instead of erroring
// on every slot.
func (s Strategy) Validate() error {
	switch s {
	case StrategyNCC:
		return nil
	case StrategyOpenCV:
		return opencvAvailable()
	default:
		return fmt.Errorf("unknown match strategy %v", s)
	}
}

// ParseStrategy maps a CLI/config string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "ncc", "":
		return StrategyNCC, nil
	case "opencv":
		return StrategyOpenCV, nil
	default:
		return StrategyNCC, fmt.Errorf("unknown match strategy %q", s)
	}
}
