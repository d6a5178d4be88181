package count

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultCeiling is the sanity ceiling for stack counts. The game never
// stacks past double digits; a three-digit read is a recognition artifact.
const DefaultCeiling = 99

// badgePattern tolerates the overlay renderings seen in captures: "x12",
// "×12", "12", "12x" and stray whitespace.
var badgePattern = regexp.MustCompile(`^[xX×]?\s*([0-9]{1,4})\s*[xX×]?$`)

// Parse extracts a stack count from recognized badge text. Returns the
// count and true on success; implausible or unparseable text returns
// (0, false). A ceiling of 0 selects DefaultCeiling.
func Parse(text string, ceiling int) (int, bool) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	cleaned := strings.TrimSpace(text)
	cleaned = strings.Join(strings.Fields(cleaned), "")
	if cleaned == "" {
		return 0, false
	}

	m := badgePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if n < 1 || n > ceiling {
		return 0, false
	}
	return n, true
}
