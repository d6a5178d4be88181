package count

import (
	"context"
	"image"
	"strconv"
	"time"
)

// DefaultTimeout bounds one recognition call. A stuck recognizer costs one
// slot its count, never the whole response.
const DefaultTimeout = 2 * time.Second

// Extraction is the outcome of count extraction for one slot.
type Extraction struct {
	Count      int     // >= 1; 1 on any failure
	Confidence float64 // recognizer confidence, 0 on failure
	Warning    string  // soft warning describing a failure, empty on success
}

// Extract recognizes and parses the stack count from a badge sub-image.
// Every failure path degrades to count 1 with a warning; extraction can
// never invalidate the detection it annotates.
func Extract(ctx context.Context, rec Recognizer, badge image.Image, ceiling int, timeout time.Duration) Extraction {
	if rec == nil {
		return Extraction{Count: 1}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := rec.Recognize(callCtx, badge, BadgeChars)
		ch <- outcome{res, err}
	}()

	var res Result
	select {
	case <-callCtx.Done():
		return Extraction{Count: 1, Warning: "count recognition timed out"}
	case out := <-ch:
		if out.err != nil {
			return Extraction{Count: 1, Warning: "count recognition unavailable: " + out.err.Error()}
		}
		res = out.res
	}

	n, ok := Parse(res.Text, ceiling)
	if !ok {
		if res.Text == "" {
			// No badge text at all is the normal single-item case, not a
			// recognition failure.
			return Extraction{Count: 1, Confidence: res.Confidence}
		}
		return Extraction{Count: 1, Warning: "unparseable count text " + strconv.Quote(res.Text)}
	}
	return Extraction{Count: n, Confidence: res.Confidence}
}
