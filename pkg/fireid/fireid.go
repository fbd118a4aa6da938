// Package fireid synthesizes stable identifiers for merged perimeters that
// did not inherit one from a source. The format follows the MTBS event-code
// construction: CO + centroid latitude + centroid longitude + YYYYMMDD,
// always 21 characters.
package fireid

import (
	"fmt"
	"strconv"
	"strings"
)

// Length is the fixed length of every synthesized identifier.
const Length = 21

// Synthesizer builds canonical fire identifiers. The zero value is ready to
// use. When a start month or day is unknown, a two-digit placeholder from a
// counter shared across the whole synthesis pass keeps the identifier at
// fixed length; the placeholder is explicitly not a uniqueness guarantee.
// A Synthesizer is single-run state and is not safe for concurrent use.
type Synthesizer struct {
	noDateCounter int
}

// New creates a Synthesizer with its placeholder counter at zero.
func New() *Synthesizer {
	return &Synthesizer{}
}

// FireID builds the identifier for a perimeter from its merged-geometry
// centroid and start date. Unknown months and days consume placeholder
// values from the shared counter.
func (s *Synthesizer) FireID(lat, lon float64, year int, month, day *int) string {
	latDigits := stripPoint(strconv.FormatFloat(lat, 'f', -1, 64))
	lonDigits := stripPoint(strconv.FormatFloat(abs(lon), 'f', -1, 64))

	return fmt.Sprintf("CO%s%s%04d%s%s",
		firstN(latDigits, 6),
		firstN(lonDigits, 5),
		year,
		s.twoDigit(month),
		s.twoDigit(day),
	)
}

// twoDigit renders a known value zero-padded, or the next placeholder.
func (s *Synthesizer) twoDigit(v *int) string {
	if v == nil {
		placeholder := s.noDateCounter % 100
		s.noDateCounter++
		return fmt.Sprintf("%02d", placeholder)
	}
	return fmt.Sprintf("%02d", *v)
}

// stripPoint drops the decimal point from a formatted coordinate.
func stripPoint(s string) string {
	return strings.ReplaceAll(s, ".", "")
}

// firstN takes the first n characters, right-padding with zeros so the
// identifier keeps its fixed length even for short coordinate strings.
func firstN(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat("0", n-len(s))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
