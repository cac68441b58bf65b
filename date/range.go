package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Range represents a range of dates, boundaries included.
//
// A zero From means "since the beginning" and a zero To means "until the end".
type Range struct{ From, To Date }

// AllTime is the unbounded range.
var AllTime = Range{}

// NewRange returns the standard period range containing d.
func NewRange(d Date, period Period) Range {
	return period.Range(d)
}

// Year returns the calendar year y.
func Year(y int) Range {
	return Range{From: New(y, time.January, 1), To: New(y, time.December, 31)}
}

// IsAllTime reports whether r has no bounds.
func (r Range) IsAllTime() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool {
	if !r.From.IsZero() && date.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && date.After(r.To) {
		return false
	}
	return true
}

// ContainsTime reports whether the calendar day of t is in r.
func (r Range) ContainsTime(t time.Time) bool { return r.Contains(Of(t)) }

// Name the range for display.
func (r Range) Name() string {
	switch {
	case r.IsAllTime():
		return "all time"
	case r == Year(r.From.Year()):
		return strconv.Itoa(r.From.Year())
	case r.From.IsZero():
		return "until " + r.To.String()
	case r.To.IsZero():
		return "since " + r.From.String()
	default:
		return fmt.Sprintf("%s to %s", r.From, r.To)
	}
}

// String implements fmt.Stringer.
func (r Range) String() string { return r.Name() }

// ParseRange parses a fiscal period.
//
// Supported forms are:
//   - "all", or empty,
//   - a year "2024", a quarter "2024-Q3", a month "2024-07" or a day "2024-07-15",
//   - "day", "month", "quarter" or "year" for the one containing today,
//   - an explicit "2024-01-01..2024-06-30" where either side may be empty.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "all":
		return AllTime, nil
	case len(s) == 4:
		y, err := strconv.Atoi(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid year %q: %w", s, err)
		}
		return Year(y), nil
	case strings.Contains(s, ".."):
		return parseBounds(s)
	}

	if y, q, ok := strings.Cut(s, "-q"); ok {
		year, err := strconv.Atoi(y)
		if err != nil {
			return Range{}, fmt.Errorf("invalid quarter %q: %w", s, err)
		}
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 4 {
			return Range{}, fmt.Errorf("invalid quarter %q", s)
		}
		return NewRange(New(year, time.Month(3*n-2), 1), Quarterly), nil
	}
	if len(s) == 7 {
		d, err := Parse(s + "-01")
		if err != nil {
			return Range{}, fmt.Errorf("invalid month %q: %w", s, err)
		}
		return NewRange(d, Monthly), nil
	}
	if d, err := Parse(s); err == nil {
		return NewRange(d, Daily), nil
	}
	p, err := ParsePeriod(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q, want \"all\", a year, a quarter, a month, a day, a period name or \"from..to\"", s)
	}
	return NewRange(Today(), p), nil
}

// parseBounds parses "from..to".
func parseBounds(s string) (Range, error) {
	from, to, _ := strings.Cut(s, "..")
	var r Range
	var err error
	if from != "" {
		if r.From, err = Parse(from); err != nil {
			return Range{}, err
		}
	}
	if to != "" {
		if r.To, err = Parse(to); err != nil {
			return Range{}, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		r.From, r.To = r.To, r.From
	}
	return r, nil
}
