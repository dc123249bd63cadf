// Package dates turns the heterogeneous date fragments found on listing pages
// into calendar dates.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format names the encoding a candidate fragment is expected to use.
type Format int

const (
	// FormatDayYearMonth is a "DD" fragment paired with a "YYYY.MM" fragment.
	FormatDayYearMonth Format = iota + 1
	// FormatHyphenated is "YYYY-MM-DD".
	FormatHyphenated
	// FormatPathDate is a URL path containing /YYYY/MMDD/.
	FormatPathDate
	// FormatToday always resolves to the current date.
	FormatToday
)

var pathDateExpr = regexp.MustCompile(`/(\d{4})/(\d{2})(\d{2})/`)

// Candidate is one raw date source tried by Resolve.
type Candidate struct {
	Format    Format
	Fragments []string
}

// DayYearMonth builds a candidate from separate day and "YYYY.MM" fragments.
func DayYearMonth(day, yearMonth string) Candidate {
	return Candidate{Format: FormatDayYearMonth, Fragments: []string{day, yearMonth}}
}

// Hyphenated builds a candidate for "YYYY-MM-DD" text.
func Hyphenated(text string) Candidate {
	return Candidate{Format: FormatHyphenated, Fragments: []string{text}}
}

// PathDate builds a candidate that looks for /YYYY/MMDD/ inside a link.
func PathDate(link string) Candidate {
	return Candidate{Format: FormatPathDate, Fragments: []string{link}}
}

// Today builds the last-resort candidate.
func Today() Candidate {
	return Candidate{Format: FormatToday}
}

// Resolve tries candidates in order and returns the first date that parses.
// Parse failures are never reported; ok is false only when every candidate failed.
func Resolve(now time.Time, candidates ...Candidate) (time.Time, bool) {
	for _, c := range candidates {
		if d, ok := c.parse(now); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// Day truncates t to its calendar date in t's location, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c Candidate) parse(now time.Time) (time.Time, bool) {
	switch c.Format {
	case FormatDayYearMonth:
		if len(c.Fragments) != 2 {
			return time.Time{}, false
		}
		parts := strings.Split(strings.TrimSpace(c.Fragments[1]), ".")
		if len(parts) != 2 {
			return time.Time{}, false
		}
		return build(parts[0], parts[1], c.Fragments[0])
	case FormatHyphenated:
		if len(c.Fragments) != 1 {
			return time.Time{}, false
		}
		parts := strings.Split(strings.TrimSpace(c.Fragments[0]), "-")
		if len(parts) != 3 {
			return time.Time{}, false
		}
		return build(parts[0], parts[1], parts[2])
	case FormatPathDate:
		if len(c.Fragments) != 1 {
			return time.Time{}, false
		}
		m := pathDateExpr.FindStringSubmatch(c.Fragments[0])
		if m == nil {
			return time.Time{}, false
		}
		return build(m[1], m[2], m[3])
	case FormatToday:
		return Day(now), true
	default:
		return time.Time{}, false
	}
}

func build(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil || d < 1 {
		return time.Time{}, false
	}

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, false
	}
	return t, true
}
