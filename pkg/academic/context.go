package academic

import (
	"regexp"
	"strconv"
	"time"
)

type Semester string

const (
	Fall    Semester = "Fall"
	Spring  Semester = "Spring"
	Summer  Semester = "Summer"
	Unknown Semester = "Unknown"
)

type Confidence string

const (
	High   Confidence = "High"
	Medium Confidence = "Medium"
	Low    Confidence = "Low"
)

// Context is the academic-year determination for one document. It is
// produced once, never mutated, and consumed only by event extraction.
type Context struct {
	Year       string     `json:"academicYear"`
	Semester   Semester   `json:"semester"`
	Confidence Confidence `json:"confidence"`
	Evidence   string     `json:"evidence"`
}

var yearRe = regexp.MustCompile(`\d{4}`)

// FallYear returns the calendar year the academic year starts in. For a
// range like "2025-2026" that is the first year; for a single year it is
// shifted back for Spring/Summer contexts, whose calendar year is the
// second half of the academic year.
func (c Context) FallYear() (int, bool) {
	m := yearRe.FindString(c.Year)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil || y < 1900 || y > 2200 {
		return 0, false
	}

	if isRange(c.Year) {
		return y, true
	}
	switch c.Semester {
	case Spring, Summer:
		return y - 1, true
	default:
		return y, true
	}
}

func isRange(year string) bool {
	return len(yearRe.FindAllString(year, 2)) == 2
}

// TermFor maps a month to its semester. The mapping is total: every month
// belongs to exactly one term.
func TermFor(m time.Month) Semester {
	switch {
	case m >= time.August:
		return Fall
	case m <= time.May:
		return Spring
	default:
		return Summer
	}
}

// YearFor returns the calendar year an undated month mention belongs to
// under this context: August-December fall in the academic year's first
// calendar year, everything else in the second.
func (c Context) YearFor(m time.Month) (int, bool) {
	fall, ok := c.FallYear()
	if !ok {
		return 0, false
	}
	if TermFor(m) == Fall {
		return fall, true
	}
	return fall + 1, true
}

// ResolveBareTerm applies the anchor-date policy for a semester mention
// with no year evidence at all: the term resolves to the occurrence of its
// window that contains the anchor, or failing that the next one after it.
func ResolveBareTerm(anchor time.Time, s Semester) int {
	year := anchor.Year()
	month := anchor.Month()

	switch s {
	case Fall:
		// The Fall window (Aug-Dec) either contains the anchor or is
		// still ahead of it in the same calendar year.
		return year
	case Spring:
		if month <= time.May {
			return year
		}
		return year + 1
	case Summer:
		if month <= time.July {
			return year
		}
		return year + 1
	default:
		return year
	}
}
