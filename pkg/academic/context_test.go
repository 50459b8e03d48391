package academic

import (
	"testing"
	"time"
)

func TestTermForIsTotal(t *testing.T) {
	expected := map[time.Month]Semester{
		time.January: Spring, time.February: Spring, time.March: Spring,
		time.April: Spring, time.May: Spring,
		time.June: Summer, time.July: Summer,
		time.August: Fall, time.September: Fall, time.October: Fall,
		time.November: Fall, time.December: Fall,
	}
	for m := time.January; m <= time.December; m++ {
		if got := TermFor(m); got != expected[m] {
			t.Errorf("TermFor(%s) = %s, want %s", m, got, expected[m])
		}
	}
}

func TestFallYear(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want int
		ok   bool
	}{
		{"fall single year", Context{Year: "2024", Semester: Fall}, 2024, true},
		{"spring shifts back", Context{Year: "2026", Semester: Spring}, 2025, true},
		{"summer shifts back", Context{Year: "2026", Semester: Summer}, 2025, true},
		{"unknown semester", Context{Year: "2024", Semester: Unknown}, 2024, true},
		{"academic year range", Context{Year: "2024-2025", Semester: Spring}, 2024, true},
		{"year embedded in prose", Context{Year: "Fall 2025", Semester: Fall}, 2025, true},
		{"no year at all", Context{Year: "unknown", Semester: Fall}, 0, false},
		{"implausible year", Context{Year: "0042", Semester: Fall}, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.ctx.FallYear()
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: FallYear() = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestYearFor(t *testing.T) {
	ctx := Context{Year: "2024-2025", Semester: Fall}

	fallMonths := []time.Month{time.August, time.September, time.October, time.November, time.December}
	for _, m := range fallMonths {
		if y, _ := ctx.YearFor(m); y != 2024 {
			t.Errorf("YearFor(%s) = %d, want 2024", m, y)
		}
	}
	springSummer := []time.Month{time.January, time.March, time.May, time.June, time.July}
	for _, m := range springSummer {
		if y, _ := ctx.YearFor(m); y != 2025 {
			t.Errorf("YearFor(%s) = %d, want 2025", m, y)
		}
	}
}

func TestResolveBareTerm(t *testing.T) {
	lateSummer := time.Date(2025, time.August, 24, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		anchor   time.Time
		semester Semester
		want     int
	}{
		// Anchored late August 2025: Fall is the current window,
		// Spring and Summer are next year's.
		{lateSummer, Fall, 2025},
		{lateSummer, Spring, 2026},
		{lateSummer, Summer, 2026},
		// Anchored in March: the Spring window contains the anchor and
		// Fall is still ahead in the same calendar year.
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), Spring, 2026},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), Fall, 2026},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), Summer, 2026},
		{time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), Summer, 2026},
		{time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), Spring, 2027},
	}
	for _, tt := range tests {
		if got := ResolveBareTerm(tt.anchor, tt.semester); got != tt.want {
			t.Errorf("ResolveBareTerm(%s, %s) = %d, want %d", tt.anchor.Format("2006-01-02"), tt.semester, got, tt.want)
		}
	}
}
