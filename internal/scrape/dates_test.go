package scrape

import (
	"testing"
	"time"
)

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"full month", "January 15, 2024", utcDate(2024, time.January, 15)},
		{"abbreviated month", "Jan 15, 2024", utcDate(2024, time.January, 15)},
		{"full month with period", "January. 15, 2024", utcDate(2024, time.January, 15)},
		{"abbreviated month with period", "Jan. 15, 2024", utcDate(2024, time.January, 15)},
		{"uppercase abbreviation with period", "AUG. 1, 2025", utcDate(2025, time.August, 1)},
		{"uppercase full month", "FEBRUARY 3, 2023", utcDate(2023, time.February, 3)},
		{"iso", "2024-01-15", utcDate(2024, time.January, 15)},
		{"slash numeric", "01/15/2024", utcDate(2024, time.January, 15)},
		{"eyebrow with trailing tags", "AUG. 1, 2025 / TAGS", utcDate(2025, time.August, 1)},
		{"surrounding whitespace", "  Mar 2, 2022  ", utcDate(2022, time.March, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) location = %v, want UTC", tt.raw, got.Location())
			}
		})
	}
}

func TestParseDateEyebrowEquivalence(t *testing.T) {
	a := ParseDate("AUG. 1, 2025 / TAGS")
	b := ParseDate("Aug 1, 2025")

	if !a.Equal(b) {
		t.Errorf("eyebrow form %v != plain form %v", a, b)
	}
}

func TestParseDateUnparseable(t *testing.T) {
	for _, raw := range []string{"", "not a date", "yesterday", "13/45/20", "///"} {
		before := time.Now().UTC()
		got := ParseDate(raw)
		after := time.Now().UTC()

		if got.Before(before.Add(-2*time.Second)) || got.After(after.Add(2*time.Second)) {
			t.Errorf("ParseDate(%q) = %v, want close to now", raw, got)
		}
	}
}
