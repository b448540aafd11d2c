package scrape

import (
	"strings"
	"time"
)

// Layouts seen on Google blog surfaces over the years, tried in order.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January. 2, 2006",
	"Jan. 2, 2006",
	"2006-01-02",
	"01/02/2006",
}

var monthNames = map[string]string{
	"JAN": "Jan", "FEB": "Feb", "MAR": "Mar", "APR": "Apr",
	"MAY": "May", "JUN": "Jun", "JUL": "Jul", "AUG": "Aug",
	"SEP": "Sep", "OCT": "Oct", "NOV": "Nov", "DEC": "Dec",
	"JANUARY": "January", "FEBRUARY": "February", "MARCH": "March",
	"APRIL": "April", "JUNE": "June", "JULY": "July",
	"AUGUST": "August", "SEPTEMBER": "September", "OCTOBER": "October",
	"NOVEMBER": "November", "DECEMBER": "December",
}

// ParseDate normalizes the site's human-readable date strings to a UTC
// timestamp. It never fails: anything unparseable comes back as now.
// Source strings carry no timezone, so UTC is assumed throughout.
func ParseDate(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Now().UTC()
	}

	// Eyebrow lines append metadata after a slash, e.g.
	// "AUG. 1, 2025 / TAGS". Keep only the date part.
	if strings.Contains(s, "/") && containsMonthAbbrev(s) {
		s = strings.TrimSpace(strings.SplitN(s, "/", 2)[0])
	}

	s = canonicalMonthCase(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	return time.Now().UTC()
}

func containsMonthAbbrev(s string) bool {
	upper := strings.ToUpper(s)
	for abbr := range monthNames {
		if len(abbr) == 3 && strings.Contains(upper, abbr) {
			return true
		}
	}

	return false
}

// canonicalMonthCase rewrites month tokens to the capitalization
// time.Parse expects ("AUG." and "august" both become "Aug"). Trailing
// periods on three-letter abbreviations are dropped to match the
// period-free layouts; full "Aug. 1" forms still hit the dotted layouts
// when the period survives a longer token.
func canonicalMonthCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		word := strings.TrimSuffix(f, ".")
		canon, ok := monthNames[strings.ToUpper(word)]
		if !ok {
			continue
		}

		if len(word) == 3 && strings.HasSuffix(f, ".") {
			fields[i] = canon
		} else {
			fields[i] = canon + strings.TrimPrefix(f, word)
		}
	}

	return strings.Join(fields, " ")
}
