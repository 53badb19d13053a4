package core

import (
	"strconv"
	"strings"
)

// Month is the two-digit month filter matched against strftime('%m', dateOfSale).
// A Month that is not "01".."12" is still a valid filter: it simply matches no rows.
type Month string

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// ParseMonth normalizes user input to the two-digit form.
// Accepted: "1".."12", "01".."12", English month names and their
// three-letter abbreviations, case-insensitive. Anything else is returned
// trimmed and unchanged so the query yields empty results instead of an error.
func ParseMonth(s string) Month {
	v := strings.TrimSpace(s)
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 12 {
			return MonthFromNumber(n)
		}
		return Month(v)
	}
	lower := strings.ToLower(v)
	for i, name := range monthNames {
		if lower == name || (len(lower) == 3 && strings.HasPrefix(name, lower)) {
			return MonthFromNumber(i + 1)
		}
	}
	return Month(v)
}

// MonthFromNumber formats n (1-12) as a two-digit month.
func MonthFromNumber(n int) Month {
	if n < 10 {
		return Month("0" + strconv.Itoa(n))
	}
	return Month(strconv.Itoa(n))
}

// Valid reports whether m names a calendar month.
func (m Month) Valid() bool {
	if len(m) != 2 {
		return false
	}
	n, err := strconv.Atoi(string(m))
	return err == nil && n >= 1 && n <= 12
}

func (m Month) String() string {
	return string(m)
}
