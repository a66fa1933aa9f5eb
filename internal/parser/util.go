package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseAmount converts a printed amount like "1,234.56", "$1,234.56" or
// "- 20.00" to a float64. Empty or unparseable input yields 0.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// lastFour returns the last four characters of an account or card number.
func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

// adjustDate combines a printed MM/DD date with a year inferred from the
// reference date: statements are processed shortly after they close, so a
// December posting seen early in the new year belongs to the prior year,
// while every other month belongs to the reference year.
func adjustDate(mmdd string, ref time.Time) (time.Time, error) {
	parts := strings.Split(mmdd, "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed transaction date %q", mmdd)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("malformed transaction month %q", mmdd)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("malformed transaction day %q", mmdd)
	}

	year := ref.Year()
	if month == 12 {
		year--
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
