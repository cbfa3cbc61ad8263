package domain

import (
	"fmt"
	"strings"
	"time"
)

// birthDayLayouts lists the accepted birth date formats. The quote API sends
// day-month-year; ISO dates are accepted for fixtures and older payloads.
var birthDayLayouts = []string{"02-01-2006", "2006-01-02"}

// ParseBirthDay parses a birth date string in DD-MM-YYYY or YYYY-MM-DD form.
func ParseBirthDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised birth date %q", s)
}

// AgeAt returns the age in whole years of a person born on birthDate at the
// reference time now. Uses calendar arithmetic (AddDate) so the birthday itself
// counts as the day the age increments.
//
// Example:
//
//	birthDate := time.Date(1960, 3, 10, 0, 0, 0, 0, time.UTC)
//	now := time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)
//	AgeAt(birthDate, now) // returns 60
func AgeAt(birthDate, now time.Time) int {
	b := birthDate.UTC()
	n := now.UTC()
	age := n.Year() - b.Year()
	if n.Before(b.AddDate(age, 0, 0)) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
