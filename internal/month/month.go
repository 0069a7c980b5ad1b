// Package month provides calendar arithmetic on "YYYY-MM" tokens.
// Tokens are zero-padded, so lexicographic ordering matches calendar
// ordering and the database can range-filter on them directly.
package month

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidToken is returned when a token is not a well-formed "YYYY-MM".
var ErrInvalidToken = errors.New("invalid month token, expected YYYY-MM")

// Parse splits a token into its year and month components.
func Parse(token string) (year, mon int, err error) {
	t, err := time.Parse("2006-01", token)
	if err != nil || len(token) != 7 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return t.Year(), int(t.Month()), nil
}

// Valid reports whether token is a well-formed "YYYY-MM".
func Valid(token string) bool {
	_, _, err := Parse(token)
	return err == nil
}

// Offset returns the token n calendar months after token. n may be
// negative; year boundaries carry and borrow.
func Offset(token string, n int) (string, error) {
	year, mon, err := Parse(token)
	if err != nil {
		return "", err
	}
	mon += n
	for mon > 12 {
		mon -= 12
		year++
	}
	for mon < 1 {
		mon += 12
		year--
	}
	return fmt.Sprintf("%04d-%02d", year, mon), nil
}

// Between returns the signed number of calendar months from a to b.
func Between(a, b string) (int, error) {
	ay, am, err := Parse(a)
	if err != nil {
		return 0, err
	}
	by, bm, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return (by-ay)*12 + (bm - am), nil
}

// Compare orders two tokens. Both tokens must already be valid; for
// valid tokens the zero-padded string ordering is the calendar ordering.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}

// Range returns the inclusive [start, end] instants covered by the
// token's month: midnight on the 1st through the last nanosecond of the
// last day, in UTC.
func Range(token string) (start, end time.Time, err error) {
	year, mon, err := Parse(token)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(year, time.Month(mon), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// FromTime returns the token for the month containing t.
func FromTime(t time.Time) string {
	return t.Format("2006-01")
}

// Current returns the token for the current calendar month.
func Current() string {
	return FromTime(time.Now())
}
