// Package clock parses the loosely formatted wall-clock times and dates found
// in pilot logbooks.
package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout selects how a Clock is rendered.
type Layout int

const (
	// Colon renders zero-padded "HH:MM".
	Colon Layout = iota
	// Compact renders zero-padded "HHMM".
	Compact
)

const dateLayout = "02/01/2006"

var (
	ErrFormat = errors.New("clock: unrecognised format")
	ErrRange  = errors.New("clock: out of range")
)

// Clock is a time of day with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

// Parse accepts "HHMM", "HMM", "HH:MM", "H:MM" and ":MM". Minutes must always
// be two digits, so "7:5" is rejected.
func Parse(s string) (Clock, error) {
	s = strings.TrimSpace(s)

	var hh, mm string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hh, mm = s[:i], s[i+1:]
		if len(hh) > 2 || len(mm) != 2 {
			return Clock{}, fmt.Errorf("%w: %q", ErrFormat, s)
		}
	} else {
		if len(s) != 3 && len(s) != 4 {
			return Clock{}, fmt.Errorf("%w: %q", ErrFormat, s)
		}
		hh, mm = s[:len(s)-2], s[len(s)-2:]
	}

	h, err := digits(hh)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	m, err := digits(mm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	if h > 23 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrRange, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// digits parses an unsigned decimal; the empty string is zero.
func digits(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrFormat
		}
	}
	return strconv.Atoi(s)
}

// Of returns the wall-clock time of t in its own location.
func Of(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Compact renders c as "HHMM".
func (c Clock) Compact() string {
	return fmt.Sprintf("%02d%02d", c.Hour, c.Minute)
}

// Format renders c in the given layout.
func (c Clock) Format(l Layout) string {
	if l == Compact {
		return c.Compact()
	}
	return c.String()
}

// Duration returns the offset of c from midnight.
func (c Clock) Duration() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// Normalize re-renders s in the given layout, or returns s unchanged when it
// cannot be parsed.
func Normalize(s string, l Layout) string {
	c, err := Parse(s)
	if err != nil {
		return s
	}
	return c.Format(l)
}

// ParseDate parses "dd/MM/yyyy"; single-digit day and month are accepted.
// The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2/1/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("clock: parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as "dd/MM/yyyy" in its own location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// Combine parses a date and a time of day into a UTC instant.
func Combine(date, clk string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	c, err := Parse(clk)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(c.Duration()), nil
}
