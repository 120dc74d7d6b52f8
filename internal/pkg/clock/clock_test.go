package clock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/samirrijal/skylog/internal/pkg/clock"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		colon   string
		compact string
	}{
		{"930", "09:30", "0930"},
		{"1130", "11:30", "1130"},
		{":05", "00:05", "0005"},
		{"9:30", "09:30", "0930"},
		{"09:30", "09:30", "0930"},
		{"0000", "00:00", "0000"},
		{"2359", "23:59", "2359"},
		{" 1405 ", "14:05", "1405"},
		// Rejected inputs come back untouched.
		{"7:5", "7:5", "7:5"},
		{"2400", "2400", "2400"},
		{"1260", "1260", "1260"},
		{"12", "12", "12"},
		{"12345", "12345", "12345"},
		{"ab:cd", "ab:cd", "ab:cd"},
		{"-1:30", "-1:30", "-1:30"},
		{"", "", ""},
	}
	for _, tc := range tests {
		if got := clock.Normalize(tc.in, clock.Colon); got != tc.colon {
			t.Errorf("Normalize(%q, Colon) = %q, want %q", tc.in, got, tc.colon)
		}
		if got := clock.Normalize(tc.in, clock.Compact); got != tc.compact {
			t.Errorf("Normalize(%q, Compact) = %q, want %q", tc.in, got, tc.compact)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := clock.Parse("7:5"); !errors.Is(err, clock.ErrFormat) {
		t.Errorf("7:5: got %v, want ErrFormat", err)
	}
	if _, err := clock.Parse("25:00"); !errors.Is(err, clock.ErrRange) {
		t.Errorf("25:00: got %v, want ErrRange", err)
	}
}

func TestParse(t *testing.T) {
	c, err := clock.Parse("0615")
	if err != nil {
		t.Fatal(err)
	}
	if c.Hour != 6 || c.Minute != 15 {
		t.Errorf("got %+v", c)
	}
	if c.Duration() != 6*time.Hour+15*time.Minute {
		t.Errorf("duration %v", c.Duration())
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"15/07/2025", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), true},
		{"1/2/2025", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"29/02/2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"29/02/2025", time.Time{}, false},
		{"2025-07-15", time.Time{}, false},
		{"32/01/2025", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range tests {
		got, err := clock.ParseDate(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseDate(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := clock.FormatDate(time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC)); got != "05/01/2025" {
		t.Errorf("got %q", got)
	}
}

func TestCombine(t *testing.T) {
	got, err := clock.Combine("01/01/2025", "0600")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := clock.Combine("01/13/2025", "0600"); err == nil {
		t.Error("expected date error")
	}
	if _, err := clock.Combine("01/01/2025", "6"); err == nil {
		t.Error("expected time error")
	}
}

func TestOf(t *testing.T) {
	at := time.Date(2025, 7, 15, 13, 7, 42, 0, time.FixedZone("BST", 3600))
	if got := clock.Of(at).Compact(); got != "1307" {
		t.Errorf("got %q", got)
	}
}
