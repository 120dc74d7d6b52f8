package dst_test

import (
	"testing"
	"time"

	"github.com/samirrijal/skylog/internal/pkg/dst"
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestCalendarPrimitives(t *testing.T) {
	tests := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{"last sunday march 2025", dst.LastWeekdayOfMonth(2025, time.March, time.Sunday), utc(2025, time.March, 30, 0, 0)},
		{"last sunday october 2025", dst.LastWeekdayOfMonth(2025, time.October, time.Sunday), utc(2025, time.October, 26, 0, 0)},
		{"last sunday september 2025", dst.LastWeekdayOfMonth(2025, time.September, time.Sunday), utc(2025, time.September, 28, 0, 0)},
		{"last sunday december 2024", dst.LastWeekdayOfMonth(2024, time.December, time.Sunday), utc(2024, time.December, 29, 0, 0)},
		{"last saturday february leap", dst.LastWeekdayOfMonth(2024, time.February, time.Saturday), utc(2024, time.February, 24, 0, 0)},
		{"2nd sunday march 2025", dst.NthWeekdayOfMonth(2025, time.March, time.Sunday, 2), utc(2025, time.March, 9, 0, 0)},
		{"1st sunday november 2025", dst.NthWeekdayOfMonth(2025, time.November, time.Sunday, 1), utc(2025, time.November, 2, 0, 0)},
		{"1st sunday october 2025", dst.NthWeekdayOfMonth(2025, time.October, time.Sunday, 1), utc(2025, time.October, 5, 0, 0)},
		{"1st sunday april 2025", dst.NthWeekdayOfMonth(2025, time.April, time.Sunday, 1), utc(2025, time.April, 6, 0, 0)},
		{"3rd sunday october 2025", dst.NthWeekdayOfMonth(2025, time.October, time.Sunday, 3), utc(2025, time.October, 19, 0, 0)},
		{"3rd sunday march 2025", dst.NthWeekdayOfMonth(2025, time.March, time.Sunday, 3), utc(2025, time.March, 16, 0, 0)},
		{"1st sunday when month starts on sunday", dst.NthWeekdayOfMonth(2026, time.March, time.Sunday, 1), utc(2026, time.March, 1, 0, 0)},
	}
	for _, tc := range tests {
		if !tc.got.Equal(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
		if tc.got.Location() != time.UTC {
			t.Errorf("%s: expected UTC location", tc.name)
		}
	}
}

func TestIsActive_Northern(t *testing.T) {
	for _, year := range []int{2023, 2024, 2025, 2030} {
		if !dst.IsActive(utc(year, time.July, 15, 12, 0), dst.Europe) {
			t.Errorf("%d: expected Europe DST active in July", year)
		}
		if dst.IsActive(utc(year, time.January, 15, 12, 0), dst.Europe) {
			t.Errorf("%d: expected Europe DST inactive in January", year)
		}
		if !dst.IsActive(utc(year, time.July, 4, 0, 0), dst.USCanada) {
			t.Errorf("%d: expected US DST active in July", year)
		}
		if dst.IsActive(utc(year, time.December, 25, 0, 0), dst.USCanada) {
			t.Errorf("%d: expected US DST inactive in December", year)
		}
	}
}

func TestIsActive_NorthernBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		at     time.Time
		region dst.Region
		want   bool
	}{
		{"europe just before start", utc(2025, time.March, 29, 23, 59), dst.Europe, false},
		{"europe at start", utc(2025, time.March, 30, 0, 0), dst.Europe, true},
		{"europe just before end", utc(2025, time.October, 25, 23, 59), dst.Europe, true},
		{"europe at end", utc(2025, time.October, 26, 0, 0), dst.Europe, false},
		{"us before start", utc(2025, time.March, 8, 12, 0), dst.USCanada, false},
		{"us at start", utc(2025, time.March, 9, 0, 0), dst.USCanada, true},
		{"us before end", utc(2025, time.November, 1, 23, 0), dst.USCanada, true},
		{"us at end", utc(2025, time.November, 2, 0, 0), dst.USCanada, false},
	}
	for _, tc := range tests {
		if got := dst.IsActive(tc.at, tc.region); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsActive_SouthernWraparound(t *testing.T) {
	for _, year := range []int{2024, 2025, 2026} {
		if !dst.IsActive(utc(year, time.November, 15, 0, 0), dst.Australia) {
			t.Errorf("%d: expected Australia DST active on 15 Nov", year)
		}
		if dst.IsActive(utc(year, time.June, 15, 0, 0), dst.Australia) {
			t.Errorf("%d: expected Australia DST inactive on 15 Jun", year)
		}
		if !dst.IsActive(utc(year, time.February, 15, 0, 0), dst.Australia) {
			t.Errorf("%d: expected Australia DST active on 15 Feb", year)
		}
	}
}

func TestIsActive_SouthernBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		at     time.Time
		region dst.Region
		want   bool
	}{
		// Both sides of the new year use the instant's own year.
		{"australia dec 31", utc(2025, time.December, 31, 23, 59), dst.Australia, true},
		{"australia jan 1", utc(2026, time.January, 1, 0, 0), dst.Australia, true},
		{"new zealand dec 31", utc(2025, time.December, 31, 23, 59), dst.NewZealand, true},
		{"new zealand jan 1", utc(2026, time.January, 1, 0, 0), dst.NewZealand, true},
		{"south america dec 31", utc(2025, time.December, 31, 23, 59), dst.SouthAmerica, true},
		{"south america jan 1", utc(2026, time.January, 1, 0, 0), dst.SouthAmerica, true},

		{"australia before start", utc(2025, time.October, 4, 23, 59), dst.Australia, false},
		{"australia at start", utc(2025, time.October, 5, 0, 0), dst.Australia, true},
		{"australia before end", utc(2025, time.April, 5, 23, 59), dst.Australia, true},
		{"australia at end", utc(2025, time.April, 6, 0, 0), dst.Australia, false},
		{"australia early october", utc(2025, time.October, 1, 0, 0), dst.Australia, false},

		{"new zealand late september", utc(2025, time.September, 28, 1, 0), dst.NewZealand, true},
		{"new zealand mid september", utc(2025, time.September, 15, 0, 0), dst.NewZealand, false},
		{"new zealand april end", utc(2025, time.April, 6, 0, 0), dst.NewZealand, false},
		{"new zealand winter", utc(2025, time.July, 1, 0, 0), dst.NewZealand, false},

		{"south america at start", utc(2025, time.October, 19, 0, 0), dst.SouthAmerica, true},
		{"south america before start", utc(2025, time.October, 18, 12, 0), dst.SouthAmerica, false},
		{"south america before end", utc(2025, time.March, 15, 23, 0), dst.SouthAmerica, true},
		{"south america at end", utc(2025, time.March, 16, 0, 0), dst.SouthAmerica, false},
		{"south america april", utc(2025, time.April, 2, 0, 0), dst.SouthAmerica, false},
	}
	for _, tc := range tests {
		if got := dst.IsActive(tc.at, tc.region); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsActive_NeverRegions(t *testing.T) {
	start := utc(2025, time.January, 1, 0, 0)
	for d := 0; d < 366; d += 7 {
		at := start.AddDate(0, 0, d)
		for _, r := range []dst.Region{dst.None, dst.Unknown, dst.Region(42)} {
			if dst.IsActive(at, r) {
				t.Errorf("%v: unexpected DST at %v", r, at)
			}
		}
	}
}

func TestIsActive_NonUTCInput(t *testing.T) {
	// 30 March 2025 00:30 in UTC+2 is 29 March 22:30 UTC, before the boundary.
	loc := time.FixedZone("plus2", 2*3600)
	at := time.Date(2025, time.March, 30, 0, 30, 0, 0, loc)
	if dst.IsActive(at, dst.Europe) {
		t.Error("expected evaluation on the UTC instant")
	}
}

func TestOffset(t *testing.T) {
	if got := dst.Offset(utc(2025, time.July, 15, 12, 0), 0, dst.Europe); got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
	if got := dst.Offset(utc(2025, time.January, 15, 12, 0), 0, dst.Europe); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := dst.Offset(utc(2025, time.January, 15, 12, 0), 9.5, dst.Australia); got != 10.5 {
		t.Errorf("expected 10.5, got %v", got)
	}
	if got := dst.Offset(utc(2025, time.July, 15, 12, 0), 5.5, dst.None); got != 5.5 {
		t.Errorf("expected 5.5, got %v", got)
	}
}

func TestWindow(t *testing.T) {
	w := dst.Australia.Rule().Window(2025)
	if !w.Start.Equal(utc(2025, time.October, 5, 0, 0)) {
		t.Errorf("unexpected start %v", w.Start)
	}
	if !w.End.Equal(utc(2025, time.April, 6, 0, 0)) {
		t.Errorf("unexpected end %v", w.End)
	}
	if w := dst.None.Rule().Window(2025); !w.Start.IsZero() || !w.End.IsZero() {
		t.Errorf("expected empty window, got %+v", w)
	}
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in   string
		want dst.Region
	}{
		{"E", dst.Europe},
		{"a", dst.USCanada},
		{"S", dst.SouthAmerica},
		{"O", dst.Australia},
		{"Z", dst.NewZealand},
		{"N", dst.None},
		{"U", dst.Unknown},
		{"europe", dst.Europe},
		{"New_Zealand", dst.NewZealand},
		{" us_canada ", dst.USCanada},
		{"", dst.Unknown},
		{"X", dst.Unknown},
		{`\N`, dst.Unknown},
	}
	for _, tc := range tests {
		if got := dst.ParseRegion(tc.in); got != tc.want {
			t.Errorf("ParseRegion(%q): got %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRegionText(t *testing.T) {
	for r := dst.None; r <= dst.NewZealand; r++ {
		b, err := r.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", r, err)
		}
		var back dst.Region
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshal %q: %v", b, err)
		}
		if back != r {
			t.Errorf("got %v, want %v", back, r)
		}
		if dst.ParseRegion(r.Code()) != r {
			t.Errorf("code %q does not parse back to %v", r.Code(), r)
		}
	}
	if got := dst.Region(99).String(); got != "unknown" {
		t.Errorf("expected unknown, got %s", got)
	}
}
