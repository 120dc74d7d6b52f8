package dst

import "time"

// Window holds the two DST boundary instants for a calendar year. For
// northern rules DST runs from Start to End. For southern rules DST runs
// from Start to the end of the year and from the start of the year to End.
type Window struct {
	Start time.Time
	End   time.Time
}

// Rule is the per-region DST strategy.
type Rule interface {
	Window(year int) Window
	Active(t time.Time) bool
}

type boundary func(year int) time.Time

func lastSunday(month time.Month) boundary {
	return func(year int) time.Time {
		return LastWeekdayOfMonth(year, month, time.Sunday)
	}
}

func nthSunday(month time.Month, n int) boundary {
	return func(year int) time.Time {
		return NthWeekdayOfMonth(year, month, time.Sunday, n)
	}
}

// northern rules are active on [start, end) within one calendar year.
type northern struct {
	start, end boundary
}

func (n northern) Window(year int) Window {
	return Window{Start: n.start(year), End: n.end(year)}
}

func (n northern) Active(t time.Time) bool {
	t = t.UTC()
	w := n.Window(t.Year())
	return !t.Before(w.Start) && t.Before(w.End)
}

// southern rules wrap the new year. The instant's month picks which boundary
// applies and both boundaries come from the instant's own year.
type southern struct {
	start, end           boundary
	startMonth, endMonth time.Month
}

func (s southern) Window(year int) Window {
	return Window{Start: s.start(year), End: s.end(year)}
}

func (s southern) Active(t time.Time) bool {
	t = t.UTC()
	w := s.Window(t.Year())
	switch month := t.Month(); {
	case month >= s.startMonth:
		return !t.Before(w.Start)
	case month <= s.endMonth:
		return t.Before(w.End)
	}
	return false
}

type never struct{}

func (never) Window(int) Window     { return Window{} }
func (never) Active(time.Time) bool { return false }

var rules = map[Region]Rule{
	Europe: northern{
		start: lastSunday(time.March),
		end:   lastSunday(time.October),
	},
	USCanada: northern{
		start: nthSunday(time.March, 2),
		end:   nthSunday(time.November, 1),
	},
	SouthAmerica: southern{
		start:      nthSunday(time.October, 3),
		end:        nthSunday(time.March, 3),
		startMonth: time.October,
		endMonth:   time.March,
	},
	Australia: southern{
		start:      nthSunday(time.October, 1),
		end:        nthSunday(time.April, 1),
		startMonth: time.October,
		endMonth:   time.April,
	},
	NewZealand: southern{
		start:      lastSunday(time.September),
		end:        nthSunday(time.April, 1),
		startMonth: time.September,
		endMonth:   time.April,
	},
}
