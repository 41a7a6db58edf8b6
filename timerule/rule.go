// timerule/rule.go

// Package timerule implements the compact time-window expression language
// used by access profiles. An expression has four dot-separated fields,
// YEAR.MONTHS.DAYS.TIMERANGES, each independently a wildcard, an inclusion
// list/range, or an EXCEPT-qualified exclusion.
//
// Examples:
//
//	*.*.Monday-Friday.8:00-12:00
//	2026.EXCEPT June,July,August.EXCEPT Sunday.ALL
//	*.Jan,Feb.1,15.9:00-11:00,14:00-17:00
package timerule

import "time"

// Rule is a parsed, immutable time-window expression.
type Rule struct {
	raw    string
	year   yearField
	months setField
	days   dayField
	times  timeField
}

type yearField struct {
	any  bool
	year int
}

// setField holds an inclusion or exclusion set of small integers
// (months 1..12, weekdays 1..7).
type setField struct {
	any    bool
	except bool
	values map[int]bool
}

// dayField is a setField with a sub-mode: weekday (Monday=1 .. Sunday=7)
// or numeric day-of-month.
type dayField struct {
	setField
	byMonthDay bool
}

// minuteRange is an inclusive range of minutes since midnight.
type minuteRange struct {
	start, end int
}

type timeField struct {
	any     bool
	include []minuteRange
	exclude []minuteRange
}

// String returns the raw expression the rule was parsed from.
func (r *Rule) String() string {
	return r.raw
}

// Matches reports whether t satisfies the rule. Every non-wildcard field
// must independently accept the corresponding component of t.
func (r *Rule) Matches(t time.Time) bool {
	if !r.year.matches(t.Year()) {
		return false
	}
	if !r.months.matches(int(t.Month())) {
		return false
	}
	day := isoWeekday(t)
	if r.days.byMonthDay {
		day = t.Day()
	}
	if !r.days.matches(day) {
		return false
	}
	return r.times.matches(t.Hour()*60 + t.Minute())
}

// MatchesAny reports whether t satisfies at least one of the rules. An
// empty rule set matches nothing; callers treating "no rules" as
// unrestricted must check for that before calling.
func MatchesAny(rules []*Rule, t time.Time) bool {
	for _, r := range rules {
		if r.Matches(t) {
			return true
		}
	}
	return false
}

func (f yearField) matches(year int) bool {
	return f.any || f.year == year
}

func (f setField) matches(v int) bool {
	if f.any {
		return true
	}
	return f.values[v] != f.except
}

func (f timeField) matches(minute int) bool {
	if f.any {
		return true
	}
	if len(f.include) > 0 {
		in := false
		for _, rng := range f.include {
			if rng.contains(minute) {
				in = true
				break
			}
		}
		if !in {
			return false
		}
	}
	for _, rng := range f.exclude {
		if rng.contains(minute) {
			return false
		}
	}
	return true
}

func (r minuteRange) contains(minute int) bool {
	if r.start <= r.end {
		return minute >= r.start && minute <= r.end
	}
	// range crossing midnight, e.g. 22:00-06:00
	return minute >= r.start || minute <= r.end
}

// isoWeekday maps time.Weekday to the grammar's Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
