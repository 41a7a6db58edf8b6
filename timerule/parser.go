// timerule/parser.go
package timerule

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a malformed time-rule expression.
type ParseError struct {
	Raw   string
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid time rule %q: %s", e.Raw, e.Msg)
	}
	return fmt.Sprintf("invalid time rule %q: %s field: %s", e.Raw, e.Field, e.Msg)
}

const exceptKeyword = "EXCEPT"

var monthIndex = map[string]int{
	"JANUARY": 1, "JAN": 1,
	"FEBRUARY": 2, "FEB": 2,
	"MARCH": 3, "MAR": 3,
	"APRIL": 4, "APR": 4,
	"MAY": 5,
	"JUNE": 6, "JUN": 6,
	"JULY": 7, "JUL": 7,
	"AUGUST": 8, "AUG": 8,
	"SEPTEMBER": 9, "SEP": 9,
	"OCTOBER": 10, "OCT": 10,
	"NOVEMBER": 11, "NOV": 11,
	"DECEMBER": 12, "DEC": 12,
}

var weekdayIndex = map[string]int{
	"MONDAY": 1, "MON": 1,
	"TUESDAY": 2, "TUE": 2,
	"WEDNESDAY": 3, "WED": 3,
	"THURSDAY": 4, "THU": 4,
	"FRIDAY": 5, "FRI": 5,
	"SATURDAY": 6, "SAT": 6,
	"SUNDAY": 7, "SUN": 7,
}

// Parse compiles a raw expression into an immutable Rule. Tokens are
// case-insensitive. A wrong field count or an unparsable token yields a
// *ParseError, never a silently non-matching rule.
func Parse(raw string) (*Rule, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Raw: raw, Msg: "empty expression"}
	}

	fields := strings.Split(trimmed, ".")
	if len(fields) != 4 {
		return nil, &ParseError{Raw: raw, Msg: fmt.Sprintf("expected 4 dot-separated fields, got %d", len(fields))}
	}

	rule := &Rule{raw: trimmed}

	year, err := parseYear(raw, fields[0])
	if err != nil {
		return nil, err
	}
	rule.year = year

	months, err := parseMonths(raw, fields[1])
	if err != nil {
		return nil, err
	}
	rule.months = months

	days, err := parseDays(raw, fields[2])
	if err != nil {
		return nil, err
	}
	rule.days = days

	times, err := parseTimes(raw, fields[3])
	if err != nil {
		return nil, err
	}
	rule.times = times

	return rule, nil
}

// MustParse is a convenience for static rules; it panics on malformed input.
func MustParse(raw string) *Rule {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}

// Validate reports whether raw is a well-formed expression. It never
// returns an error or panics.
func Validate(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// ParseAll parses a list of raw expressions, failing on the first bad one.
func ParseAll(raws []string) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(raws))
	for _, raw := range raws {
		r, err := Parse(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func isWildcard(s string) bool {
	u := strings.ToUpper(strings.TrimSpace(s))
	return u == "*" || u == "ALL"
}

// splitExcept strips a leading EXCEPT keyword, returning the remainder and
// whether the field is exclusion-qualified.
func splitExcept(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	upper := strings.ToUpper(trimmed)
	if upper == exceptKeyword {
		return "", true
	}
	if strings.HasPrefix(upper, exceptKeyword+" ") {
		return strings.TrimSpace(trimmed[len(exceptKeyword):]), true
	}
	return trimmed, false
}

func parseYear(raw, field string) (yearField, error) {
	if isWildcard(field) {
		return yearField{any: true}, nil
	}
	trimmed := strings.TrimSpace(field)
	if len(trimmed) != 4 {
		return yearField{}, &ParseError{Raw: raw, Field: "year", Msg: fmt.Sprintf("expected 4-digit year or wildcard, got %q", field)}
	}
	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return yearField{}, &ParseError{Raw: raw, Field: "year", Msg: fmt.Sprintf("unparsable year %q", field)}
	}
	return yearField{year: year}, nil
}

func parseMonths(raw, field string) (setField, error) {
	if isWildcard(field) {
		return setField{any: true}, nil
	}
	body, except := splitExcept(field)
	if body == "" {
		return setField{}, &ParseError{Raw: raw, Field: "months", Msg: "EXCEPT requires a list or range"}
	}
	values, err := parseNamedSet(body, monthIndex, 12)
	if err != nil {
		return setField{}, &ParseError{Raw: raw, Field: "months", Msg: err.Error()}
	}
	return setField{except: except, values: values}, nil
}

func parseDays(raw, field string) (dayField, error) {
	if isWildcard(field) {
		return dayField{setField: setField{any: true}}, nil
	}
	body, except := splitExcept(field)
	if body == "" {
		return dayField{}, &ParseError{Raw: raw, Field: "days", Msg: "EXCEPT requires a list or range"}
	}

	// Numeric tokens select the day-of-month sub-mode; weekday names are
	// the common case. The two modes cannot be mixed in one field.
	if numericTokens(body) {
		values, err := parseNumericSet(body, 1, 31)
		if err != nil {
			return dayField{}, &ParseError{Raw: raw, Field: "days", Msg: err.Error()}
		}
		return dayField{setField: setField{except: except, values: values}, byMonthDay: true}, nil
	}

	values, err := parseNamedSet(body, weekdayIndex, 7)
	if err != nil {
		return dayField{}, &ParseError{Raw: raw, Field: "days", Msg: err.Error()}
	}
	return dayField{setField: setField{except: except, values: values}}, nil
}

func numericTokens(body string) bool {
	for _, tok := range strings.Split(body, ",") {
		for _, part := range strings.SplitN(strings.TrimSpace(tok), "-", 2) {
			if _, err := strconv.Atoi(strings.TrimSpace(part)); err != nil {
				return false
			}
		}
	}
	return true
}

// parseNamedSet parses a comma list of names or name ranges against the
// given index (months or weekdays). Ranges may wrap, e.g. November-February.
func parseNamedSet(body string, index map[string]int, modulus int) (map[int]bool, error) {
	values := make(map[int]bool)
	for _, tok := range strings.Split(body, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("empty list element")
		}
		if start, end, ok := strings.Cut(tok, "-"); ok {
			lo, found := index[strings.ToUpper(strings.TrimSpace(start))]
			if !found {
				return nil, fmt.Errorf("unknown name %q", start)
			}
			hi, found := index[strings.ToUpper(strings.TrimSpace(end))]
			if !found {
				return nil, fmt.Errorf("unknown name %q", end)
			}
			for v := lo; ; v = v%modulus + 1 {
				values[v] = true
				if v == hi {
					break
				}
			}
			continue
		}
		v, found := index[strings.ToUpper(tok)]
		if !found {
			return nil, fmt.Errorf("unknown name %q", tok)
		}
		values[v] = true
	}
	return values, nil
}

func parseNumericSet(body string, min, max int) (map[int]bool, error) {
	values := make(map[int]bool)
	add := func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("value %d out of range %d..%d", v, min, max)
		}
		values[v] = true
		return nil
	}
	for _, tok := range strings.Split(body, ",") {
		tok = strings.TrimSpace(tok)
		if start, end, ok := strings.Cut(tok, "-"); ok {
			lo, err := strconv.Atoi(strings.TrimSpace(start))
			if err != nil {
				return nil, fmt.Errorf("unparsable number %q", start)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("unparsable number %q", end)
			}
			if hi < lo {
				return nil, fmt.Errorf("descending range %q", tok)
			}
			for v := lo; v <= hi; v++ {
				if err := add(v); err != nil {
					return nil, err
				}
			}
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("unparsable number %q", tok)
		}
		if err := add(v); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func parseTimes(raw, field string) (timeField, error) {
	if isWildcard(field) {
		return timeField{any: true}, nil
	}
	body, except := splitExcept(field)
	if body == "" {
		return timeField{}, &ParseError{Raw: raw, Field: "times", Msg: "EXCEPT requires a time range"}
	}

	var ranges []minuteRange
	for _, tok := range strings.Split(body, ",") {
		rng, err := parseTimeRange(strings.TrimSpace(tok))
		if err != nil {
			return timeField{}, &ParseError{Raw: raw, Field: "times", Msg: err.Error()}
		}
		ranges = append(ranges, rng)
	}

	if except {
		return timeField{exclude: ranges}, nil
	}
	return timeField{include: ranges}, nil
}

func parseTimeRange(tok string) (minuteRange, error) {
	start, end, ok := strings.Cut(tok, "-")
	if !ok {
		return minuteRange{}, fmt.Errorf("expected HH:mm-HH:mm, got %q", tok)
	}
	lo, err := parseClock(strings.TrimSpace(start))
	if err != nil {
		return minuteRange{}, err
	}
	hi, err := parseClock(strings.TrimSpace(end))
	if err != nil {
		return minuteRange{}, err
	}
	return minuteRange{start: lo, end: hi}, nil
}

func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:mm, got %q", s)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}
