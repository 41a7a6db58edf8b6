package timerule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/timerule"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestWildcardRuleMatchesEverything(t *testing.T) {
	rule := timerule.MustParse("*.*.*.*")
	for _, value := range []string{
		"2025-07-01T09:00:00Z",
		"1999-12-31T23:59:00Z",
		"2040-02-29T00:00:00Z",
	} {
		assert.True(t, rule.Matches(mustTime(t, value)), value)
	}
}

func TestWeekdayRangeWithTimeWindow(t *testing.T) {
	rule := timerule.MustParse("*.*.Monday-Friday.8:00-12:00")

	cases := []struct {
		ts   string
		want bool
	}{
		{"2025-07-01T09:00:00Z", true},  // Tuesday, inside window
		{"2025-07-01T13:00:00Z", false}, // Tuesday, after window
		{"2025-07-05T10:00:00Z", false}, // Saturday
		{"2025-07-01T08:00:00Z", true},  // inclusive lower bound
		{"2025-07-01T12:00:00Z", true},  // inclusive upper bound
		{"2025-07-01T07:59:00Z", false},
		{"2025-07-01T12:01:00Z", false},
		{"2025-07-06T09:00:00Z", false}, // Sunday
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, rule.Matches(mustTime(t, tc.ts)), tc.ts)
	}
}

func TestExceptSemantics(t *testing.T) {
	rule := timerule.MustParse("2026.EXCEPT June,July,August.EXCEPT Sunday.ALL")

	assert.True(t, rule.Matches(mustTime(t, "2026-01-15T10:00:00Z")), "a January Thursday in 2026")
	assert.False(t, rule.Matches(mustTime(t, "2026-07-15T10:00:00Z")), "July is excluded")
	assert.False(t, rule.Matches(mustTime(t, "2026-01-04T10:00:00Z")), "Sundays are excluded")
	assert.False(t, rule.Matches(mustTime(t, "2025-01-16T10:00:00Z")), "wrong year")
}

func TestYearLiteral(t *testing.T) {
	rule := timerule.MustParse("2025.*.*.*")
	assert.True(t, rule.Matches(mustTime(t, "2025-03-10T08:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2024-03-10T08:00:00Z")))
}

func TestMonthListAndAbbreviations(t *testing.T) {
	rule := timerule.MustParse("*.Jan,Feb,December.*.*")
	assert.True(t, rule.Matches(mustTime(t, "2025-01-05T10:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-12-05T10:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-06-05T10:00:00Z")))
}

func TestMonthRangeWrapsAroundYearEnd(t *testing.T) {
	rule := timerule.MustParse("*.November-February.*.*")
	assert.True(t, rule.Matches(mustTime(t, "2025-11-10T10:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-01-10T10:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-02-10T10:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-05-10T10:00:00Z")))
}

func TestDayOfMonthSubMode(t *testing.T) {
	rule := timerule.MustParse("*.*.1,15.*")
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T09:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-07-15T09:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-07-02T09:00:00Z")))

	ranged := timerule.MustParse("*.*.1-7.*")
	assert.True(t, ranged.Matches(mustTime(t, "2025-07-07T09:00:00Z")))
	assert.False(t, ranged.Matches(mustTime(t, "2025-07-08T09:00:00Z")))
}

func TestMultipleTimeRangesAreORed(t *testing.T) {
	rule := timerule.MustParse("*.*.*.9:00-11:00,14:00-17:00")
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T10:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T15:30:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-07-01T12:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-07-01T18:00:00Z")))
}

func TestExcludedTimeRange(t *testing.T) {
	rule := timerule.MustParse("*.*.*.EXCEPT 12:00-13:00")
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T09:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-07-01T12:30:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T13:01:00Z")))
}

func TestOvernightTimeRange(t *testing.T) {
	rule := timerule.MustParse("*.*.*.22:00-6:00")
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T23:00:00Z")))
	assert.True(t, rule.Matches(mustTime(t, "2025-07-02T05:00:00Z")))
	assert.False(t, rule.Matches(mustTime(t, "2025-07-01T12:00:00Z")))
}

func TestExceptWeekdayRange(t *testing.T) {
	rule := timerule.MustParse("*.*.EXCEPT Saturday,Sunday.*")
	assert.True(t, rule.Matches(mustTime(t, "2025-07-01T09:00:00Z")))  // Tuesday
	assert.False(t, rule.Matches(mustTime(t, "2025-07-05T09:00:00Z"))) // Saturday
	assert.False(t, rule.Matches(mustTime(t, "2025-07-06T09:00:00Z"))) // Sunday
}

func TestMatchesAny(t *testing.T) {
	rules, err := timerule.ParseAll([]string{
		"*.*.Monday-Friday.8:00-12:00",
		"*.*.Saturday.10:00-11:00",
	})
	require.NoError(t, err)

	assert.True(t, timerule.MatchesAny(rules, mustTime(t, "2025-07-01T09:00:00Z")))  // weekday rule
	assert.True(t, timerule.MatchesAny(rules, mustTime(t, "2025-07-05T10:30:00Z")))  // Saturday rule
	assert.False(t, timerule.MatchesAny(rules, mustTime(t, "2025-07-06T10:30:00Z"))) // Sunday, neither

	assert.False(t, timerule.MatchesAny(nil, mustTime(t, "2025-07-01T09:00:00Z")), "empty rule set matches nothing")
}
