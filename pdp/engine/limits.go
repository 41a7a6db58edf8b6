// pdp/engine/limits.go
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

// CheckAllLimits resolves the employee's governing profile and verifies its
// daily and weekly access quotas against the audit trail as of the given
// instant. True means the request is within limits.
func (e *Evaluator) CheckAllLimits(ctx context.Context, employee *model.Employee, asOf time.Time) (bool, error) {
	profile, err := e.governingProfile(ctx, employee)
	if err != nil {
		return false, err
	}
	return e.checkLimits(ctx, employee.ID, profile, asOf)
}

// checkLimits enforces the quotas of the already-selected governing
// profile. Quotas of other applicable profiles are not enforced; absent or
// non-positive quotas mean unlimited. Counting reads the audit trail, which
// is the sole ground truth; entry order within the window is irrelevant.
func (e *Evaluator) checkLimits(ctx context.Context, employeeID string, profile *model.AccessProfile, asOf time.Time) (bool, error) {
	if profile == nil {
		return true, nil
	}

	if profile.MaxDailyAccess > 0 {
		from, to := dayBounds(asOf)
		count, err := e.countAllows(ctx, employeeID, from, to)
		if err != nil {
			return false, err
		}
		if count >= profile.MaxDailyAccess {
			return false, nil
		}
	}

	if profile.MaxWeeklyAccess > 0 {
		from, to := isoWeekBounds(asOf)
		count, err := e.countAllows(ctx, employeeID, from, to)
		if err != nil {
			return false, err
		}
		if count >= profile.MaxWeeklyAccess {
			return false, nil
		}
	}

	return true, nil
}

func (e *Evaluator) countAllows(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	entries, err := e.auditSvc.QueryLogs(ctx, audit.Query{
		EmployeeID: employeeID,
		Decision:   audit.DecisionAllow,
		From:       from,
		To:         to,
	})
	if err != nil {
		return 0, fmt.Errorf("audit query: %w", err)
	}
	return len(entries), nil
}

// dayBounds returns the inclusive bounds of the calendar day containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// isoWeekBounds returns the inclusive bounds of the ISO week (Monday
// through Sunday) containing t.
func isoWeekBounds(t time.Time) (time.Time, time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := dayStart.AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}
