// pdp/engine/dependency.go
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
)

// dependenciesSatisfied verifies every prerequisite edge declared for the
// resource. Each edge requires at least one prior ALLOW for the employee on
// the required resource inside (asOf - window, asOf]; an edge without a
// window accepts any prior grant. All edges must hold; zero edges trivially
// succeeds.
func (e *Evaluator) dependenciesSatisfied(ctx context.Context, resourceID, employeeID string, asOf time.Time) (bool, error) {
	edges, err := e.directory.FindDependencies(ctx, resourceID)
	if err != nil {
		return false, fmt.Errorf("dependency lookup: %w", err)
	}

	for _, edge := range edges {
		var lowerBound time.Time
		if edge.TimeWindowMinutes > 0 {
			lowerBound = asOf.Add(-time.Duration(edge.TimeWindowMinutes) * time.Minute)
		}

		entries, err := e.auditSvc.QueryLogs(ctx, audit.Query{
			EmployeeID: employeeID,
			ResourceID: edge.RequiredResourceID,
			Decision:   audit.DecisionAllow,
			From:       lowerBound,
			To:         asOf,
		})
		if err != nil {
			return false, fmt.Errorf("audit query: %w", err)
		}

		// the lower bound is exclusive; the query's From is inclusive
		satisfied := false
		for _, entry := range entries {
			if lowerBound.IsZero() || entry.Timestamp.After(lowerBound) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false, nil
		}
	}

	return true, nil
}
