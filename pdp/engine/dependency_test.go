package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
)

// seedDependencyPair adds resource RB which requires a prior grant on RA
// within the given window.
func seedDependencyPair(f *fixture, windowMinutes int) {
	f.directory.PutResource(&model.Resource{ID: "RA", Name: "Outer Door", State: model.ResourceStateAvailable})
	f.directory.PutResource(&model.Resource{ID: "RB", Name: "Server Room", State: model.ResourceStateAvailable})
	f.directory.PutGroup(&model.Group{ID: "G1", Name: "Engineering", MemberIDs: []string{"E1"}, ResourceIDs: []string{"RA", "RB"}})
	f.directory.PutDependency(&model.ResourceDependency{
		ID:                 "D1",
		ResourceID:         "RB",
		RequiredResourceID: "RA",
		TimeWindowMinutes:  windowMinutes,
	})
}

func priorAllow(t *testing.T, f *fixture, resourceID string, at time.Time) {
	t.Helper()
	require.NoError(t, f.repo.LogAccess(context.Background(), audit.AuditLog{
		Timestamp:  at,
		BadgeID:    "BX1",
		EmployeeID: "E1",
		ResourceID: resourceID,
		Decision:   audit.DecisionAllow,
		ReasonCode: "ALLOW",
	}))
}

func TestDependencyWithinWindowAllows(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 30)

	priorAllow(t, f, "RA", tuesdayMorning.Add(-10*time.Minute))

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestDependencyOutsideWindowDenies(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 30)

	priorAllow(t, f, "RA", tuesdayMorning.Add(-31*time.Minute))

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
	assert.Contains(t, decision.Message, "prerequisite")
}

func TestDependencyWithoutWindowAcceptsAnyPriorGrant(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 0)

	priorAllow(t, f, "RA", tuesdayMorning.AddDate(0, -6, 0))

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestDependencyMissingGrantDenies(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 0)

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
}

func TestDependencyDenyOnPrerequisiteDoesNotCount(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 30)

	// a DENY on the prerequisite is not a grant
	require.NoError(t, f.repo.LogAccess(context.Background(), audit.AuditLog{
		Timestamp:  tuesdayMorning.Add(-5 * time.Minute),
		BadgeID:    "BX1",
		EmployeeID: "E1",
		ResourceID: "RA",
		Decision:   audit.DecisionDeny,
		ReasonCode: "NO_PERMISSION",
	}))

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
}

func TestAllDependencyEdgesMustHold(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 30)

	f.directory.PutResource(&model.Resource{ID: "RC", Name: "Badge Printer", State: model.ResourceStateAvailable})
	f.directory.PutGroup(&model.Group{ID: "G1", Name: "Engineering", MemberIDs: []string{"E1"}, ResourceIDs: []string{"RA", "RB", "RC"}})
	f.directory.PutDependency(&model.ResourceDependency{
		ID:                 "D2",
		ResourceID:         "RB",
		RequiredResourceID: "RC",
		TimeWindowMinutes:  30,
	})

	// only one of the two prerequisites is satisfied
	priorAllow(t, f, "RA", tuesdayMorning.Add(-10*time.Minute))

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)

	priorAllow(t, f, "RC", tuesdayMorning.Add(-5*time.Minute))

	decision = f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

// A grant written by an earlier request must be visible to a later request
// that happens-after it; the dependency pair exercises that read-your-writes
// path end to end.
func TestDependencySeesOwnPriorGrant(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	seedDependencyPair(f, 30)

	outer := f.evaluator.ProcessAccess(context.Background(), "BX1", "RA", tuesdayMorning.Add(-10*time.Minute))
	assert.Equal(t, pdp_model.ReasonAllow, outer.ReasonCode)

	inner := f.evaluator.ProcessAccess(context.Background(), "BX1", "RB", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, inner.ReasonCode)
}
