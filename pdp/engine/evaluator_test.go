package engine_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmock "github.com/stretchr/testify/mock"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/engine"
	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/test/mock"
)

var loggerOnce sync.Once

func initTestLogger() {
	loggerOnce.Do(func() {
		dir, err := os.MkdirTemp("", "acs-engine-test")
		if err != nil {
			panic(err)
		}
		logger.InitLogger(dir)
	})
}

// tuesdayMorning is 2025-07-01T09:00Z, inside a Monday-Friday 8:00-12:00 window.
var tuesdayMorning = time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	directory *dao.MemoryDirectory
	repo      *audit.MemoryRepository
	rotation  *mock.MockRotationEvaluator
	clk       *clock.SimulatedClock
	evaluator *engine.Evaluator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	initTestLogger()

	f := &fixture{
		directory: dao.NewMemoryDirectory(),
		repo:      audit.NewMemoryRepository(),
		rotation:  &mock.MockRotationEvaluator{},
		clk:       clock.NewSimulatedClock(),
	}
	f.clk.Freeze(tuesdayMorning)
	f.evaluator = engine.NewEvaluator(f.directory, audit.NewService(f.repo), f.rotation, f.clk)
	return f
}

func (f *fixture) rotationOK() {
	f.rotation.On("EvaluateRotationStatus", tmock.Anything, tmock.Anything, tmock.Anything).
		Return(model.RotationOK, nil)
}

// seedBaseline wires badge BX1 -> employee E1 -> group G1 -> resource R1,
// with R1 available and not time-controlled.
func (f *fixture) seedBaseline() {
	f.directory.PutBadge(&model.Badge{ID: "BX1", Status: model.BadgeStatusActive, EmployeeID: "E1"})
	f.directory.PutEmployee(&model.Employee{ID: "E1", Name: "Dana Flores", GroupIDs: []string{"G1"}})
	f.directory.PutGroup(&model.Group{ID: "G1", Name: "Engineering", MemberIDs: []string{"E1"}, ResourceIDs: []string{"R1"}})
	f.directory.PutResource(&model.Resource{ID: "R1", Name: "Lab Door", Category: model.ResourceCategoryDoor, State: model.ResourceStateAvailable})
}

func TestEndToEndAllow(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)

	assert.Equal(t, pdp_model.DecisionAllow, decision.Decision)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)

	entries, err := f.repo.QueryLogs(context.Background(), audit.Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "BX1", entries[0].BadgeID)
	assert.Equal(t, "E1", entries[0].EmployeeID)
	assert.Equal(t, "R1", entries[0].ResourceID)
	assert.Equal(t, audit.DecisionAllow, entries[0].Decision)
}

func TestMalformedRequestsDeniedAndAudited(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()

	cases := []struct {
		name       string
		badgeID    string
		resourceID string
		timestamp  time.Time
	}{
		{"missing badge id", "", "R1", tuesdayMorning},
		{"blank badge id", "   ", "R1", tuesdayMorning},
		{"missing resource id", "BX1", "", tuesdayMorning},
		{"missing timestamp", "BX1", "R1", time.Time{}},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision := f.evaluator.ProcessAccess(context.Background(), tc.badgeID, tc.resourceID, tc.timestamp)
			assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
			assert.Equal(t, pdp_model.ReasonInvalidRequest, decision.ReasonCode)
			assert.Equal(t, i+1, f.repo.Len(), "each request must append exactly one audit entry")
		})
	}
}

func TestUnknownBadge(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()

	decision := f.evaluator.ProcessAccess(context.Background(), "NOPE", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonBadgeNotFound, decision.ReasonCode)
	assert.Equal(t, 1, f.repo.Len())
}

func TestInactiveBadgeDeniedRegardlessOfResource(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()

	for _, status := range []model.BadgeStatus{model.BadgeStatusDisabled, model.BadgeStatusLost} {
		f.directory.PutBadge(&model.Badge{ID: "BX2", Status: status, EmployeeID: "E1"})

		// even an unknown resource yields BADGE_INACTIVE: status wins
		decision := f.evaluator.ProcessAccess(context.Background(), "BX2", "no-such-resource", tuesdayMorning)
		assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
		assert.Equal(t, pdp_model.ReasonBadgeInactive, decision.ReasonCode, "status %s", status)
	}
}

func TestExpiredBadge(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	yesterday := tuesdayMorning.AddDate(0, 0, -1)
	f.directory.PutBadge(&model.Badge{ID: "BX1", Status: model.BadgeStatusActive, EmployeeID: "E1", ExpiresAt: &yesterday})

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonBadgeExpired, decision.ReasonCode)

	// a badge expiring today is still usable today
	earlierToday := tuesdayMorning.Add(-2 * time.Hour)
	f.directory.PutBadge(&model.Badge{ID: "BX1", Status: model.BadgeStatusActive, EmployeeID: "E1", ExpiresAt: &earlierToday})

	decision = f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestRotationStatuses(t *testing.T) {
	cases := []struct {
		status model.RotationStatus
		reason pdp_model.ReasonCode
	}{
		{model.RotationUpdateRequired, pdp_model.ReasonBadgeUpdateReq},
		{model.RotationUpdateOverdue, pdp_model.ReasonBadgeUpdateOverdue},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.seedBaseline()
		f.rotation.On("EvaluateRotationStatus", tmock.Anything, "BX1", tuesdayMorning).
			Return(tc.status, nil)

		decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
		assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
		assert.Equal(t, tc.reason, decision.ReasonCode)
	}
}

func TestUnresolvableEmployee(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	// badge assigned to a missing employee
	f.directory.PutBadge(&model.Badge{ID: "BX3", Status: model.BadgeStatusActive, EmployeeID: "ghost"})
	decision := f.evaluator.ProcessAccess(context.Background(), "BX3", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonEmployeeNotFound, decision.ReasonCode)

	// badge assigned to nobody
	f.directory.PutBadge(&model.Badge{ID: "BX4", Status: model.BadgeStatusActive})
	decision = f.evaluator.ProcessAccess(context.Background(), "BX4", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonEmployeeNotFound, decision.ReasonCode)
}

func TestUnknownResource(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "no-such-resource", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonResourceNotFound, decision.ReasonCode)
}

func TestNoPermission(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	// employee without any group membership
	f.directory.PutEmployee(&model.Employee{ID: "E1", Name: "Dana Flores"})
	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)

	// group exists but does not include the resource
	f.directory.PutEmployee(&model.Employee{ID: "E1", Name: "Dana Flores", GroupIDs: []string{"G1"}})
	f.directory.PutGroup(&model.Group{ID: "G1", Name: "Engineering", ResourceIDs: []string{"other"}})
	decision = f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
}

func TestResourceOperationalStates(t *testing.T) {
	cases := []struct {
		state  model.ResourceState
		reason pdp_model.ReasonCode
	}{
		{model.ResourceStateLocked, pdp_model.ReasonResourceLocked},
		{model.ResourceStateOccupied, pdp_model.ReasonResourceOccupied},
		{model.ResourceStateOffline, pdp_model.ReasonResourceLocked},
		{model.ResourceStatePending, pdp_model.ReasonResourceLocked},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.seedBaseline()
		f.rotationOK()
		f.directory.PutResource(&model.Resource{ID: "R1", Name: "Lab Door", State: tc.state})

		decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
		assert.Equal(t, tc.reason, decision.ReasonCode, "state %s", tc.state)
	}
}

func TestTimeWindowEnforcedOnTimeControlledResource(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	f.directory.PutResource(&model.Resource{ID: "R1", Name: "Lab Door", State: model.ResourceStateAvailable, TimeControlled: true})
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Name: "Office hours", Active: true, Priority: 1,
		TimeRules: []string{"*.*.Monday-Friday.8:00-12:00"},
		GroupIDs:  []string{"G1"},
	})

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)

	afternoon := time.Date(2025, time.July, 1, 13, 0, 0, 0, time.UTC)
	decision = f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", afternoon)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)
	assert.Contains(t, decision.Message, "not allowed at this time")
}

func TestTimeRulesIgnoredWhenResourceNotTimeControlled(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	// profile rule matches nothing close to the request time
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Name: "Night only", Active: true, Priority: 1,
		TimeRules: []string{"*.*.Sunday.2:00-3:00"},
		GroupIDs:  []string{"G1"},
	})

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestLowestPriorityNumberGoverns(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	f.directory.PutResource(&model.Resource{ID: "R1", Name: "Lab Door", State: model.ResourceStateAvailable, TimeControlled: true})

	// the permissive profile has the higher priority number and must lose
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P-restrictive", Active: true, Priority: 1,
		TimeRules: []string{"*.*.Sunday.2:00-3:00"},
		GroupIDs:  []string{"G1"},
	})
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P-permissive", Active: true, Priority: 10,
		TimeRules: []string{"*.*.*.*"},
		GroupIDs:  []string{"G1"},
	})

	decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonNoPermission, decision.ReasonCode)

	// inactive restrictive profile cedes to the permissive one
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P-restrictive", Active: false, Priority: 1,
		TimeRules: []string{"*.*.Sunday.2:00-3:00"},
		GroupIDs:  []string{"G1"},
	})
	decision = f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestCollaboratorFailureBecomesSystemError(t *testing.T) {
	initTestLogger()

	directory := &mock.MockDirectory{}
	directory.On("LookupBadge", tmock.Anything, "BX1").
		Return(nil, assert.AnError)

	repo := audit.NewMemoryRepository()
	rotation := &mock.MockRotationEvaluator{}
	clk := clock.NewSimulatedClock()
	clk.Freeze(tuesdayMorning)
	evaluator := engine.NewEvaluator(directory, audit.NewService(repo), rotation, clk)

	decision := evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
	assert.Equal(t, pdp_model.ReasonSystemError, decision.ReasonCode)
	assert.Equal(t, 1, repo.Len(), "system errors are audited too")

	// the pipeline stays available for subsequent requests
	decision = evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonSystemError, decision.ReasonCode)
	assert.Equal(t, 2, repo.Len())
}

func TestPanicDuringEvaluationBecomesSystemError(t *testing.T) {
	initTestLogger()

	// a mock with no expectation for LookupEmployee panics mid-pipeline
	directory := &mock.MockDirectory{}
	directory.On("LookupBadge", tmock.Anything, "BX1").
		Return(&model.Badge{ID: "BX1", Status: model.BadgeStatusActive, EmployeeID: "E1"}, nil)

	repo := audit.NewMemoryRepository()
	rotation := &mock.MockRotationEvaluator{}
	rotation.On("EvaluateRotationStatus", tmock.Anything, tmock.Anything, tmock.Anything).
		Return(model.RotationOK, nil)
	clk := clock.NewSimulatedClock()
	clk.Freeze(tuesdayMorning)
	evaluator := engine.NewEvaluator(directory, audit.NewService(repo), rotation, clk)

	decision := evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.DecisionDeny, decision.Decision)
	assert.Equal(t, pdp_model.ReasonSystemError, decision.ReasonCode)
	assert.Equal(t, 1, repo.Len())
}

func TestAuditAppendFailureDoesNotSuppressDecision(t *testing.T) {
	initTestLogger()

	directory := dao.NewMemoryDirectory()
	directory.PutBadge(&model.Badge{ID: "BX1", Status: model.BadgeStatusActive, EmployeeID: "E1"})
	directory.PutEmployee(&model.Employee{ID: "E1", GroupIDs: []string{"G1"}})
	directory.PutGroup(&model.Group{ID: "G1", ResourceIDs: []string{"R1"}})
	directory.PutResource(&model.Resource{ID: "R1", State: model.ResourceStateAvailable})

	auditSvc := &mock.MockAuditService{}
	auditSvc.On("QueryLogs", tmock.Anything, tmock.Anything).Return([]audit.AuditLog{}, nil)
	auditSvc.On("LogAccess", tmock.Anything, tmock.Anything).Return(assert.AnError)

	rotation := &mock.MockRotationEvaluator{}
	rotation.On("EvaluateRotationStatus", tmock.Anything, tmock.Anything, tmock.Anything).
		Return(model.RotationOK, nil)
	clk := clock.NewSimulatedClock()
	clk.Freeze(tuesdayMorning)
	evaluator := engine.NewEvaluator(directory, auditSvc, rotation, clk)

	decision := evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.DecisionAllow, decision.Decision)
	auditSvc.AssertCalled(t, "LogAccess", tmock.Anything, tmock.Anything)
}

func TestConcurrentEvaluations(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	const callers = 16
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision := f.evaluator.ProcessAccess(context.Background(), "BX1", "R1", tuesdayMorning)
			assert.Equal(t, pdp_model.DecisionAllow, decision.Decision)
		}()
	}
	wg.Wait()

	assert.Equal(t, callers, f.repo.Len())
}
