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

func TestDailyQuotaEnforced(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Name: "Two per day", Active: true, Priority: 1,
		MaxDailyAccess: 2,
		GroupIDs:       []string{"G1"},
	})

	ctx := context.Background()

	first := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, first.ReasonCode)

	second := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning.Add(time.Hour))
	assert.Equal(t, pdp_model.ReasonAllow, second.ReasonCode)

	third := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning.Add(2*time.Hour))
	assert.Equal(t, pdp_model.DecisionDeny, third.Decision)
	assert.Equal(t, pdp_model.ReasonNoPermission, third.ReasonCode)
	assert.Contains(t, third.Message, "quota")

	// the day boundary resets the count
	nextDay := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning.AddDate(0, 0, 1))
	assert.Equal(t, pdp_model.ReasonAllow, nextDay.ReasonCode)
}

func TestWeeklyQuotaEnforced(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Name: "Three per week", Active: true, Priority: 1,
		MaxWeeklyAccess: 3,
		GroupIDs:        []string{"G1"},
	})

	ctx := context.Background()

	// Tuesday, Wednesday, Thursday of the same ISO week
	for day := 0; day < 3; day++ {
		decision := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning.AddDate(0, 0, day))
		assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode, "day %d", day)
	}

	// Sunday is still the same ISO week (2025-07-06)
	sunday := time.Date(2025, time.July, 6, 9, 0, 0, 0, time.UTC)
	denied := f.evaluator.ProcessAccess(ctx, "BX1", "R1", sunday)
	assert.Equal(t, pdp_model.ReasonNoPermission, denied.ReasonCode)

	// Monday 2025-07-07 opens a new ISO week
	monday := time.Date(2025, time.July, 7, 9, 0, 0, 0, time.UTC)
	allowed := f.evaluator.ProcessAccess(ctx, "BX1", "R1", monday)
	assert.Equal(t, pdp_model.ReasonAllow, allowed.ReasonCode)
}

func TestQuotaCountsOnlyAllowEntries(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Active: true, Priority: 1,
		MaxDailyAccess: 1,
		GroupIDs:       []string{"G1"},
	})

	ctx := context.Background()

	// prior same-day denials must not consume quota
	for i := 0; i < 3; i++ {
		require.NoError(t, f.repo.LogAccess(ctx, audit.AuditLog{
			Timestamp:  tuesdayMorning.Add(-time.Hour),
			BadgeID:    "BX1",
			EmployeeID: "E1",
			ResourceID: "R1",
			Decision:   audit.DecisionDeny,
			ReasonCode: "NO_PERMISSION",
		}))
	}

	decision := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning)
	assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
}

func TestQuotaOnlyFromGoverningProfile(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.rotationOK()

	// the governing (priority 1) profile is unlimited; the other profile's
	// strict quota must not be enforced
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P-governing", Active: true, Priority: 1,
		GroupIDs: []string{"G1"},
	})
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P-strict", Active: true, Priority: 5,
		MaxDailyAccess: 1,
		GroupIDs:       []string{"G1"},
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		decision := f.evaluator.ProcessAccess(ctx, "BX1", "R1", tuesdayMorning.Add(time.Duration(i)*time.Minute))
		assert.Equal(t, pdp_model.ReasonAllow, decision.ReasonCode)
	}
}

func TestCheckAllLimitsDirectly(t *testing.T) {
	f := newFixture(t)
	f.seedBaseline()
	f.directory.PutProfile(&model.AccessProfile{
		ID: "P1", Active: true, Priority: 1,
		MaxDailyAccess: 2,
		GroupIDs:       []string{"G1"},
	})

	ctx := context.Background()
	employee := &model.Employee{ID: "E1", GroupIDs: []string{"G1"}}

	ok, err := f.evaluator.CheckAllLimits(ctx, employee, tuesdayMorning)
	require.NoError(t, err)
	assert.True(t, ok)

	for i := 0; i < 2; i++ {
		require.NoError(t, f.repo.LogAccess(ctx, audit.AuditLog{
			Timestamp:  tuesdayMorning.Add(time.Duration(i) * time.Minute),
			EmployeeID: "E1",
			ResourceID: "R1",
			Decision:   audit.DecisionAllow,
			ReasonCode: "ALLOW",
		}))
	}

	ok, err = f.evaluator.CheckAllLimits(ctx, employee, tuesdayMorning.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	// unlimited when no profile applies
	orphan := &model.Employee{ID: "E9", GroupIDs: []string{"G9"}}
	ok, err = f.evaluator.CheckAllLimits(ctx, orphan, tuesdayMorning)
	require.NoError(t, err)
	assert.True(t, ok)
}
