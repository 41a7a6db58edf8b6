// service/maintenance_service_test.go
package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

type memorySweepStore struct {
	mu      sync.Mutex
	due     []*model.Badge
	flagged []string
}

func (s *memorySweepStore) ListBadgesDueForRotation(ctx context.Context, asOf time.Time) ([]*model.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Badge
	for _, badge := range s.due {
		if badge.RotationDueAt != nil && !badge.RotationDueAt.After(asOf) && !badge.NeedsRotation {
			out = append(out, badge)
		}
	}
	return out, nil
}

func (s *memorySweepStore) MarkBadgeNeedsRotation(ctx context.Context, badgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, badge := range s.due {
		if badge.ID == badgeID {
			badge.NeedsRotation = true
		}
	}
	s.flagged = append(s.flagged, badgeID)
	return nil
}

func TestRotationSweepFlagsDueBadges(t *testing.T) {
	initTestLogger(t)

	now := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	clk := clock.NewSimulatedClock()
	clk.Freeze(now)

	pastDue := now.Add(-48 * time.Hour)
	futureDue := now.Add(48 * time.Hour)
	store := &memorySweepStore{
		due: []*model.Badge{
			{ID: "B-due", Status: model.BadgeStatusActive, RotationDueAt: &pastDue},
			{ID: "B-later", Status: model.BadgeStatusActive, RotationDueAt: &futureDue},
		},
	}

	updater := newRecordingStatusUpdater()
	rotationSvc := service.NewRotationService(
		dao.NewMemoryDirectory(), updater, util.NewNotificationService(), util.NewEventBus(), 7)
	svc := service.NewMaintenanceService(store, rotationSvc, clk, time.Minute)

	svc.RunRotationSweep(context.Background())

	assert.Equal(t, []string{"B-due"}, store.flagged)
	assert.Empty(t, updater.calls) // flagging a due badge never disables it

	// A second sweep is a no-op: the badge is already flagged.
	svc.RunRotationSweep(context.Background())
	assert.Equal(t, []string{"B-due"}, store.flagged)
}
