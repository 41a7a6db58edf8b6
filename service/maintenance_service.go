// service/maintenance_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/db"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

const rotationSweepLock = "maintenance:rotation-sweep"

// RotationSweepStore surfaces the badge queries the maintenance loop needs.
type RotationSweepStore interface {
	ListBadgesDueForRotation(ctx context.Context, asOf time.Time) ([]*model.Badge, error)
	MarkBadgeNeedsRotation(ctx context.Context, badgeID string) error
}

// MaintenanceService periodically flags badges whose code rotation deadline
// has passed. When several instances run against the same store, a Redis
// lock keeps the sweep single-flight.
type MaintenanceService struct {
	store       RotationSweepStore
	rotationSvc *RotationService
	clk         clock.Clock
	interval    time.Duration
}

func NewMaintenanceService(store RotationSweepStore, rotationSvc *RotationService, clk clock.Clock, interval time.Duration) *MaintenanceService {
	return &MaintenanceService{
		store:       store,
		rotationSvc: rotationSvc,
		clk:         clk,
		interval:    interval,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *MaintenanceService) Start(ctx context.Context) {
	logger.Info("Starting maintenance loop", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunRotationSweep(ctx)
			case <-ctx.Done():
				logger.Info("Maintenance loop stopped")
				return
			}
		}
	}()
}

// RunRotationSweep flags every active badge whose rotation due date has
// passed. Exported so operators can trigger it on demand.
func (s *MaintenanceService) RunRotationSweep(ctx context.Context) {
	if db.RedisClient != nil {
		locked, err := db.LockResource(ctx, rotationSweepLock, s.interval)
		if err != nil {
			logger.Error("Failed to acquire rotation sweep lock", zap.Error(err))
			return
		}
		if !locked {
			logger.Debug("Rotation sweep already running elsewhere")
			return
		}
		defer func() {
			if err := db.UnlockResource(ctx, rotationSweepLock); err != nil {
				logger.Error("Failed to release rotation sweep lock", zap.Error(err))
			}
		}()
	}

	asOf := s.clk.Now()
	badges, err := s.store.ListBadgesDueForRotation(ctx, asOf)
	if err != nil {
		logger.Error("Rotation sweep query failed", zap.Error(err))
		return
	}

	flagged := 0
	for _, badge := range badges {
		if err := s.store.MarkBadgeNeedsRotation(ctx, badge.ID); err != nil {
			logger.Error("Failed to flag badge during sweep",
				zap.Error(err), zap.String("badgeID", badge.ID))
			continue
		}
		if err := s.rotationSvc.FlagRotationDue(ctx, badge); err != nil {
			logger.Warn("Rotation due hook failed",
				zap.Error(err), zap.String("badgeID", badge.ID))
		}
		flagged++
	}

	if flagged > 0 {
		logger.Info("Rotation sweep completed",
			zap.Int("flagged", flagged),
			zap.Time("asOf", asOf))
	}
}
