// service/services.go
package service

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/engine"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

type Services struct {
	Access      IAccessService
	Badge       IBadgeService
	Profile     IProfileService
	Export      IExportService
	Import      IImportService
	Rotation    *RotationService
	Maintenance *MaintenanceService
	Directory   *DirectoryService
}

// badgeStatusAdapter pairs DAO status writes with cache invalidation so a
// disabled badge stops validating immediately, not after cache expiry.
type badgeStatusAdapter struct {
	badgeDAO  *dao.BadgeDAO
	directory *DirectoryService
}

func (a *badgeStatusAdapter) UpdateBadgeStatus(ctx context.Context, badgeID string, status model.BadgeStatus) error {
	if err := a.badgeDAO.UpdateBadgeStatus(ctx, badgeID, status); err != nil {
		return err
	}
	a.directory.InvalidateBadge(ctx, badgeID)
	return nil
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	clk clock.Clock,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	rotationGraceDays int,
	maintenanceInterval time.Duration,
) (*Services, error) {
	badgeDAO := dao.NewBadgeDAO(driver)
	employeeDAO := dao.NewEmployeeDAO(driver)
	groupDAO := dao.NewGroupDAO(driver)
	resourceDAO := dao.NewResourceDAO(driver)
	profileDAO := dao.NewProfileDAO(driver)
	dependencyDAO := dao.NewDependencyDAO(driver)

	directory := NewDirectoryService(
		badgeDAO, employeeDAO, groupDAO, resourceDAO, profileDAO, dependencyDAO, cacheService)

	rotation := NewRotationService(
		directory,
		&badgeStatusAdapter{badgeDAO: badgeDAO, directory: directory},
		notificationSvc,
		eventBus,
		rotationGraceDays,
	)

	evaluator := engine.NewEvaluator(directory, auditService, rotation, clk)

	services := &Services{
		Access:      NewAccessService(evaluator, notificationSvc, eventBus),
		Badge:       NewBadgeService(badgeDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Profile:     NewProfileService(profileDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Export:      NewExportService(auditService),
		Import:      NewImportService(groupDAO, profileDAO, validationUtil),
		Rotation:    rotation,
		Maintenance: NewMaintenanceService(badgeDAO, rotation, clk, maintenanceInterval),
		Directory:   directory,
	}

	return services, nil
}
