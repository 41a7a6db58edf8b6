// controller/controllers.go
package controller

import (
	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
)

type Controllers struct {
	Access  *AccessController
	Audit   *AuditController
	Badge   *BadgeController
	Profile *ProfileController
	Import  *ImportController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Access:  NewAccessController(services.Access),
		Audit:   NewAuditController(auditService, services.Export),
		Badge:   NewBadgeController(services.Badge),
		Profile: NewProfileController(services.Profile),
		Import:  NewImportController(services.Import),
	}
}
