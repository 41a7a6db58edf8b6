// controller/access_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
)

type AccessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) *AccessController {
	return &AccessController{
		accessService: accessService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/access", ac.ProcessAccess)
}

type accessRequestBody struct {
	BadgeID    string    `json:"badge_id"`
	ResourceID string    `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProcessAccess endpoint. Malformed bodies are NOT rejected here: the
// pipeline owns request validation so that every swipe, including garbage
// from a broken reader, is denied with a reason code and audited.
func (ac *AccessController) ProcessAccess(c *gin.Context) {
	var body accessRequestBody
	// Binding errors leave body zero-valued; the pipeline denies those
	// with INVALID_REQUEST.
	_ = c.ShouldBindJSON(&body)

	decision := ac.accessService.ProcessAccess(c, pdp_model.AccessRequest{
		BadgeID:    body.BadgeID,
		ResourceID: body.ResourceID,
		Timestamp:  body.Timestamp,
	})

	status := http.StatusOK
	if decision.Decision == pdp_model.DecisionDeny {
		status = http.StatusForbidden
	}
	c.JSON(status, decision)
}
