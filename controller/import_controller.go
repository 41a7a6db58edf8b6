// controller/import_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

type ImportController struct {
	importService service.IImportService
}

func NewImportController(importService service.IImportService) *ImportController {
	return &ImportController{
		importService: importService,
	}
}

// RegisterRoutes registers the API routes
func (ic *ImportController) RegisterRoutes(r *gin.RouterGroup) {
	imports := r.Group("/import")
	{
		imports.POST("/groups", ic.ImportGroups)
		imports.POST("/profiles", ic.ImportProfiles)
	}
}

// ImportGroups endpoint; accepts a CSV request body.
func (ic *ImportController) ImportGroups(c *gin.Context) {
	count, err := ic.importService.ImportGroupsCSV(c, c.Request.Body)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Group import failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// ImportProfiles endpoint; accepts a CSV request body.
func (ic *ImportController) ImportProfiles(c *gin.Context) {
	count, err := ic.importService.ImportProfilesCSV(c, c.Request.Body)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Profile import failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}
