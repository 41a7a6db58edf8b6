// controller/audit_controller.go
package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

type AuditController struct {
	auditService  audit.Service
	exportService service.IExportService
}

func NewAuditController(auditService audit.Service, exportService service.IExportService) *AuditController {
	return &AuditController{
		auditService:  auditService,
		exportService: exportService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	auditRoutes := r.Group("/audit")
	{
		auditRoutes.GET("", ac.QueryLogs)
		auditRoutes.GET("/export", ac.ExportCSV)
	}
}

func auditQueryFromRequest(c *gin.Context) (audit.Query, error) {
	query := audit.Query{
		EmployeeID: c.Query("employee_id"),
		ResourceID: c.Query("resource_id"),
		Decision:   c.Query("decision"),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return audit.Query{}, fmt.Errorf("invalid from timestamp: %w", err)
		}
		query.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return audit.Query{}, fmt.Errorf("invalid to timestamp: %w", err)
		}
		query.To = t
	}

	return query, nil
}

// QueryLogs endpoint
func (ac *AuditController) QueryLogs(c *gin.Context) {
	query, err := auditQueryFromRequest(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid audit query", err)
		return
	}

	entries, err := ac.auditService.QueryLogs(c, query)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// ExportCSV endpoint
func (ac *AuditController) ExportCSV(c *gin.Context) {
	query, err := auditQueryFromRequest(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid audit query", err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="audit-export.csv"`)

	if _, err := ac.exportService.ExportAuditCSV(c, query, c.Writer); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to export audit logs", err)
		return
	}
}
