// service/export_service.go
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
)

// IExportService defines the interface for audit export operations
type IExportService interface {
	ExportAuditCSV(ctx context.Context, query audit.Query, w io.Writer) (int, error)
}

// ExportService renders audit history as CSV for compliance review.
type ExportService struct {
	auditSvc audit.Service
}

var _ IExportService = &ExportService{}

func NewExportService(auditSvc audit.Service) *ExportService {
	return &ExportService{auditSvc: auditSvc}
}

var auditCSVHeader = []string{
	"sequence", "timestamp", "badge_id", "employee_id", "resource_id",
	"decision", "reason_code", "message",
}

// ExportAuditCSV writes matching audit entries to w, returning the number
// of rows exported (excluding the header).
func (s *ExportService) ExportAuditCSV(ctx context.Context, query audit.Query, w io.Writer) (int, error) {
	entries, err := s.auditSvc.QueryLogs(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to query audit logs for export: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(auditCSVHeader); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			strconv.FormatUint(entry.Sequence, 10),
			entry.Timestamp.Format(time.RFC3339),
			entry.BadgeID,
			entry.EmployeeID,
			entry.ResourceID,
			entry.Decision,
			entry.ReasonCode,
			entry.Message,
		}
		if err := writer.Write(row); err != nil {
			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("failed to flush CSV output: %w", err)
	}

	logger.Info("Audit export completed", zap.Int("rows", len(entries)))
	return len(entries), nil
}
