// service/export_service_test.go
package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/service"
)

func seedAuditEntries(t *testing.T, repo *audit.MemoryRepository) {
	t.Helper()
	base := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	entries := []audit.AuditLog{
		{Timestamp: base, BadgeID: "B1", EmployeeID: "E1", ResourceID: "R1", Decision: audit.DecisionAllow, ReasonCode: "ALLOW"},
		{Timestamp: base.Add(time.Minute), BadgeID: "B2", EmployeeID: "E2", ResourceID: "R1", Decision: audit.DecisionDeny, ReasonCode: "NO_PERMISSION", Message: "no group permits resource"},
		{Timestamp: base.Add(2 * time.Minute), BadgeID: "B1", EmployeeID: "E1", ResourceID: "R2", Decision: audit.DecisionAllow, ReasonCode: "ALLOW"},
	}
	for _, entry := range entries {
		require.NoError(t, repo.LogAccess(context.Background(), entry))
	}
}

func TestExportAuditCSV(t *testing.T) {
	initTestLogger(t)
	repo := audit.NewMemoryRepository()
	seedAuditEntries(t, repo)

	svc := service.NewExportService(audit.NewService(repo))

	var buf bytes.Buffer
	rows, err := svc.ExportAuditCSV(context.Background(), audit.Query{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header plus three rows")

	assert.Equal(t, []string{
		"sequence", "timestamp", "badge_id", "employee_id", "resource_id",
		"decision", "reason_code", "message",
	}, records[0])

	assert.Equal(t, "B1", records[1][2])
	assert.Equal(t, "ALLOW", records[1][6])
	assert.Equal(t, "NO_PERMISSION", records[2][6])
	assert.Equal(t, "no group permits resource", records[2][7])
}

func TestExportAuditCSVAppliesFilters(t *testing.T) {
	initTestLogger(t)
	repo := audit.NewMemoryRepository()
	seedAuditEntries(t, repo)

	svc := service.NewExportService(audit.NewService(repo))

	var buf bytes.Buffer
	rows, err := svc.ExportAuditCSV(context.Background(), audit.Query{
		EmployeeID: "E1",
		Decision:   audit.DecisionAllow,
	}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, record := range records[1:] {
		assert.Equal(t, "E1", record[3])
		assert.Equal(t, "ALLOW", record[5])
	}
}

func TestExportAuditCSVEmptyResult(t *testing.T) {
	initTestLogger(t)
	repo := audit.NewMemoryRepository()

	svc := service.NewExportService(audit.NewService(repo))

	var buf bytes.Buffer
	rows, err := svc.ExportAuditCSV(context.Background(), audit.Query{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
