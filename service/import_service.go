// service/import_service.go
package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// importConcurrency bounds parallel writes during a bulk load so a large
// file does not exhaust the store's connection pool.
const importConcurrency = 4

// GroupWriter persists groups during bulk import.
type GroupWriter interface {
	CreateGroup(ctx context.Context, group model.Group) (string, error)
}

// ProfileWriter persists access profiles during bulk import.
type ProfileWriter interface {
	CreateProfile(ctx context.Context, profile model.AccessProfile) (string, error)
}

// IImportService defines the interface for CSV bulk import operations
type IImportService interface {
	ImportGroupsCSV(ctx context.Context, r io.Reader) (int, error)
	ImportProfilesCSV(ctx context.Context, r io.Reader) (int, error)
}

// ImportService loads groups and access profiles from CSV files. Rows are
// validated up front; nothing is written unless the whole file parses.
type ImportService struct {
	groupWriter    GroupWriter
	profileWriter  ProfileWriter
	validationUtil *util.ValidationUtil
}

var _ IImportService = &ImportService{}

func NewImportService(groupWriter GroupWriter, profileWriter ProfileWriter, validationUtil *util.ValidationUtil) *ImportService {
	return &ImportService{
		groupWriter:    groupWriter,
		profileWriter:  profileWriter,
		validationUtil: validationUtil,
	}
}

// ImportGroupsCSV expects rows of: id, name, description, resource_ids
// (semicolon-separated). The first row is treated as a header.
func (s *ImportService) ImportGroupsCSV(ctx context.Context, r io.Reader) (int, error) {
	records, err := readCSV(r)
	if err != nil {
		return 0, err
	}

	groups := make([]model.Group, 0, len(records))
	for i, record := range records {
		if len(record) < 4 {
			return 0, fmt.Errorf("row %d: expected 4 columns, got %d", i+2, len(record))
		}
		group := model.Group{
			ID:          strings.TrimSpace(record[0]),
			Name:        strings.TrimSpace(record[1]),
			Description: strings.TrimSpace(record[2]),
			ResourceIDs: splitList(record[3]),
		}
		if err := s.validationUtil.ValidateGroup(group); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		groups = append(groups, group)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, group := range groups {
		group := group
		g.Go(func() error {
			if _, err := s.groupWriter.CreateGroup(gctx, group); err != nil {
				return fmt.Errorf("failed to import group %s: %w", group.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	logger.Info("Group import completed", zap.Int("count", len(groups)))
	return len(groups), nil
}

// ImportProfilesCSV expects rows of: id, name, priority, max_daily,
// max_weekly, active, time_rules (semicolon-separated), group_ids
// (semicolon-separated). The first row is treated as a header.
func (s *ImportService) ImportProfilesCSV(ctx context.Context, r io.Reader) (int, error) {
	records, err := readCSV(r)
	if err != nil {
		return 0, err
	}

	profiles := make([]model.AccessProfile, 0, len(records))
	for i, record := range records {
		if len(record) < 8 {
			return 0, fmt.Errorf("row %d: expected 8 columns, got %d", i+2, len(record))
		}

		priority, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid priority: %w", i+2, err)
		}
		maxDaily, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid max daily access: %w", i+2, err)
		}
		maxWeekly, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid max weekly access: %w", i+2, err)
		}
		active, err := strconv.ParseBool(strings.TrimSpace(record[5]))
		if err != nil {
			return 0, fmt.Errorf("row %d: invalid active flag: %w", i+2, err)
		}

		profile := model.AccessProfile{
			ID:              strings.TrimSpace(record[0]),
			Name:            strings.TrimSpace(record[1]),
			Priority:        priority,
			MaxDailyAccess:  maxDaily,
			MaxWeeklyAccess: maxWeekly,
			Active:          active,
			TimeRules:       splitList(record[6]),
			GroupIDs:        splitList(record[7]),
		}
		if err := s.validationUtil.ValidateProfile(profile); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+2, err)
		}
		profiles = append(profiles, profile)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)
	for _, profile := range profiles {
		profile := profile
		g.Go(func() error {
			if _, err := s.profileWriter.CreateProfile(gctx, profile); err != nil {
				return fmt.Errorf("failed to import profile %s: %w", profile.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	logger.Info("Profile import completed", zap.Int("count", len(profiles)))
	return len(profiles), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	return records[1:], nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
