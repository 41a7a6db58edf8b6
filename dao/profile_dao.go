// dao/profile_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	acs_neo4j "github.com/Ricardo-Z-Li/access-control-system-sub000/model/neo4j"
	helper_util "github.com/Ricardo-Z-Li/access-control-system-sub000/util/helper"
)

type ProfileDAO struct {
	Driver neo4j.Driver
}

func NewProfileDAO(driver neo4j.Driver) *ProfileDAO {
	dao := &ProfileDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for AccessProfile", zap.Error(err))
	}
	return dao
}

func (dao *ProfileDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on AccessProfile ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT unique_profile_id IF NOT EXISTS
        FOR (p:%s) REQUIRE p.id IS UNIQUE
        `, acs_neo4j.LabelProfile)
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on AccessProfile ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *ProfileDAO) CreateProfile(ctx context.Context, profile model.AccessProfile) (string, error) {
	start := time.Now()
	logger.Info("Creating new access profile", zap.String("profileName", profile.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if profile.ID == "" {
		return "", acs_errors.ErrInvalidProfileData
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MERGE (p:%s {id: $id})
        ON CREATE SET p += $props
        ON MATCH SET p += $props
        RETURN p.id as id
        `, acs_neo4j.LabelProfile)

		params := map[string]interface{}{
			"id":    profile.ID,
			"props": profileProps(&profile, true),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if err := syncProfileGroups(transaction, profile.ID, profile.GroupIDs); err != nil {
			return nil, err
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, acs_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create access profile",
			zap.Error(err),
			zap.String("profileName", profile.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	profileID := fmt.Sprintf("%v", result)
	logger.Info("Access profile created successfully",
		zap.String("profileID", profileID),
		zap.Duration("duration", duration))

	return profileID, nil
}

func (dao *ProfileDAO) UpdateProfile(ctx context.Context, profile model.AccessProfile) (*model.AccessProfile, error) {
	start := time.Now()
	logger.Info("Updating access profile", zap.String("profileID", profile.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedProfile *model.AccessProfile
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        SET p += $props
        RETURN p
        `, acs_neo4j.LabelProfile)

		params := map[string]interface{}{
			"id":    profile.ID,
			"props": profileProps(&profile, false),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrProfileNotFound
		}

		node := result.Record().Values[0].(neo4j.Node)
		updatedProfile, err = mapNodeToProfile(node)
		if err != nil {
			return nil, fmt.Errorf("failed to map profile node to struct: %w", err)
		}
		updatedProfile.GroupIDs = profile.GroupIDs

		if err := syncProfileGroups(transaction, profile.ID, profile.GroupIDs); err != nil {
			return nil, err
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update access profile",
			zap.Error(err),
			zap.String("profileID", profile.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Access profile updated successfully",
		zap.String("profileID", profile.ID),
		zap.Duration("duration", duration))

	return updatedProfile, nil
}

func (dao *ProfileDAO) DeleteProfile(ctx context.Context, profileID string) error {
	start := time.Now()
	logger.Info("Deleting access profile", zap.String("profileID", profileID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (p:%s {id: $id})
        DETACH DELETE p
        `, acs_neo4j.LabelProfile)
		result, err := transaction.Run(query, map[string]interface{}{"id": profileID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, acs_errors.ErrProfileNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete access profile",
			zap.Error(err),
			zap.String("profileID", profileID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Access profile deleted successfully",
		zap.String("profileID", profileID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *ProfileDAO) GetProfile(ctx context.Context, profileID string) (*model.AccessProfile, error) {
	start := time.Now()
	logger.Debug("Retrieving access profile", zap.String("profileID", profileID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (p:%s {id: $id})
    OPTIONAL MATCH (p)-[:%s]->(g:%s)
    RETURN p, collect(g.id) as groupIDs
    `, acs_neo4j.LabelProfile, acs_neo4j.RelGoverns, acs_neo4j.LabelGroup)
	result, err := session.Run(query, map[string]interface{}{"id": profileID})
	if err != nil {
		logger.Error("Failed to execute get profile query",
			zap.Error(err),
			zap.String("profileID", profileID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		profile, err := mapNodeToProfile(node)
		if err != nil {
			return nil, acs_errors.ErrInternalServer
		}
		profile.GroupIDs = stringSlice(record.Values[1])
		return profile, nil
	}

	return nil, acs_errors.ErrProfileNotFound
}

func (dao *ProfileDAO) ListProfiles(ctx context.Context, limit int, offset int) ([]*model.AccessProfile, error) {
	start := time.Now()
	logger.Info("Listing access profiles", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (p:%s)
    OPTIONAL MATCH (p)-[:%s]->(g:%s)
    RETURN p, collect(g.id) as groupIDs
    ORDER BY p.priority ASC, p.id ASC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelProfile, acs_neo4j.RelGoverns, acs_neo4j.LabelGroup)
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list profiles query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var profiles []*model.AccessProfile
	for result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		profile, err := mapNodeToProfile(node)
		if err != nil {
			return nil, acs_errors.ErrInternalServer
		}
		profile.GroupIDs = stringSlice(record.Values[1])
		profiles = append(profiles, profile)
	}

	logger.Info("Access profiles listed successfully",
		zap.Int("count", len(profiles)),
		zap.Duration("duration", time.Since(start)))

	return profiles, nil
}

// GetActiveProfilesForGroup returns the active profiles governing a group,
// ordered by priority then ID so callers can pick the governing one
// deterministically.
func (dao *ProfileDAO) GetActiveProfilesForGroup(ctx context.Context, groupID string) ([]*model.AccessProfile, error) {
	start := time.Now()
	logger.Debug("Retrieving active profiles for group", zap.String("groupID", groupID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (p:%s)-[:%s]->(g:%s {id: $groupID})
    WHERE p.active = true
    RETURN p
    ORDER BY p.priority ASC, p.id ASC
    `, acs_neo4j.LabelProfile, acs_neo4j.RelGoverns, acs_neo4j.LabelGroup)
	result, err := session.Run(query, map[string]interface{}{"groupID": groupID})
	if err != nil {
		logger.Error("Failed to execute active profiles query",
			zap.Error(err),
			zap.String("groupID", groupID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var profiles []*model.AccessProfile
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		profile, err := mapNodeToProfile(node)
		if err != nil {
			return nil, acs_errors.ErrInternalServer
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

func syncProfileGroups(transaction neo4j.Transaction, profileID string, groupIDs []string) error {
	clearQuery := fmt.Sprintf(`
    MATCH (p:%s {id: $id})-[v:%s]->(:%s)
    DELETE v
    `, acs_neo4j.LabelProfile, acs_neo4j.RelGoverns, acs_neo4j.LabelGroup)
	if _, err := transaction.Run(clearQuery, map[string]interface{}{"id": profileID}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}

	if len(groupIDs) == 0 {
		return nil
	}

	linkQuery := fmt.Sprintf(`
    MATCH (p:%s {id: $id})
    UNWIND $groupIDs as groupID
    MATCH (g:%s {id: groupID})
    MERGE (p)-[:%s]->(g)
    `, acs_neo4j.LabelProfile, acs_neo4j.LabelGroup, acs_neo4j.RelGoverns)
	if _, err := transaction.Run(linkQuery, map[string]interface{}{
		"id":       profileID,
		"groupIDs": groupIDs,
	}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}
	return nil
}

func profileProps(profile *model.AccessProfile, create bool) map[string]interface{} {
	timeRulesJSON, _ := json.Marshal(profile.TimeRules)

	props := map[string]interface{}{
		"name":            profile.Name,
		"description":     profile.Description,
		"active":          profile.Active,
		"priority":        profile.Priority,
		"maxDailyAccess":  profile.MaxDailyAccess,
		"maxWeeklyAccess": profile.MaxWeeklyAccess,
		"timeRules":       string(timeRulesJSON),
		"updatedAt":       time.Now().Format(time.RFC3339),
	}
	if create {
		props["createdAt"] = time.Now().Format(time.RFC3339)
	}
	return props
}

func mapNodeToProfile(node neo4j.Node) (*model.AccessProfile, error) {
	props := node.Props
	profile := &model.AccessProfile{}

	profile.ID = props["id"].(string)
	if name, ok := props["name"].(string); ok {
		profile.Name = name
	}
	if description, ok := props["description"].(string); ok {
		profile.Description = description
	}
	if active, ok := props["active"].(bool); ok {
		profile.Active = active
	}
	if priority, ok := props["priority"].(int64); ok {
		profile.Priority = int(priority)
	}
	if maxDaily, ok := props["maxDailyAccess"].(int64); ok {
		profile.MaxDailyAccess = int(maxDaily)
	}
	if maxWeekly, ok := props["maxWeeklyAccess"].(int64); ok {
		profile.MaxWeeklyAccess = int(maxWeekly)
	}

	if timeRulesJSON, ok := props["timeRules"].(string); ok && timeRulesJSON != "" {
		if err := json.Unmarshal([]byte(timeRulesJSON), &profile.TimeRules); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile time rules: %w", err)
		}
	}

	if createdAt, ok := props["createdAt"].(string); ok {
		profile.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		profile.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return profile, nil
}
