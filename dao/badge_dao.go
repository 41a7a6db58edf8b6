// dao/badge_dao.go
package dao

import (
	"context"
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

type BadgeDAO struct {
	Driver neo4j.Driver
}

func NewBadgeDAO(driver neo4j.Driver) *BadgeDAO {
	dao := &BadgeDAO{Driver: driver}
	// Ensure unique constraint on Badge ID
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Badge", zap.Error(err))
	}
	return dao
}

func (dao *BadgeDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Badge ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT unique_badge_id IF NOT EXISTS
        FOR (b:%s) REQUIRE b.id IS UNIQUE
        `, acs_neo4j.LabelBadge)
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Badge ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *BadgeDAO) CreateBadge(ctx context.Context, badge model.Badge) (string, error) {
	start := time.Now()
	logger.Info("Creating new badge", zap.String("badgeID", badge.ID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if badge.ID == "" {
		return "", acs_errors.ErrInvalidBadgeData
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MERGE (b:%s {id: $id})
        ON CREATE SET b += $props
        ON MATCH SET b += $props
        RETURN b.id as id
        `, acs_neo4j.LabelBadge)

		params := map[string]interface{}{
			"id":    badge.ID,
			"props": badgeProps(&badge, true),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if badge.EmployeeID != "" {
			ownQuery := fmt.Sprintf(`
            MATCH (b:%s {id: $badgeID})
            MATCH (e:%s {id: $employeeID})
            MERGE (e)-[:%s]->(b)
            `, acs_neo4j.LabelBadge, acs_neo4j.LabelEmployee, acs_neo4j.RelOwns)
			if _, err := transaction.Run(ownQuery, map[string]interface{}{
				"badgeID":    badge.ID,
				"employeeID": badge.EmployeeID,
			}); err != nil {
				return nil, acs_errors.ErrDatabaseOperation
			}
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, acs_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create badge",
			zap.Error(err),
			zap.String("badgeID", badge.ID),
			zap.Duration("duration", duration))
		return "", err
	}

	badgeID := fmt.Sprintf("%v", result)
	logger.Info("Badge created successfully",
		zap.String("badgeID", badgeID),
		zap.Duration("duration", duration))

	return badgeID, nil
}

func (dao *BadgeDAO) UpdateBadge(ctx context.Context, badge model.Badge) (*model.Badge, error) {
	start := time.Now()
	logger.Info("Updating badge", zap.String("badgeID", badge.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedBadge *model.Badge
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (b:%s {id: $id})
        SET b += $props
        RETURN b
        `, acs_neo4j.LabelBadge)

		params := map[string]interface{}{
			"id":    badge.ID,
			"props": badgeProps(&badge, false),
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updatedBadge, err = mapNodeToBadge(node)
			if err != nil {
				return nil, fmt.Errorf("failed to map badge node to struct: %w", err)
			}
			return nil, nil
		}

		return nil, acs_errors.ErrBadgeNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update badge",
			zap.Error(err),
			zap.String("badgeID", badge.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Badge updated successfully",
		zap.String("badgeID", badge.ID),
		zap.Duration("duration", duration))

	return updatedBadge, nil
}

// UpdateBadgeStatus flips only the lifecycle status, leaving rotation
// metadata untouched. Used by the rotation workflow when a badge goes
// overdue.
func (dao *BadgeDAO) UpdateBadgeStatus(ctx context.Context, badgeID string, status model.BadgeStatus) error {
	start := time.Now()
	logger.Info("Updating badge status",
		zap.String("badgeID", badgeID),
		zap.String("status", string(status)))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (b:%s {id: $id})
        SET b.status = $status, b.updatedAt = $updatedAt
        RETURN b.id
        `, acs_neo4j.LabelBadge)

		result, err := transaction.Run(query, map[string]interface{}{
			"id":        badgeID,
			"status":    string(status),
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrBadgeNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update badge status",
			zap.Error(err),
			zap.String("badgeID", badgeID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Badge status updated successfully",
		zap.String("badgeID", badgeID),
		zap.Duration("duration", duration))
	return nil
}

// MarkBadgeNeedsRotation flags a badge so the next swipe surfaces the
// update requirement.
func (dao *BadgeDAO) MarkBadgeNeedsRotation(ctx context.Context, badgeID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (b:%s {id: $id})
        SET b.needsRotation = true, b.updatedAt = $updatedAt
        RETURN b.id
        `, acs_neo4j.LabelBadge)

		result, err := transaction.Run(query, map[string]interface{}{
			"id":        badgeID,
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrBadgeNotFound
		}
		return nil, nil
	})

	if err != nil {
		logger.Error("Failed to flag badge for rotation",
			zap.Error(err),
			zap.String("badgeID", badgeID))
		return err
	}

	return nil
}

func (dao *BadgeDAO) DeleteBadge(ctx context.Context, badgeID string) error {
	start := time.Now()
	logger.Info("Deleting badge", zap.String("badgeID", badgeID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (b:%s {id: $id})
        DETACH DELETE b
        `, acs_neo4j.LabelBadge)
		result, err := transaction.Run(query, map[string]interface{}{"id": badgeID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, acs_errors.ErrBadgeNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete badge",
			zap.Error(err),
			zap.String("badgeID", badgeID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Badge deleted successfully",
		zap.String("badgeID", badgeID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *BadgeDAO) GetBadge(ctx context.Context, badgeID string) (*model.Badge, error) {
	start := time.Now()
	logger.Debug("Retrieving badge", zap.String("badgeID", badgeID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (b:%s {id: $id})
    RETURN b
    `, acs_neo4j.LabelBadge)
	result, err := session.Run(query, map[string]interface{}{"id": badgeID})
	if err != nil {
		logger.Error("Failed to execute get badge query",
			zap.Error(err),
			zap.String("badgeID", badgeID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		badge, err := mapNodeToBadge(node)
		if err != nil {
			logger.Error("Failed to map badge node to struct",
				zap.Error(err),
				zap.String("badgeID", badgeID))
			return nil, acs_errors.ErrInternalServer
		}
		return badge, nil
	}

	return nil, acs_errors.ErrBadgeNotFound
}

func (dao *BadgeDAO) ListBadges(ctx context.Context, limit int, offset int) ([]*model.Badge, error) {
	start := time.Now()
	logger.Info("Listing badges", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (b:%s)
    RETURN b
    ORDER BY b.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelBadge)
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list badges query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var badges []*model.Badge
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		badge, err := mapNodeToBadge(node)
		if err != nil {
			return nil, acs_errors.ErrInternalServer
		}
		badges = append(badges, badge)
	}

	logger.Info("Badges listed successfully",
		zap.Int("count", len(badges)),
		zap.Duration("duration", time.Since(start)))

	return badges, nil
}

// ListBadgesDueForRotation returns active badges whose rotation due date is
// at or before the given instant and that are not yet flagged.
func (dao *BadgeDAO) ListBadgesDueForRotation(ctx context.Context, asOf time.Time) ([]*model.Badge, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (b:%s)
    WHERE b.status = $active
      AND b.rotationDueAt IS NOT NULL
      AND b.rotationDueAt <= $asOf
      AND b.needsRotation = false
    RETURN b
    `, acs_neo4j.LabelBadge)
	result, err := session.Run(query, map[string]interface{}{
		"active": string(model.BadgeStatusActive),
		"asOf":   asOf.Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to execute rotation-due badge query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var badges []*model.Badge
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		badge, err := mapNodeToBadge(node)
		if err != nil {
			return nil, acs_errors.ErrInternalServer
		}
		badges = append(badges, badge)
	}

	return badges, nil
}

func badgeProps(badge *model.Badge, create bool) map[string]interface{} {
	props := map[string]interface{}{
		"status":        string(badge.Status),
		"employeeID":    badge.EmployeeID,
		"needsRotation": badge.NeedsRotation,
		"updatedAt":     time.Now().Format(time.RFC3339),
	}
	if create {
		props["createdAt"] = time.Now().Format(time.RFC3339)
	}
	if badge.ExpiresAt != nil {
		props["expiresAt"] = badge.ExpiresAt.Format(time.RFC3339)
	}
	if badge.LastRotatedAt != nil {
		props["lastRotatedAt"] = badge.LastRotatedAt.Format(time.RFC3339)
	}
	if badge.RotationDueAt != nil {
		props["rotationDueAt"] = badge.RotationDueAt.Format(time.RFC3339)
	}
	return props
}

// Helper function to map Neo4j Node to Badge struct
func mapNodeToBadge(node neo4j.Node) (*model.Badge, error) {
	props := node.Props
	badge := &model.Badge{}

	badge.ID = props["id"].(string)
	badge.Status = model.BadgeStatus(props["status"].(string))
	if employeeID, ok := props["employeeID"].(string); ok {
		badge.EmployeeID = employeeID
	}
	if needsRotation, ok := props["needsRotation"].(bool); ok {
		badge.NeedsRotation = needsRotation
	}

	var err error
	if badge.ExpiresAt, err = helper_util.ParseNullableTime(props["expiresAt"]); err != nil {
		return nil, fmt.Errorf("failed to parse badge expiresAt: %w", err)
	}
	if badge.LastRotatedAt, err = helper_util.ParseNullableTime(props["lastRotatedAt"]); err != nil {
		return nil, fmt.Errorf("failed to parse badge lastRotatedAt: %w", err)
	}
	if badge.RotationDueAt, err = helper_util.ParseNullableTime(props["rotationDueAt"]); err != nil {
		return nil, fmt.Errorf("failed to parse badge rotationDueAt: %w", err)
	}

	if createdAt, ok := props["createdAt"].(string); ok {
		badge.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		badge.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return badge, nil
}
