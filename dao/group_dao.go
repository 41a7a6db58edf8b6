// dao/group_dao.go
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

type GroupDAO struct {
	Driver neo4j.Driver
}

func NewGroupDAO(driver neo4j.Driver) *GroupDAO {
	dao := &GroupDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Group", zap.Error(err))
	}
	return dao
}

func (dao *GroupDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Group ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT unique_group_id IF NOT EXISTS
        FOR (g:%s) REQUIRE g.id IS UNIQUE
        `, acs_neo4j.LabelGroup)
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Group ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *GroupDAO) CreateGroup(ctx context.Context, group model.Group) (string, error) {
	start := time.Now()
	logger.Info("Creating new group", zap.String("groupName", group.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if group.ID == "" {
		return "", acs_errors.ErrInvalidGroupData
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MERGE (g:%s {id: $id})
        ON CREATE SET g += $props
        ON MATCH SET g += $props
        RETURN g.id as id
        `, acs_neo4j.LabelGroup)

		params := map[string]interface{}{
			"id": group.ID,
			"props": map[string]interface{}{
				"name":        group.Name,
				"description": group.Description,
				"createdAt":   time.Now().Format(time.RFC3339),
				"updatedAt":   time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if err := syncGroupResources(transaction, group.ID, group.ResourceIDs); err != nil {
			return nil, err
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, acs_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create group",
			zap.Error(err),
			zap.String("groupName", group.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	groupID := fmt.Sprintf("%v", result)
	logger.Info("Group created successfully",
		zap.String("groupID", groupID),
		zap.Duration("duration", duration))

	return groupID, nil
}

func (dao *GroupDAO) UpdateGroup(ctx context.Context, group model.Group) (*model.Group, error) {
	start := time.Now()
	logger.Info("Updating group", zap.String("groupID", group.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedGroup *model.Group
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (g:%s {id: $id})
        SET g += $props
        RETURN g
        `, acs_neo4j.LabelGroup)

		params := map[string]interface{}{
			"id": group.ID,
			"props": map[string]interface{}{
				"name":        group.Name,
				"description": group.Description,
				"updatedAt":   time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrGroupNotFound
		}

		node := result.Record().Values[0].(neo4j.Node)
		updatedGroup = mapNodeToGroup(node)
		updatedGroup.MemberIDs = group.MemberIDs
		updatedGroup.ResourceIDs = group.ResourceIDs

		if err := syncGroupResources(transaction, group.ID, group.ResourceIDs); err != nil {
			return nil, err
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update group",
			zap.Error(err),
			zap.String("groupID", group.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Group updated successfully",
		zap.String("groupID", group.ID),
		zap.Duration("duration", duration))

	return updatedGroup, nil
}

func (dao *GroupDAO) DeleteGroup(ctx context.Context, groupID string) error {
	start := time.Now()
	logger.Info("Deleting group", zap.String("groupID", groupID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (g:%s {id: $id})
        DETACH DELETE g
        `, acs_neo4j.LabelGroup)
		result, err := transaction.Run(query, map[string]interface{}{"id": groupID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, acs_errors.ErrGroupNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete group",
			zap.Error(err),
			zap.String("groupID", groupID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Group deleted successfully",
		zap.String("groupID", groupID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *GroupDAO) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	start := time.Now()
	logger.Debug("Retrieving group", zap.String("groupID", groupID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (g:%s {id: $id})
    OPTIONAL MATCH (e:%s)-[:%s]->(g)
    OPTIONAL MATCH (g)-[:%s]->(r:%s)
    RETURN g, collect(DISTINCT e.id) as memberIDs, collect(DISTINCT r.id) as resourceIDs
    `, acs_neo4j.LabelGroup, acs_neo4j.LabelEmployee, acs_neo4j.RelMemberOf,
		acs_neo4j.RelPermits, acs_neo4j.LabelResource)
	result, err := session.Run(query, map[string]interface{}{"id": groupID})
	if err != nil {
		logger.Error("Failed to execute get group query",
			zap.Error(err),
			zap.String("groupID", groupID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		group := mapNodeToGroup(node)
		group.MemberIDs = stringSlice(record.Values[1])
		group.ResourceIDs = stringSlice(record.Values[2])
		return group, nil
	}

	return nil, acs_errors.ErrGroupNotFound
}

func (dao *GroupDAO) ListGroups(ctx context.Context, limit int, offset int) ([]*model.Group, error) {
	start := time.Now()
	logger.Info("Listing groups", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (g:%s)
    OPTIONAL MATCH (e:%s)-[:%s]->(g)
    OPTIONAL MATCH (g)-[:%s]->(r:%s)
    RETURN g, collect(DISTINCT e.id) as memberIDs, collect(DISTINCT r.id) as resourceIDs
    ORDER BY g.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelGroup, acs_neo4j.LabelEmployee, acs_neo4j.RelMemberOf,
		acs_neo4j.RelPermits, acs_neo4j.LabelResource)
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list groups query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var groups []*model.Group
	for result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		group := mapNodeToGroup(node)
		group.MemberIDs = stringSlice(record.Values[1])
		group.ResourceIDs = stringSlice(record.Values[2])
		groups = append(groups, group)
	}

	logger.Info("Groups listed successfully",
		zap.Int("count", len(groups)),
		zap.Duration("duration", time.Since(start)))

	return groups, nil
}

func syncGroupResources(transaction neo4j.Transaction, groupID string, resourceIDs []string) error {
	clearQuery := fmt.Sprintf(`
    MATCH (g:%s {id: $id})-[p:%s]->(:%s)
    DELETE p
    `, acs_neo4j.LabelGroup, acs_neo4j.RelPermits, acs_neo4j.LabelResource)
	if _, err := transaction.Run(clearQuery, map[string]interface{}{"id": groupID}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}

	if len(resourceIDs) == 0 {
		return nil
	}

	linkQuery := fmt.Sprintf(`
    MATCH (g:%s {id: $id})
    UNWIND $resourceIDs as resourceID
    MATCH (r:%s {id: resourceID})
    MERGE (g)-[:%s]->(r)
    `, acs_neo4j.LabelGroup, acs_neo4j.LabelResource, acs_neo4j.RelPermits)
	if _, err := transaction.Run(linkQuery, map[string]interface{}{
		"id":          groupID,
		"resourceIDs": resourceIDs,
	}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}
	return nil
}

func mapNodeToGroup(node neo4j.Node) *model.Group {
	props := node.Props
	group := &model.Group{}

	group.ID = props["id"].(string)
	if name, ok := props["name"].(string); ok {
		group.Name = name
	}
	if description, ok := props["description"].(string); ok {
		group.Description = description
	}
	if createdAt, ok := props["createdAt"].(string); ok {
		group.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		group.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return group
}
