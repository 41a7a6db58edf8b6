// dao/resource_dao.go
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

type ResourceDAO struct {
	Driver neo4j.Driver
}

func NewResourceDAO(driver neo4j.Driver) *ResourceDAO {
	dao := &ResourceDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Resource", zap.Error(err))
	}
	return dao
}

func (dao *ResourceDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Resource ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT unique_resource_id IF NOT EXISTS
        FOR (r:%s) REQUIRE r.id IS UNIQUE
        `, acs_neo4j.LabelResource)
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Resource ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *ResourceDAO) CreateResource(ctx context.Context, resource model.Resource) (string, error) {
	start := time.Now()
	logger.Info("Creating new resource", zap.String("resourceName", resource.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if resource.ID == "" {
		return "", acs_errors.ErrInvalidResourceData
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MERGE (r:%s {id: $id})
        ON CREATE SET r += $props
        ON MATCH SET r += $props
        RETURN r.id as id
        `, acs_neo4j.LabelResource)

		params := map[string]interface{}{
			"id": resource.ID,
			"props": map[string]interface{}{
				"name":           resource.Name,
				"category":       string(resource.Category),
				"state":          string(resource.State),
				"timeControlled": resource.TimeControlled,
				"createdAt":      time.Now().Format(time.RFC3339),
				"updatedAt":      time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, acs_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create resource",
			zap.Error(err),
			zap.String("resourceName", resource.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	resourceID := fmt.Sprintf("%v", result)
	logger.Info("Resource created successfully",
		zap.String("resourceID", resourceID),
		zap.Duration("duration", duration))

	return resourceID, nil
}

func (dao *ResourceDAO) UpdateResource(ctx context.Context, resource model.Resource) (*model.Resource, error) {
	start := time.Now()
	logger.Info("Updating resource", zap.String("resourceID", resource.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedResource *model.Resource
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (r:%s {id: $id})
        SET r += $props
        RETURN r
        `, acs_neo4j.LabelResource)

		params := map[string]interface{}{
			"id": resource.ID,
			"props": map[string]interface{}{
				"name":           resource.Name,
				"category":       string(resource.Category),
				"state":          string(resource.State),
				"timeControlled": resource.TimeControlled,
				"updatedAt":      time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if result.Next() {
			node := result.Record().Values[0].(neo4j.Node)
			updatedResource = mapNodeToResource(node)
			return nil, nil
		}

		return nil, acs_errors.ErrResourceNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update resource",
			zap.Error(err),
			zap.String("resourceID", resource.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Resource updated successfully",
		zap.String("resourceID", resource.ID),
		zap.Duration("duration", duration))

	return updatedResource, nil
}

// UpdateResourceState transitions only the operational state. Readers and
// maintenance call this far more often than full updates.
func (dao *ResourceDAO) UpdateResourceState(ctx context.Context, resourceID string, state model.ResourceState) error {
	start := time.Now()
	logger.Info("Updating resource state",
		zap.String("resourceID", resourceID),
		zap.String("state", string(state)))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (r:%s {id: $id})
        SET r.state = $state, r.updatedAt = $updatedAt
        RETURN r.id
        `, acs_neo4j.LabelResource)

		result, err := transaction.Run(query, map[string]interface{}{
			"id":        resourceID,
			"state":     string(state),
			"updatedAt": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrResourceNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update resource state",
			zap.Error(err),
			zap.String("resourceID", resourceID),
			zap.Duration("duration", duration))
		return err
	}

	return nil
}

func (dao *ResourceDAO) DeleteResource(ctx context.Context, resourceID string) error {
	start := time.Now()
	logger.Info("Deleting resource", zap.String("resourceID", resourceID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (r:%s {id: $id})
        DETACH DELETE r
        `, acs_neo4j.LabelResource)
		result, err := transaction.Run(query, map[string]interface{}{"id": resourceID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, acs_errors.ErrResourceNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete resource",
			zap.Error(err),
			zap.String("resourceID", resourceID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Resource deleted successfully",
		zap.String("resourceID", resourceID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *ResourceDAO) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	start := time.Now()
	logger.Debug("Retrieving resource", zap.String("resourceID", resourceID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (r:%s {id: $id})
    RETURN r
    `, acs_neo4j.LabelResource)
	result, err := session.Run(query, map[string]interface{}{"id": resourceID})
	if err != nil {
		logger.Error("Failed to execute get resource query",
			zap.Error(err),
			zap.String("resourceID", resourceID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		return mapNodeToResource(node), nil
	}

	return nil, acs_errors.ErrResourceNotFound
}

func (dao *ResourceDAO) ListResources(ctx context.Context, limit int, offset int) ([]*model.Resource, error) {
	start := time.Now()
	logger.Info("Listing resources", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (r:%s)
    RETURN r
    ORDER BY r.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelResource)
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list resources query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var resources []*model.Resource
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		resources = append(resources, mapNodeToResource(node))
	}

	logger.Info("Resources listed successfully",
		zap.Int("count", len(resources)),
		zap.Duration("duration", time.Since(start)))

	return resources, nil
}

func mapNodeToResource(node neo4j.Node) *model.Resource {
	props := node.Props
	resource := &model.Resource{}

	resource.ID = props["id"].(string)
	if name, ok := props["name"].(string); ok {
		resource.Name = name
	}
	if category, ok := props["category"].(string); ok {
		resource.Category = model.ResourceCategory(category)
	}
	if state, ok := props["state"].(string); ok {
		resource.State = model.ResourceState(state)
	}
	if timeControlled, ok := props["timeControlled"].(bool); ok {
		resource.TimeControlled = timeControlled
	}
	if createdAt, ok := props["createdAt"].(string); ok {
		resource.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		resource.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return resource
}
