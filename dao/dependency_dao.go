// dao/dependency_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	acs_neo4j "github.com/Ricardo-Z-Li/access-control-system-sub000/model/neo4j"
	helper_util "github.com/Ricardo-Z-Li/access-control-system-sub000/util/helper"
)

// DependencyDAO manages DEPENDS_ON edges between resources. The edge
// carries the dependency ID and the optional freshness window.
type DependencyDAO struct {
	Driver neo4j.Driver
}

func NewDependencyDAO(driver neo4j.Driver) *DependencyDAO {
	return &DependencyDAO{Driver: driver}
}

func (dao *DependencyDAO) CreateDependency(ctx context.Context, dep model.ResourceDependency) (string, error) {
	start := time.Now()
	logger.Info("Creating resource dependency",
		zap.String("resourceID", dep.ResourceID),
		zap.String("requiredResourceID", dep.RequiredResourceID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if dep.ID == "" {
		dep.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (r:%s {id: $resourceID})
        MATCH (req:%s {id: $requiredResourceID})
        MERGE (r)-[d:%s {requiredResourceID: $requiredResourceID}]->(req)
        SET d.id = $id,
            d.timeWindowMinutes = $timeWindowMinutes,
            d.createdAt = $createdAt
        RETURN d.id
        `, acs_neo4j.LabelResource, acs_neo4j.LabelResource, acs_neo4j.RelDependsOn)

		result, err := transaction.Run(query, map[string]interface{}{
			"id":                 dep.ID,
			"resourceID":         dep.ResourceID,
			"requiredResourceID": dep.RequiredResourceID,
			"timeWindowMinutes":  dep.TimeWindowMinutes,
			"createdAt":          time.Now().Format(time.RFC3339),
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
		logger.Error("Failed to create resource dependency",
			zap.Error(err),
			zap.String("resourceID", dep.ResourceID),
			zap.Duration("duration", duration))
		return "", err
	}

	logger.Info("Resource dependency created successfully",
		zap.String("dependencyID", dep.ID),
		zap.Duration("duration", duration))
	return dep.ID, nil
}

func (dao *DependencyDAO) DeleteDependency(ctx context.Context, dependencyID string) error {
	start := time.Now()
	logger.Info("Deleting resource dependency", zap.String("dependencyID", dependencyID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (:%s)-[d:%s {id: $id}]->(:%s)
        DELETE d
        `, acs_neo4j.LabelResource, acs_neo4j.RelDependsOn, acs_neo4j.LabelResource)
		result, err := transaction.Run(query, map[string]interface{}{"id": dependencyID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().RelationshipsDeleted() == 0 {
			return nil, acs_errors.ErrDependencyNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete resource dependency",
			zap.Error(err),
			zap.String("dependencyID", dependencyID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Resource dependency deleted successfully",
		zap.String("dependencyID", dependencyID),
		zap.Duration("duration", duration))
	return nil
}

// GetDependenciesForResource returns every prerequisite edge of a resource.
func (dao *DependencyDAO) GetDependenciesForResource(ctx context.Context, resourceID string) ([]*model.ResourceDependency, error) {
	start := time.Now()
	logger.Debug("Retrieving dependencies for resource", zap.String("resourceID", resourceID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (r:%s {id: $resourceID})-[d:%s]->(req:%s)
    RETURN d, req.id as requiredResourceID
    `, acs_neo4j.LabelResource, acs_neo4j.RelDependsOn, acs_neo4j.LabelResource)
	result, err := session.Run(query, map[string]interface{}{"resourceID": resourceID})
	if err != nil {
		logger.Error("Failed to execute dependency query",
			zap.Error(err),
			zap.String("resourceID", resourceID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var deps []*model.ResourceDependency
	for result.Next() {
		record := result.Record()
		rel := record.Values[0].(neo4j.Relationship)
		requiredResourceID := record.Values[1].(string)
		deps = append(deps, mapRelationshipToDependency(rel, resourceID, requiredResourceID))
	}

	return deps, nil
}

func mapRelationshipToDependency(rel neo4j.Relationship, resourceID, requiredResourceID string) *model.ResourceDependency {
	props := rel.Props
	dep := &model.ResourceDependency{
		ResourceID:         resourceID,
		RequiredResourceID: requiredResourceID,
	}

	if id, ok := props["id"].(string); ok {
		dep.ID = id
	}
	if window, ok := props["timeWindowMinutes"].(int64); ok {
		dep.TimeWindowMinutes = int(window)
	}
	if createdAt, ok := props["createdAt"].(string); ok {
		dep.CreatedAt = helper_util.ParseTime(createdAt)
	}

	return dep
}
