// dao/employee_dao.go
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

type EmployeeDAO struct {
	Driver neo4j.Driver
}

func NewEmployeeDAO(driver neo4j.Driver) *EmployeeDAO {
	dao := &EmployeeDAO{Driver: driver}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint for Employee", zap.Error(err))
	}
	return dao
}

func (dao *EmployeeDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Employee ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        CREATE CONSTRAINT unique_employee_id IF NOT EXISTS
        FOR (e:%s) REQUIRE e.id IS UNIQUE
        `, acs_neo4j.LabelEmployee)
		_, err := transaction.Run(query, nil)
		return nil, err
	})

	if err != nil {
		logger.Error("Failed to ensure unique constraint on Employee ID", zap.Error(err))
		return err
	}

	return nil
}

func (dao *EmployeeDAO) CreateEmployee(ctx context.Context, employee model.Employee) (string, error) {
	start := time.Now()
	logger.Info("Creating new employee", zap.String("employeeID", employee.ID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if employee.ID == "" {
		return "", acs_errors.ErrInvalidEmployeeData
	}

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MERGE (e:%s {id: $id})
        ON CREATE SET e += $props
        ON MATCH SET e += $props
        RETURN e.id as id
        `, acs_neo4j.LabelEmployee)

		params := map[string]interface{}{
			"id": employee.ID,
			"props": map[string]interface{}{
				"name":      employee.Name,
				"role":      employee.Role,
				"badgeID":   employee.BadgeID,
				"createdAt": time.Now().Format(time.RFC3339),
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if err := syncEmployeeGroups(transaction, employee.ID, employee.GroupIDs); err != nil {
			return nil, err
		}

		if result.Next() {
			return result.Record().Values[0], nil
		}

		return nil, acs_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create employee",
			zap.Error(err),
			zap.String("employeeID", employee.ID),
			zap.Duration("duration", duration))
		return "", err
	}

	employeeID := fmt.Sprintf("%v", result)
	logger.Info("Employee created successfully",
		zap.String("employeeID", employeeID),
		zap.Duration("duration", duration))

	return employeeID, nil
}

func (dao *EmployeeDAO) UpdateEmployee(ctx context.Context, employee model.Employee) (*model.Employee, error) {
	start := time.Now()
	logger.Info("Updating employee", zap.String("employeeID", employee.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	var updatedEmployee *model.Employee
	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (e:%s {id: $id})
        SET e += $props
        RETURN e
        `, acs_neo4j.LabelEmployee)

		params := map[string]interface{}{
			"id": employee.ID,
			"props": map[string]interface{}{
				"name":      employee.Name,
				"role":      employee.Role,
				"badgeID":   employee.BadgeID,
				"updatedAt": time.Now().Format(time.RFC3339),
			},
		}

		result, err := transaction.Run(query, params)
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if !result.Next() {
			return nil, acs_errors.ErrEmployeeNotFound
		}

		node := result.Record().Values[0].(neo4j.Node)
		updatedEmployee = mapNodeToEmployee(node)
		updatedEmployee.GroupIDs = employee.GroupIDs

		if err := syncEmployeeGroups(transaction, employee.ID, employee.GroupIDs); err != nil {
			return nil, err
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update employee",
			zap.Error(err),
			zap.String("employeeID", employee.ID),
			zap.Duration("duration", duration))
		return nil, err
	}

	logger.Info("Employee updated successfully",
		zap.String("employeeID", employee.ID),
		zap.Duration("duration", duration))

	return updatedEmployee, nil
}

func (dao *EmployeeDAO) DeleteEmployee(ctx context.Context, employeeID string) error {
	start := time.Now()
	logger.Info("Deleting employee", zap.String("employeeID", employeeID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := fmt.Sprintf(`
        MATCH (e:%s {id: $id})
        DETACH DELETE e
        `, acs_neo4j.LabelEmployee)
		result, err := transaction.Run(query, map[string]interface{}{"id": employeeID})
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		summary, err := result.Consume()
		if err != nil {
			return nil, acs_errors.ErrDatabaseOperation
		}

		if summary.Counters().NodesDeleted() == 0 {
			return nil, acs_errors.ErrEmployeeNotFound
		}

		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete employee",
			zap.Error(err),
			zap.String("employeeID", employeeID),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Employee deleted successfully",
		zap.String("employeeID", employeeID),
		zap.Duration("duration", duration))
	return nil
}

func (dao *EmployeeDAO) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	start := time.Now()
	logger.Debug("Retrieving employee", zap.String("employeeID", employeeID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (e:%s {id: $id})
    OPTIONAL MATCH (e)-[:%s]->(g:%s)
    RETURN e, collect(g.id) as groupIDs
    `, acs_neo4j.LabelEmployee, acs_neo4j.RelMemberOf, acs_neo4j.LabelGroup)
	result, err := session.Run(query, map[string]interface{}{"id": employeeID})
	if err != nil {
		logger.Error("Failed to execute get employee query",
			zap.Error(err),
			zap.String("employeeID", employeeID),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	if result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		employee := mapNodeToEmployee(node)
		employee.GroupIDs = stringSlice(record.Values[1])
		return employee, nil
	}

	return nil, acs_errors.ErrEmployeeNotFound
}

func (dao *EmployeeDAO) ListEmployees(ctx context.Context, limit int, offset int) ([]*model.Employee, error) {
	start := time.Now()
	logger.Info("Listing employees", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := fmt.Sprintf(`
    MATCH (e:%s)
    OPTIONAL MATCH (e)-[:%s]->(g:%s)
    RETURN e, collect(g.id) as groupIDs
    ORDER BY e.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelEmployee, acs_neo4j.RelMemberOf, acs_neo4j.LabelGroup)
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list employees query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var employees []*model.Employee
	for result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		employee := mapNodeToEmployee(node)
		employee.GroupIDs = stringSlice(record.Values[1])
		employees = append(employees, employee)
	}

	logger.Info("Employees listed successfully",
		zap.Int("count", len(employees)),
		zap.Duration("duration", time.Since(start)))

	return employees, nil
}

func (dao *EmployeeDAO) SearchEmployees(ctx context.Context, criteria model.EmployeeSearchCriteria) ([]*model.Employee, error) {
	start := time.Now()

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	conditions := ""
	params := map[string]interface{}{}
	if criteria.Name != "" {
		conditions += " AND toLower(e.name) CONTAINS toLower($name)"
		params["name"] = criteria.Name
	}
	if criteria.Role != "" {
		conditions += " AND e.role = $role"
		params["role"] = criteria.Role
	}
	if criteria.GroupID != "" {
		conditions += fmt.Sprintf(" AND (e)-[:%s]->(:%s {id: $groupID})", acs_neo4j.RelMemberOf, acs_neo4j.LabelGroup)
		params["groupID"] = criteria.GroupID
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = 10
	}
	params["limit"] = limit
	params["offset"] = criteria.Offset

	query := fmt.Sprintf(`
    MATCH (e:%s)
    WHERE true %s
    OPTIONAL MATCH (e)-[:%s]->(g:%s)
    RETURN e, collect(g.id) as groupIDs
    ORDER BY e.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `, acs_neo4j.LabelEmployee, conditions, acs_neo4j.RelMemberOf, acs_neo4j.LabelGroup)

	result, err := session.Run(query, params)
	if err != nil {
		logger.Error("Failed to execute employee search query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, acs_errors.ErrDatabaseOperation
	}

	var employees []*model.Employee
	for result.Next() {
		record := result.Record()
		node := record.Values[0].(neo4j.Node)
		employee := mapNodeToEmployee(node)
		employee.GroupIDs = stringSlice(record.Values[1])
		employees = append(employees, employee)
	}

	return employees, nil
}

func syncEmployeeGroups(transaction neo4j.Transaction, employeeID string, groupIDs []string) error {
	clearQuery := fmt.Sprintf(`
    MATCH (e:%s {id: $id})-[m:%s]->(:%s)
    DELETE m
    `, acs_neo4j.LabelEmployee, acs_neo4j.RelMemberOf, acs_neo4j.LabelGroup)
	if _, err := transaction.Run(clearQuery, map[string]interface{}{"id": employeeID}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}

	if len(groupIDs) == 0 {
		return nil
	}

	linkQuery := fmt.Sprintf(`
    MATCH (e:%s {id: $id})
    UNWIND $groupIDs as groupID
    MATCH (g:%s {id: groupID})
    MERGE (e)-[:%s]->(g)
    `, acs_neo4j.LabelEmployee, acs_neo4j.LabelGroup, acs_neo4j.RelMemberOf)
	if _, err := transaction.Run(linkQuery, map[string]interface{}{
		"id":       employeeID,
		"groupIDs": groupIDs,
	}); err != nil {
		return acs_errors.ErrDatabaseOperation
	}
	return nil
}

func mapNodeToEmployee(node neo4j.Node) *model.Employee {
	props := node.Props
	employee := &model.Employee{}

	employee.ID = props["id"].(string)
	if name, ok := props["name"].(string); ok {
		employee.Name = name
	}
	if role, ok := props["role"].(string); ok {
		employee.Role = role
	}
	if badgeID, ok := props["badgeID"].(string); ok {
		employee.BadgeID = badgeID
	}
	if createdAt, ok := props["createdAt"].(string); ok {
		employee.CreatedAt = helper_util.ParseTime(createdAt)
	}
	if updatedAt, ok := props["updatedAt"].(string); ok {
		employee.UpdatedAt = helper_util.ParseTime(updatedAt)
	}

	return employee
}

// stringSlice converts a neo4j list value to []string, skipping nulls left
// by OPTIONAL MATCH.
func stringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
