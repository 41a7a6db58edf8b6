// errors/access_errors.go
package errors

import "errors"

var (
	ErrBadgeNotFound    = errors.New("badge not found")
	ErrBadgeConflict    = errors.New("badge conflict")
	ErrInvalidBadgeData = errors.New("invalid badge data")

	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeConflict    = errors.New("employee conflict")
	ErrInvalidEmployeeData = errors.New("invalid employee data")

	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupConflict    = errors.New("group conflict")
	ErrInvalidGroupData = errors.New("invalid group data")

	ErrResourceNotFound    = errors.New("resource not found")
	ErrResourceConflict    = errors.New("resource conflict")
	ErrInvalidResourceData = errors.New("invalid resource data")

	ErrProfileNotFound    = errors.New("access profile not found")
	ErrProfileConflict    = errors.New("access profile conflict")
	ErrInvalidProfileData = errors.New("invalid access profile data")

	ErrDependencyNotFound    = errors.New("resource dependency not found")
	ErrInvalidDependencyData = errors.New("invalid resource dependency data")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
)
