package tenant

import "errors"

var (
	ErrBusinessNotFound = errors.New("tenant.repository: business not found")
	ErrStaffNotFound    = errors.New("tenant.repository: staff member not found")
	ErrServiceNotFound  = errors.New("tenant.repository: service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("tenant.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")
)
