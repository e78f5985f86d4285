package slotconfig

import "errors"

var (
	// ErrConfigNotFound у бизнеса нет собственной конфигурации сетки
	ErrConfigNotFound = errors.New("slotconfig.repository: config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slotconfig.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slotconfig.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slotconfig.repository: failed to scan row")
)
