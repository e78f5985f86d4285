package slotconfig

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotConfigRepository интерфейс репозитория конфигурации сетки
type SlotConfigRepository interface {
	Upsert(ctx context.Context, cfg *domain.BusinessSlotConfiguration) (*domain.BusinessSlotConfiguration, error)
}

// TenantReader бизнес, сотрудники и действующая сетка через кэш
type TenantReader interface {
	Business(ctx context.Context, businessID int64) (*domain.BusinessProfile, error)
	Staff(ctx context.Context, staffID int64) (*domain.StaffProfile, error)
	SlotConfig(ctx context.Context, businessID int64) (domain.BusinessSlotConfiguration, error)
	InvalidateSlotConfig(ctx context.Context, businessID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
