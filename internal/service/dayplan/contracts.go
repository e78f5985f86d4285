package dayplan

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// TenantRepository данные арендаторов
type TenantRepository interface {
	GetBusinessProfile(ctx context.Context, businessID int64) (*domain.BusinessProfile, error)
	GetStaffProfile(ctx context.Context, staffID int64) (*domain.StaffProfile, error)
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
}

// SlotConfigRepository конфигурация сетки слотов
type SlotConfigRepository interface {
	GetByBusinessID(ctx context.Context, businessID int64) (*domain.BusinessSlotConfiguration, error)
}

// AppointmentRepository записи сотрудника
type AppointmentRepository interface {
	GetByStaffDay(ctx context.Context, filter domain.StaffDayFilter) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
