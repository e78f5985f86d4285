package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByStaffDay(ctx context.Context, filter domain.StaffDayFilter) ([]*domain.Appointment, error)
	GetByClient(ctx context.Context, filter domain.ClientFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Appointment, error)
}

// TenantReader бизнес и сотрудники (через кэш)
type TenantReader interface {
	Business(ctx context.Context, businessID int64) (*domain.BusinessProfile, error)
	Staff(ctx context.Context, staffID int64) (*domain.StaffProfile, error)
}

// Notifier отправка событий о записях
type Notifier interface {
	Dispatch(ctx context.Context, event notifier.Event) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
