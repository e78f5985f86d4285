package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
)

// DayPlanService загрузка бизнеса, услуги, сотрудника и данных дня
type DayPlanService interface {
	Business(ctx context.Context, businessID int64) (*domain.BusinessProfile, error)
	Staff(ctx context.Context, staffID int64) (*domain.StaffProfile, error)
	ServiceByID(ctx context.Context, serviceID int64) (*domain.Service, error)
	Plan(ctx context.Context, in dayplan.PlanInput) (*scheduling.DayPlan, error)
}

// Engine повторная проверка выбранного слота
type Engine interface {
	CheckStart(plan *scheduling.DayPlan, start int) (domain.SlotDescriptor, error)
	CheckGridStart(plan *scheduling.DayPlan, startSlot int) (domain.SlotDescriptor, error)
	Occupancy(plan *scheduling.DayPlan) scheduling.Occupancy
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// ClientDirectory справочник клиентов
type ClientDirectory interface {
	GetClientWithGracefulDegradation(ctx context.Context, businessID, clientID int64) (*domain.Client, error)
}

// Notifier отправка событий о записях
type Notifier interface {
	Dispatch(ctx context.Context, event notifier.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics учет исходов записи
type Metrics interface {
	ObserveEnrollment(outcome string)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
