package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
)

// DayPlanService загрузка данных дня
type DayPlanService interface {
	Business(ctx context.Context, businessID int64) (*domain.BusinessProfile, error)
	Staff(ctx context.Context, staffID int64) (*domain.StaffProfile, error)
	ServiceByID(ctx context.Context, serviceID int64) (*domain.Service, error)
	Plan(ctx context.Context, in dayplan.PlanInput) (*scheduling.DayPlan, error)
}

// Engine расчет слотов
type Engine interface {
	Resolve(plan *scheduling.DayPlan) (*scheduling.Result, error)
}

// Metrics учет расчетов доступности
type Metrics interface {
	ObserveAvailability(model, outcome string)
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
