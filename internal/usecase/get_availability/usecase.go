package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
)

// Исходы расчета для метрик
const (
	outcomeOpen     = "open"
	outcomeClosed   = "closed"
	outcomeFallback = "fallback"
)

// UseCase use case для расчета доступности сотрудника на дату
type UseCase struct {
	dayPlans     DayPlanService
	engine       Engine
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(dayPlans DayPlanService, engine Engine, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		dayPlans:     dayPlans,
		engine:       engine,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет расчет. Закрытый день и пустое окно это результат, а не ошибка.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, service=%d, staff=%d, date=%s",
		req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Бизнес
	business, err := uc.dayPlans.Business(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, tenant.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailability: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailability: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Услуга
	service, err := uc.dayPlans.ServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, tenant.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if err := validateService(service, req.BusinessID); err != nil {
		uc.logger.Warn("GetAvailability: service id=%d rejected: %v", req.ServiceID, err)
		return nil, err
	}

	// 4. Сотрудник
	staff, err := uc.dayPlans.Staff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, tenant.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailability: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailability: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if err := validateStaff(staff, req.BusinessID); err != nil {
		uc.logger.Warn("GetAvailability: staff id=%d does not work in business id=%d", req.StaffID, req.BusinessID)
		return nil, err
	}

	// 5. Данные дня: сетка и записи сотрудника
	plan, err := uc.dayPlans.Plan(ctx, dayplan.PlanInput{
		Business: business,
		Staff:    staff,
		Service:  service,
		Date:     req.Date,
		Now:      uc.timeProvider.Now(),
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to load day plan: %v", err)
		return nil, fmt.Errorf("%w: failed to load day plan: %v", ErrInternal, err)
	}

	// 6. Расчет слотов
	result, err := uc.engine.Resolve(plan)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to resolve slots: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve slots: %v", ErrInternal, err)
	}

	outcome := outcomeOpen
	switch {
	case result.Closed:
		outcome = outcomeClosed
		uc.logger.Info("GetAvailability: day is closed: %s", result.Reason)
	case result.FellBack:
		outcome = outcomeFallback
	}
	uc.metrics.ObserveAvailability(string(result.Model), outcome)

	available := 0
	for _, s := range result.Slots {
		if s.Available {
			available++
		}
	}
	uc.logger.Info("GetAvailability: %d of %d slots available (model=%s)", available, len(result.Slots), result.Model)

	return &Response{
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		Date:       plan.Date,
		Service: ServiceInfo{
			ID:              service.ID,
			Name:            service.Name,
			DurationMinutes: service.DurationMinutes,
			SlotsNeeded:     result.SlotsNeeded,
			Price:           service.Price,
			Capacity:        service.EffectiveCapacity(),
		},
		Model:    result.Model,
		Closed:   result.Closed,
		Reason:   result.Reason,
		FellBack: result.FellBack,
		Slots:    result.Slots,
	}, nil
}
