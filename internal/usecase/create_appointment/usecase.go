package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/clientdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const (
	// outcomeCommitted исход успешной записи для метрик, отказы пишутся кодом
	outcomeCommitted = "committed"

	notifyTimeout = 5 * time.Second
)

// UseCase use case для создания записи.
// Проверка слота и вставка выполняются в одной сериализуемой транзакции,
// гонки между транзакциями дополнительно закрыты ограничениями БД.
type UseCase struct {
	dayPlans     DayPlanService
	engine       Engine
	appointments AppointmentRepository
	clients      ClientDirectory
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	dayPlans DayPlanService,
	engine Engine,
	appointments AppointmentRepository,
	clients ClientDirectory,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		dayPlans:     dayPlans,
		engine:       engine,
		appointments: appointments,
		clients:      clients,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// subject проверенные бизнес, услуга и сотрудник
type subject struct {
	business *domain.BusinessProfile
	service  *domain.Service
	staff    *domain.StaffProfile
}

// placement куда ставится запись внутри дня
type placement struct {
	start       int // минуты от полуночи
	duration    int
	slotIndex   *int
	slotsNeeded int
}

// Execute создает запись на произвольное время
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: actor=%d, client=%d, business=%d, service=%d, staff=%d, at=%s",
		req.ActorID, req.ClientID, req.BusinessID, req.ServiceID, req.StaffID, req.ScheduledFor.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return uc.finish(nil, err)
	}

	// 2. Бизнес, услуга, сотрудник, права и допуск клиента
	subj, err := uc.prepare(ctx, req.participants())
	if err != nil {
		return uc.finish(nil, err)
	}

	if subj.service.SlotModel == domain.SlotModelGrid {
		uc.logger.Warn("CreateAppointment: service id=%d uses the slot grid", req.ServiceID)
		return uc.finish(nil, fmt.Errorf("%w: service is booked by grid slot index", ErrInvalidInput))
	}

	// 3. Время не должно быть в прошлом
	now := uc.timeProvider.Now()
	if !req.ScheduledFor.After(now) {
		uc.logger.Warn("CreateAppointment: scheduledFor=%s is not after now", req.ScheduledFor.Format(time.RFC3339))
		return uc.finish(nil, ErrPastDatetime)
	}

	day := scheduling.StartOfDay(req.ScheduledFor, subj.business.Business.Location())
	start := minutesFromDayStart(req.ScheduledFor, day)
	if start+subj.service.DurationMinutes > 24*60 {
		uc.logger.Warn("CreateAppointment: appointment at %s crosses midnight", req.ScheduledFor.Format(time.RFC3339))
		return uc.finish(nil, fmt.Errorf("%w: appointment must end on the same day", ErrSlotNotAvailable))
	}

	// 4. Повторная проверка слота и вставка
	resp, err := uc.commit(ctx, req.participants(), subj, day, now,
		func(plan *scheduling.DayPlan) (placement, domain.SlotDescriptor, error) {
			slot, err := uc.engine.CheckStart(plan, start)
			return placement{start: start, duration: subj.service.DurationMinutes, slotsNeeded: 1}, slot, err
		})
	return uc.finish(resp, err)
}

// ExecuteGrid создает запись на индекс сетки слотов бизнеса
func (uc *UseCase) ExecuteGrid(ctx context.Context, req *GridRequest) (*Response, error) {
	uc.logger.Info("CreateAppointment: grid actor=%d, client=%d, business=%d, service=%d, staff=%d, date=%s, slot=%d",
		req.ActorID, req.ClientID, req.BusinessID, req.ServiceID, req.StaffID, req.Date.Format(domain.DateFormat), req.StartSlot)

	// 1. Валидация входных данных
	if err := validateGridRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return uc.finish(nil, err)
	}

	// 2. Бизнес, услуга, сотрудник, права и допуск клиента
	subj, err := uc.prepare(ctx, req.participants())
	if err != nil {
		return uc.finish(nil, err)
	}

	if subj.service.SlotModel != domain.SlotModelGrid {
		uc.logger.Warn("CreateAppointment: service id=%d does not use the slot grid", req.ServiceID)
		return uc.finish(nil, fmt.Errorf("%w: service is booked by start time", ErrInvalidInput))
	}

	// 3. Дата не должна быть в прошлом
	now := uc.timeProvider.Now()
	loc := subj.business.Business.Location()
	day := dayplan.DayStart(req.Date, loc)
	if day.Before(scheduling.StartOfDay(now, loc)) {
		uc.logger.Warn("CreateAppointment: date=%s is in the past", req.Date.Format(domain.DateFormat))
		return uc.finish(nil, ErrPastDatetime)
	}

	// 4. Повторная проверка слота и вставка
	resp, err := uc.commit(ctx, req.participants(), subj, day, now,
		func(plan *scheduling.DayPlan) (placement, domain.SlotDescriptor, error) {
			cfg := plan.SlotConfig
			if err := validateGridPlacement(cfg, req.StartSlot, req.SlotsNeeded, subj.service.DurationMinutes); err != nil {
				return placement{}, domain.SlotDescriptor{}, err
			}

			index := req.StartSlot
			p := placement{
				start:       cfg.IndexToMinutes(index),
				duration:    subj.service.DurationMinutes,
				slotIndex:   &index,
				slotsNeeded: req.SlotsNeeded,
			}
			if !scheduling.AtMinute(day, p.start).After(now) {
				return p, domain.SlotDescriptor{}, ErrPastDatetime
			}

			slot, err := uc.engine.CheckGridStart(plan, index)
			return p, slot, err
		})
	return uc.finish(resp, err)
}

// prepare загружает и проверяет бизнес, услугу и сотрудника, права и допуск клиента
func (uc *UseCase) prepare(ctx context.Context, p participants) (subject, error) {
	// Бизнес
	business, err := uc.dayPlans.Business(ctx, p.BusinessID)
	if err != nil {
		if errors.Is(err, tenant.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", p.BusinessID)
			return subject{}, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", p.BusinessID, err)
		return subject{}, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// Права: клиент записывает себя или сотрудник бизнеса записывает клиента
	if err := uc.checkActor(ctx, p); err != nil {
		return subject{}, err
	}

	// Услуга
	service, err := uc.dayPlans.ServiceByID(ctx, p.ServiceID)
	if err != nil {
		if errors.Is(err, tenant.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", p.ServiceID)
			return subject{}, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", p.ServiceID, err)
		return subject{}, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if err := validateService(service, p.BusinessID); err != nil {
		uc.logger.Warn("CreateAppointment: service id=%d rejected: %v", p.ServiceID, err)
		return subject{}, err
	}

	// Сотрудник
	staff, err := uc.dayPlans.Staff(ctx, p.StaffID)
	if err != nil {
		if errors.Is(err, tenant.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found", p.StaffID)
			return subject{}, ErrStaffNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", p.StaffID, err)
		return subject{}, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if err := validateStaff(staff, p.BusinessID); err != nil {
		uc.logger.Warn("CreateAppointment: staff id=%d does not work in business id=%d", p.StaffID, p.BusinessID)
		return subject{}, err
	}

	// Допуск клиента. Недоступность справочника не блокирует запись.
	client, err := uc.clients.GetClientWithGracefulDegradation(ctx, p.BusinessID, p.ClientID)
	switch {
	case errors.Is(err, clientdirectory.ErrServiceDegraded):
		uc.logger.Warn("CreateAppointment: client directory degraded, skipping eligibility check for client=%d", p.ClientID)
	case errors.Is(err, clientdirectory.ErrClientNotFound):
		uc.logger.Warn("CreateAppointment: client id=%d is not a client of business id=%d", p.ClientID, p.BusinessID)
		return subject{}, ErrClientNotEligible
	case err != nil:
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", p.ClientID, err)
		return subject{}, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	case !client.Eligible:
		uc.logger.Warn("CreateAppointment: client id=%d is not eligible", p.ClientID)
		return subject{}, ErrClientNotEligible
	}

	return subject{business: business, service: service, staff: staff}, nil
}

// checkActor сверяет инициатора записи с клиентом и сотрудниками бизнеса
func (uc *UseCase) checkActor(ctx context.Context, p participants) error {
	if p.ActorID == p.ClientID {
		return nil
	}

	actor, err := uc.dayPlans.Staff(ctx, p.ActorID)
	if err != nil {
		if errors.Is(err, tenant.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: actor=%d is neither the client nor staff", p.ActorID)
			return ErrAccessDenied
		}
		uc.logger.Error("CreateAppointment: failed to get actor id=%d: %v", p.ActorID, err)
		return fmt.Errorf("%w: failed to get actor: %v", ErrInternal, err)
	}
	if actor.Staff.BusinessID != p.BusinessID || !actor.Staff.IsActive {
		uc.logger.Warn("CreateAppointment: actor=%d is not staff of business id=%d", p.ActorID, p.BusinessID)
		return ErrAccessDenied
	}
	return nil
}

// commit выполняет проверку и вставку в сериализуемой транзакции
func (uc *UseCase) commit(
	ctx context.Context,
	p participants,
	subj subject,
	day time.Time,
	now time.Time,
	place func(plan *scheduling.DayPlan) (placement, domain.SlotDescriptor, error),
) (*Response, error) {
	var (
		created *domain.Appointment
		pos     placement
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Записи сотрудника на день читаются с блокировкой (FOR UPDATE)
		plan, err := uc.dayPlans.Plan(txCtx, dayplan.PlanInput{
			Business: subj.business,
			Staff:    subj.staff,
			Service:  subj.service,
			Date:     day,
			Now:      now,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to load day plan: %v", err)
			return fmt.Errorf("%w: failed to load day plan: %w", ErrInternal, err)
		}

		var slot domain.SlotDescriptor
		pos, slot, err = place(plan)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrPastDatetime) {
				uc.logger.Warn("CreateAppointment: placement rejected: %v", err)
				return err
			}
			uc.logger.Error("CreateAppointment: failed to check slot: %v", err)
			return fmt.Errorf("%w: failed to check slot: %v", ErrInternal, err)
		}

		// Клиент уже записан в этот слот
		if uc.engine.Occupancy(plan).ClientEnrolled(p.ClientID, pos.start) {
			uc.logger.Warn("CreateAppointment: client=%d already enrolled at minute %d", p.ClientID, pos.start)
			return ErrAlreadyEnrolled
		}

		if !slot.Available {
			return uc.rejectSlot(slot)
		}

		// Место в групповом слоте
		scheduledFor := scheduling.AtMinute(day, pos.start)
		capacity := subj.service.EffectiveCapacity()
		slotKey := domain.GroupSlotKey(subj.service.ID, subj.staff.Staff.ID, scheduledFor)
		seat := freeSeat(plan.Appointments, slotKey, capacity)
		if seat == 0 {
			uc.logger.Warn("CreateAppointment: no free seat in slot %s", slotKey)
			return ErrCapacityExceeded
		}

		uc.logger.Info("CreateAppointment: slot available, seat %d of %d", seat, capacity)

		appointment := &domain.Appointment{
			BusinessID:      p.BusinessID,
			StaffID:         subj.staff.Staff.ID,
			ClientID:        p.ClientID,
			ServiceID:       subj.service.ID,
			ScheduledFor:    scheduledFor,
			DurationMinutes: pos.duration,
			Status:          domain.StatusConfirmed,
			SlotKey:         slotKey,
			SeatNo:          seat,
			Notes:           p.Notes,
		}

		created, err = uc.appointments.Create(txCtx, appointment)
		if err != nil {
			return uc.mapCreateError(err, capacity)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CreateAppointment: serialization conflicts persisted: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		if RejectionCode(err) == domain.RejectInternal && !errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateAppointment: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", created.ID)

	// 5. Уведомление после фиксации, ошибки только логируются
	uc.notifyCreated(created, now)

	return &Response{
		ID:              created.ID,
		BusinessID:      created.BusinessID,
		StaffID:         created.StaffID,
		ClientID:        created.ClientID,
		ServiceID:       created.ServiceID,
		ScheduledFor:    created.ScheduledFor,
		EndsAt:          created.EndsAt(),
		DurationMinutes: created.DurationMinutes,
		SlotIndex:       pos.slotIndex,
		SlotsNeeded:     pos.slotsNeeded,
		SeatNo:          created.SeatNo,
		Status:          string(created.Status),
		ServiceName:     subj.service.Name,
		ServicePrice:    subj.service.Price,
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
		UpdatedAt:       created.UpdatedAt,
	}, nil
}

// rejectSlot переводит причину недоступности слота в ошибку
func (uc *UseCase) rejectSlot(slot domain.SlotDescriptor) error {
	uc.logger.Warn("CreateAppointment: slot rejected: %s", slot.Reason)

	switch slot.Reason {
	case domain.ReasonCapacityExhausted:
		return ErrCapacityExceeded
	case domain.ReasonPastTime, domain.ReasonPastDate:
		return ErrPastDatetime
	case domain.ReasonOffStep:
		return fmt.Errorf("%w: start time is not on the %d-minute step", ErrInvalidInput, domain.ContinuousStepMinutes)
	default:
		return fmt.Errorf("%w: %s", ErrSlotNotAvailable, slot.Reason)
	}
}

// mapCreateError переводит нарушения ограничений БД в отказы
func (uc *UseCase) mapCreateError(err error, capacity int) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrOverlap):
		uc.logger.Warn("CreateAppointment: overlap detected by database: %v", err)
		return ErrSlotNotAvailable
	case errors.Is(err, appointmentRepo.ErrSeatTaken):
		uc.logger.Warn("CreateAppointment: seat taken concurrently")
		if capacity > 1 {
			return ErrCapacityExceeded
		}
		return ErrSlotNotAvailable
	case errors.Is(err, appointmentRepo.ErrAlreadyEnrolled):
		uc.logger.Warn("CreateAppointment: client enrolled concurrently")
		return ErrAlreadyEnrolled
	default:
		uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
		return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
	}
}

// notifyCreated отправляет событие в фоне
func (uc *UseCase) notifyCreated(a *domain.Appointment, now time.Time) {
	event := notifier.NewEvent(notifier.EventAppointmentCreated, a, now)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.Dispatch(ctx, event); err != nil {
			uc.logger.Warn("CreateAppointment: failed to notify about appointment id=%d: %v", event.AppointmentID, err)
		}
	}()
}

// finish учитывает исход в метриках
func (uc *UseCase) finish(resp *Response, err error) (*Response, error) {
	if err != nil {
		uc.metrics.ObserveEnrollment(string(RejectionCode(err)))
		return nil, err
	}
	uc.metrics.ObserveEnrollment(outcomeCommitted)
	return resp, nil
}
