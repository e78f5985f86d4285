package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/dayplan"
)

const notifyTimeout = 5 * time.Second

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	tenants         TenantReader
	notifier        Notifier
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	tenants TenantReader,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		tenants:         tenants,
		notifier:        notifier,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Видеть запись может сам клиент или активный сотрудник того же бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// ListStaffDay записи сотрудника на дату в зоне бизнеса. Доступно только сотрудникам бизнеса.
func (s *Service) ListStaffDay(ctx context.Context, req *models.ListStaffDayRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListStaffDay: business=%d, staff=%d, date=%s, user=%d, includeInactive=%t",
		req.BusinessID, req.StaffID, req.Date.Format(domain.DateFormat), req.UserID, req.IncludeInactive)

	if req.BusinessID <= 0 || req.StaffID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: businessId, staffId and date are required", ErrInvalidInput)
	}

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListStaffDay: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		status = &st
	}

	business, err := s.tenants.Business(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, tenant.ErrBusinessNotFound) {
			s.logger.Warn("ListStaffDay: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("ListStaffDay: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListStaffDay - failed to get business: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	staff, err := s.tenants.Staff(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, tenant.ErrStaffNotFound) {
			s.logger.Warn("ListStaffDay: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("ListStaffDay: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: ListStaffDay - failed to get staff: %v", ErrInternal, err)
	}
	if staff.Staff.BusinessID != req.BusinessID {
		s.logger.Warn("ListStaffDay: staff id=%d does not work in business id=%d", req.StaffID, req.BusinessID)
		return nil, ErrStaffNotFound
	}

	day := dayplan.DayStart(req.Date, business.Business.Location())
	list, err := s.appointmentRepo.GetByStaffDay(ctx, domain.StaffDayFilter{
		StaffID:         req.StaffID,
		From:            day,
		To:              day.AddDate(0, 0, 1),
		IncludeInactive: req.IncludeInactive || (status != nil && *status == domain.StatusCancelled),
	})
	if err != nil {
		s.logger.Error("ListStaffDay: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: ListStaffDay - repository error: %v", ErrInternal, err)
	}

	if status != nil {
		filtered := make([]*domain.Appointment, 0, len(list))
		for _, a := range list {
			if a.Status == *status {
				filtered = append(filtered, a)
			}
		}
		list = filtered
	}

	s.logger.Info("ListStaffDay: successfully fetched %d appointments for staff=%d", len(list), req.StaffID)
	return models.FromDomainAppointmentList(list), nil
}

// ListClient история записей клиента. Клиент видит только свои записи.
func (s *Service) ListClient(ctx context.Context, req *models.ListClientRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListClient: client=%d, user=%d", req.ClientID, req.UserID)

	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	if req.ClientID != req.UserID {
		s.logger.Warn("ListClient: user=%d requested history of client=%d", req.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	filter := domain.ClientFilter{ClientID: req.ClientID}
	if req.Status != nil {
		st, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListClient: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		filter.Status = &st
	}

	list, err := s.appointmentRepo.GetByClient(ctx, filter)
	if err != nil {
		s.logger.Error("ListClient: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: ListClient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListClient: successfully fetched %d appointments for client=%d", len(list), req.ClientID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel мягко отменяет запись: статус CANCELLED, причина и время отмены.
// Отменить может клиент или сотрудник бизнеса. После отмены уходит уведомление.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	// Получаем запись
	appointment, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, appointmentID)
		return nil, err
	}

	// Проверяем, можно ли отменить запись
	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return nil, ErrCannotCancel
	}

	now := s.timeProvider.Now()
	cancelled, err := s.appointmentRepo.Cancel(ctx, appointmentID, req.CancellationReason, now)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", appointmentID)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrCannotCancel):
			s.logger.Warn("Cancel: appointment id=%d changed status concurrently", appointmentID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", appointmentID)

	event := notifier.NewEvent(notifier.EventAppointmentCancelled, cancelled, now)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Dispatch(ctx, event); err != nil {
			s.logger.Warn("Cancel: failed to notify about appointment id=%d: %v", event.AppointmentID, err)
		}
	}()

	return models.FromDomainAppointment(cancelled), nil
}

// Вспомогательные методы

// checkUserAccess клиент записи или сотрудник ее бизнеса
func (s *Service) checkUserAccess(ctx context.Context, appointment *domain.Appointment, userID int64) error {
	if appointment.ClientID == userID {
		return nil
	}

	if err := s.checkStaffAccess(ctx, appointment.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkStaffAccess проверяет, что пользователь активный сотрудник бизнеса
func (s *Service) checkStaffAccess(ctx context.Context, businessID int64, userID int64) error {
	staff, err := s.tenants.Staff(ctx, userID)
	if err != nil {
		if errors.Is(err, tenant.ErrStaffNotFound) {
			s.logger.Warn("checkStaffAccess: user=%d is not staff", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get staff id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get staff: %v", ErrInternal, err)
	}

	if staff.Staff.BusinessID != businessID || !staff.Staff.IsActive {
		s.logger.Warn("checkStaffAccess: user=%d is not staff of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	s.logger.Info("checkStaffAccess: user=%d is staff of business=%d", userID, businessID)
	return nil
}
