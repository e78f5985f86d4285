package create_appointment

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// participants общие поля обоих видов запроса
type participants struct {
	ActorID    int64
	ClientID   int64
	BusinessID int64
	ServiceID  int64
	StaffID    int64
	Notes      *string
}

func (r *Request) participants() participants {
	return participants{
		ActorID:    r.ActorID,
		ClientID:   r.ClientID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		Notes:      r.Notes,
	}
}

func (r *GridRequest) participants() participants {
	return participants{
		ActorID:    r.ActorID,
		ClientID:   r.ClientID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		Notes:      r.Notes,
	}
}

// validateParticipants валидирует идентификаторы и заметки
func validateParticipants(p participants) error {
	if p.ActorID <= 0 {
		return fmt.Errorf("%w: actorId must be positive", ErrInvalidInput)
	}

	if p.ClientID <= 0 {
		return fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}

	if p.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if p.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if p.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if p.Notes != nil && utf8.RuneCountInString(*p.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateRequest валидирует запрос на произвольное время
func validateRequest(req *Request) error {
	if err := validateParticipants(req.participants()); err != nil {
		return err
	}

	if req.ScheduledFor.IsZero() {
		return fmt.Errorf("%w: scheduledFor is required", ErrInvalidInput)
	}

	if req.ScheduledFor.Second() != 0 || req.ScheduledFor.Nanosecond() != 0 {
		return fmt.Errorf("%w: scheduledFor must be a whole minute", ErrInvalidInput)
	}

	return nil
}

// validateGridRequest валидирует запрос на индекс сетки
func validateGridRequest(req *GridRequest) error {
	if err := validateParticipants(req.participants()); err != nil {
		return err
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartSlot < 0 {
		return fmt.Errorf("%w: startSlot must not be negative", ErrInvalidInput)
	}

	if req.SlotsNeeded <= 0 {
		return fmt.Errorf("%w: slotsNeeded must be positive", ErrInvalidInput)
	}

	return nil
}

// validateService услуга должна принадлежать бизнесу
func validateService(service *domain.Service, businessID int64) error {
	if service.BusinessID != businessID {
		return ErrServiceNotFound
	}
	if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: service id=%d has invalid duration %d", ErrInternal, service.ID, service.DurationMinutes)
	}
	return nil
}

// validateStaff сотрудник должен работать в бизнесе и быть активным
func validateStaff(staff *domain.StaffProfile, businessID int64) error {
	if staff.Staff.BusinessID != businessID || !staff.Staff.IsActive {
		return ErrStaffNotFound
	}
	return nil
}

// validateGridPlacement индекс внутри сетки и число слотов совпадает с расчетным
func validateGridPlacement(cfg domain.BusinessSlotConfiguration, startSlot, slotsNeeded, duration int) error {
	if startSlot < cfg.FirstSlot() || startSlot >= cfg.LastSlot() {
		return fmt.Errorf("%w: startSlot must be within %d..%d", ErrInvalidInput, cfg.FirstSlot(), cfg.LastSlot()-1)
	}
	if want := cfg.SlotsNeeded(duration); slotsNeeded != want {
		return fmt.Errorf("%w: slotsNeeded must be %d for a %d-minute service", ErrInvalidInput, want, duration)
	}
	return nil
}

// minutesFromDayStart время начала по настенным часам дня в зоне бизнеса
func minutesFromDayStart(scheduledFor, day time.Time) int {
	return scheduling.MinuteOfDay(scheduledFor, day.Location())
}

// freeSeat наименьший номер места 1..capacity, не занятый активными записями слота, 0 если мест нет
func freeSeat(appointments []*domain.Appointment, slotKey string, capacity int) int {
	taken := make(map[int]bool, len(appointments))
	for _, a := range appointments {
		if a.IsActive() && a.SlotKey == slotKey {
			taken[a.SeatNo] = true
		}
	}
	for seat := 1; seat <= capacity; seat++ {
		if !taken[seat] {
			return seat
		}
	}
	return 0
}
