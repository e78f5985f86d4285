package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessId must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateService услуга должна принадлежать бизнесу и иметь длительность
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
