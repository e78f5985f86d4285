package get_availability

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса доступности
type Request struct {
	BusinessID int64
	ServiceID  int64
	StaffID    int64
	Date       time.Time // календарная дата, время игнорируется
}

// ServiceInfo сведения об услуге, которые возвращаются вместе со слотами
type ServiceInfo struct {
	ID              int64
	Name            string
	DurationMinutes int
	SlotsNeeded     int
	Price           float64
	Capacity        int
}

// Response модель ответа: все кандидаты дня в порядке начала
type Response struct {
	BusinessID int64
	StaffID    int64
	Date       time.Time
	Service    ServiceInfo
	Model      domain.SlotModel
	Closed     bool
	Reason     string // причина закрытого дня
	FellBack   bool   // явные окна услуги не разобрались, слоты непрерывные
	Slots      []domain.SlotDescriptor
}
