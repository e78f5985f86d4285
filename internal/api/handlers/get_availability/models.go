package get_availability

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	BusinessID int64          `json:"businessId"`
	StaffID    int64          `json:"staffId"`
	Date       string         `json:"date"` // "2025-10-15"
	Service    ServiceInfo    `json:"service"`
	SlotModel  string         `json:"slotModel"`
	Closed     bool           `json:"closed"`
	Reason     string         `json:"reason,omitempty"`
	FellBack   bool           `json:"fellBack,omitempty"`
	Slots      []SlotResponse `json:"slots"`
}

type ServiceInfo struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	SlotsNeeded     int     `json:"slotsNeeded"`
	Price           float64 `json:"price"`
	Capacity        int     `json:"capacity"`
}

// SlotResponse кандидат на запись
type SlotResponse struct {
	StartTime      *types.TimeString `json:"startTime,omitempty"` // "10:00"
	EndTime        *types.TimeString `json:"endTime,omitempty"`
	SlotIndex      *int              `json:"slotIndex,omitempty"`
	Available      bool              `json:"available"`
	Reason         string            `json:"reason,omitempty"`
	AvailableSpots int               `json:"availableSpots"`
	TotalSpots     int               `json:"totalSpots"`
	// Групповые услуги
	PartiallyBooked bool       `json:"partiallyBooked"`
	OccupancyRate   float64    `json:"occupancyRate"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(businessID int64, serviceIDStr, staffIDStr, dateStr string) (*getAvailability.Request, error) {
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slot := SlotResponse{
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			SlotIndex:       s.SlotIndex,
			Available:       s.Available,
			Reason:          s.Reason,
			AvailableSpots:  s.AvailableSpots,
			TotalSpots:      s.TotalSpots,
			PartiallyBooked: s.IsPartiallyAvailable(),
			OccupancyRate:   s.OccupancyRate(),
		}
		if s.StartTime != nil {
			if at, err := s.StartTime.On(resp.Date); err == nil {
				slot.StartsAt = &at
			}
		}
		slots = append(slots, slot)
	}

	return &AvailabilityResponse{
		BusinessID: resp.BusinessID,
		StaffID:    resp.StaffID,
		Date:       resp.Date.Format(domain.DateFormat),
		Service: ServiceInfo{
			ID:              resp.Service.ID,
			Name:            resp.Service.Name,
			DurationMinutes: resp.Service.DurationMinutes,
			SlotsNeeded:     resp.Service.SlotsNeeded,
			Price:           resp.Service.Price,
			Capacity:        resp.Service.Capacity,
		},
		SlotModel: string(resp.Model),
		Closed:    resp.Closed,
		Reason:    resp.Reason,
		FellBack:  resp.FellBack,
		Slots:     slots,
	}
}
