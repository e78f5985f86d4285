package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// SlotDescriptor кандидат на запись, результат расчета доступности (не хранится).
// В непрерывной модели заполнены StartTime/EndTime, в сеточной SlotIndex.
type SlotDescriptor struct {
	StartTime *types.TimeString
	EndTime   *types.TimeString
	SlotIndex *int

	Available bool
	Reason    string

	AvailableSpots int // свободные места группового слота
	TotalSpots     int // вместимость услуги
}

// IsPartiallyAvailable true, если часть мест группового слота уже занята
func (s *SlotDescriptor) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// OccupancyRate заполненность в процентах (0-100)
func (s *SlotDescriptor) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}
