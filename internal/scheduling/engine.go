package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// DayPlan все, что нужно для расчета доступности сотрудника на дату
type DayPlan struct {
	Date         time.Time // полночь даты в зоне бизнеса
	Now          time.Time
	Business     *domain.BusinessProfile
	Staff        *domain.StaffProfile
	Service      *domain.Service
	SlotConfig   domain.BusinessSlotConfiguration
	Appointments []*domain.Appointment // записи сотрудника на дату
}

// Result результат расчета доступности
type Result struct {
	Model       domain.SlotModel
	Closed      bool
	Reason      string
	Window      Window
	SlotsNeeded int
	// FellBack true, если явные окна услуги не разобрались и слоты посчитаны непрерывной моделью
	FellBack bool
	Slots    []domain.SlotDescriptor
}

// Engine сводит ограничения дня и занятость в список кандидатов.
// Не хранит состояния между вызовами и безопасен для конкурентного использования.
type Engine struct {
	logger Logger
}

// NewEngine создает движок расчета слотов
func NewEngine(logger Logger) *Engine {
	return &Engine{logger: logger}
}

// Resolve рассчитывает все кандидаты на день по модели услуги
func (e *Engine) Resolve(plan *DayPlan) (*Result, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	result := &Result{Model: modelOf(plan.Service), Slots: []domain.SlotDescriptor{}}
	if result.Model == domain.SlotModelGrid {
		result.SlotsNeeded = plan.SlotConfig.SlotsNeeded(plan.Service.DurationMinutes)
	} else {
		result.SlotsNeeded = 1
	}

	// Прошедшая дата: расчет не нужен
	if plan.Date.Before(startOfDay(plan.Now, plan.Date.Location())) {
		result.Closed = true
		result.Reason = domain.ReasonPastDate
		return result, nil
	}

	window, err := e.window(plan)
	if err != nil {
		return nil, err
	}
	result.Window = window
	if window.Closed {
		result.Closed = true
		result.Reason = window.Reason
		return result, nil
	}

	occ := occupancy(plan, window)

	switch result.Model {
	case domain.SlotModelGrid:
		layout := NewGridLayout(plan.SlotConfig, window, plan.Service.DurationMinutes)
		result.Slots = GenerateGrid(layout, occ)

	default:
		slots, fellBack := e.continuousOrExplicit(plan, window, occ)
		result.Slots = slots
		result.FellBack = fellBack
	}

	return result, nil
}

// CheckStart повторная проверка начала (минуты от полуночи) для непрерывной модели при создании записи
func (e *Engine) CheckStart(plan *DayPlan, start int) (domain.SlotDescriptor, error) {
	if err := validatePlan(plan); err != nil {
		return domain.SlotDescriptor{}, err
	}

	duration := plan.Service.DurationMinutes
	window, err := e.window(plan)
	if err != nil {
		return domain.SlotDescriptor{}, err
	}
	occ := occupancy(plan, window)

	// Для явных окон допустимы только начала окон
	if !window.Closed && plan.Service.Availability.UsesExplicitWindows() && plan.Service.Availability.WindowsError == "" {
		weekday := plan.Date.Weekday()
		slots, err := GenerateExplicit(window, plan.Service.Availability.Windows.For(weekday), duration, occ)
		if err == nil {
			for _, slot := range slots {
				if slot.StartTime == nil {
					continue
				}
				if m, _ := slot.StartTime.Minutes(); m == start {
					return slot, nil
				}
			}
			iv := Interval{Start: start, End: start + duration}
			return describe(iv, nil, Verdict{Reason: domain.ReasonOutsideWorkingHours}, occ.Capacity), nil
		}
		e.logger.Warn("scheduling: service id=%d has malformed windows, checking as continuous: %v", plan.Service.ID, err)
	}

	return CheckContinuous(window, start, duration, domain.ContinuousStepMinutes, occ), nil
}

// CheckGridStart повторная проверка начального индекса сетки при создании записи
func (e *Engine) CheckGridStart(plan *DayPlan, startSlot int) (domain.SlotDescriptor, error) {
	if err := validatePlan(plan); err != nil {
		return domain.SlotDescriptor{}, err
	}

	window, err := e.window(plan)
	if err != nil {
		return domain.SlotDescriptor{}, err
	}
	layout := NewGridLayout(plan.SlotConfig, window, plan.Service.DurationMinutes)
	return CheckGrid(layout, startSlot, occupancy(plan, window)), nil
}

// Occupancy занятость дня для плана, нужна вызывающим для проверки группового слота
func (e *Engine) Occupancy(plan *DayPlan) Occupancy {
	return occupancy(plan, Window{})
}

func (e *Engine) window(plan *DayPlan) (Window, error) {
	weekday := plan.Date.Weekday()

	constraints := Constraints{
		Weekday: weekday,
		Hours:   plan.Business.HoursFor(weekday),
		Service: plan.Service,
	}
	if plan.Staff != nil {
		constraints.Staff = plan.Staff.ScheduleFor(weekday)
	}

	window, err := Resolve(constraints)
	if err != nil {
		return Window{}, fmt.Errorf("%w: business id=%d: %v", ErrMalformedTime, plan.Business.Business.ID, err)
	}
	return window, nil
}

func (e *Engine) continuousOrExplicit(plan *DayPlan, window Window, occ Occupancy) ([]domain.SlotDescriptor, bool) {
	service := plan.Service
	duration := service.DurationMinutes

	if service.Availability.AnyTimeAvailable || (service.Availability.Windows == nil && service.Availability.WindowsError == "") {
		return GenerateContinuous(window, duration, domain.ContinuousStepMinutes, occ), false
	}

	if service.Availability.WindowsError != "" {
		e.logger.Warn("scheduling: service id=%d windows could not be loaded, falling back to continuous slots: %s",
			service.ID, service.Availability.WindowsError)
		return GenerateContinuous(window, duration, domain.ContinuousStepMinutes, occ), true
	}

	slots, err := GenerateExplicit(window, service.Availability.Windows.For(plan.Date.Weekday()), duration, occ)
	if err != nil {
		e.logger.Warn("scheduling: service id=%d has malformed windows, falling back to continuous slots: %v",
			service.ID, err)
		return GenerateContinuous(window, duration, domain.ContinuousStepMinutes, occ), true
	}
	return slots, false
}

func occupancy(plan *DayPlan, window Window) Occupancy {
	occ := Occupancy{
		Busy:      BusyFromAppointments(plan.Date, plan.Appointments),
		Excluded:  window.Excluded,
		ServiceID: plan.Service.ID,
		Capacity:  plan.Service.EffectiveCapacity(),
	}

	today := startOfDay(plan.Now, plan.Date.Location())
	if plan.Date.Equal(today) {
		// Слот, начинающийся в текущую минуту, уже считается начавшимся
		occ.NotBefore = MinuteOfDay(plan.Now, plan.Date.Location()) + 1
	}
	return occ
}

func modelOf(service *domain.Service) domain.SlotModel {
	if service.SlotModel == domain.SlotModelGrid {
		return domain.SlotModelGrid
	}
	return domain.SlotModelContinuous
}

func validatePlan(plan *DayPlan) error {
	switch {
	case plan == nil:
		return fmt.Errorf("%w: nil plan", ErrInvalidPlan)
	case plan.Business == nil:
		return fmt.Errorf("%w: business is required", ErrInvalidPlan)
	case plan.Service == nil:
		return fmt.Errorf("%w: service is required", ErrInvalidPlan)
	case plan.Service.DurationMinutes <= 0:
		return fmt.Errorf("%w: service id=%d has no duration", ErrInvalidPlan, plan.Service.ID)
	case plan.Service.SlotModel == domain.SlotModelGrid && plan.SlotConfig.SlotDurationMinutes <= 0:
		return fmt.Errorf("%w: grid service id=%d without slot configuration", ErrInvalidPlan, plan.Service.ID)
	}
	return nil
}

// StartOfDay полночь даты t в зоне loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc)
}

// MinuteOfDay минута суток по настенным часам зоны loc. В день перевода часов
// она не совпадает с временем, прошедшим от полуночи.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// AtMinute момент, когда настенные часы дня day показывают minute
func AtMinute(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, day.Location())
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
