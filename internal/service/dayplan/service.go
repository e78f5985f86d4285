package dayplan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	slotConfigRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slotconfig"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// Service собирает данные дня для движка расчета слотов.
// Бизнес, сотрудник, услуга и сетка читаются через кэш, записи всегда из БД.
type Service struct {
	tenants      TenantRepository
	slotConfigs  SlotConfigRepository
	appointments AppointmentRepository
	caches       Caches
	logger       Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	tenants TenantRepository,
	slotConfigs SlotConfigRepository,
	appointments AppointmentRepository,
	caches Caches,
	logger Logger,
) *Service {
	return &Service{
		tenants:      tenants,
		slotConfigs:  slotConfigs,
		appointments: appointments,
		caches:       caches,
		logger:       logger,
	}
}

// PlanInput уже проверенные вызывающим сущности и дата
type PlanInput struct {
	Business *domain.BusinessProfile
	Staff    *domain.StaffProfile
	Service  *domain.Service
	Date     time.Time // календарная дата, используются только год, месяц и день
	Now      time.Time
}

// Business профиль бизнеса, ошибки репозитория возвращаются как есть
func (s *Service) Business(ctx context.Context, businessID int64) (*domain.BusinessProfile, error) {
	return s.caches.Businesses.Get(ctx, businessID, func(ctx context.Context) (*domain.BusinessProfile, error) {
		return s.tenants.GetBusinessProfile(ctx, businessID)
	})
}

// Staff профиль сотрудника
func (s *Service) Staff(ctx context.Context, staffID int64) (*domain.StaffProfile, error) {
	return s.caches.Staff.Get(ctx, staffID, func(ctx context.Context) (*domain.StaffProfile, error) {
		return s.tenants.GetStaffProfile(ctx, staffID)
	})
}

// ServiceByID услуга с уже разобранными окнами
func (s *Service) ServiceByID(ctx context.Context, serviceID int64) (*domain.Service, error) {
	return s.caches.Services.Get(ctx, serviceID, func(ctx context.Context) (*domain.Service, error) {
		return s.tenants.GetService(ctx, serviceID)
	})
}

// SlotConfig действующая сетка бизнеса: сохраненная или по умолчанию
func (s *Service) SlotConfig(ctx context.Context, businessID int64) (domain.BusinessSlotConfiguration, error) {
	return s.caches.SlotConfigs.Get(ctx, businessID, func(ctx context.Context) (domain.BusinessSlotConfiguration, error) {
		cfg, err := s.slotConfigs.GetByBusinessID(ctx, businessID)
		if errors.Is(err, slotConfigRepo.ErrConfigNotFound) {
			s.logger.Info("DayPlan: using default slot configuration for business=%d", businessID)
			return domain.DefaultSlotConfiguration(businessID), nil
		}
		if err != nil {
			return domain.BusinessSlotConfiguration{}, err
		}
		return *cfg, nil
	})
}

// InvalidateSlotConfig хук инвалидации, вызывается после записи конфигурации
func (s *Service) InvalidateSlotConfig(ctx context.Context, businessID int64) error {
	return s.caches.SlotConfigs.Invalidate(ctx, businessID)
}

// Plan собирает DayPlan. Записи читаются с тем же ctx: внутри транзакции
// они блокируются до ее завершения.
func (s *Service) Plan(ctx context.Context, in PlanInput) (*scheduling.DayPlan, error) {
	day := DayStart(in.Date, in.Business.Business.Location())

	plan := &scheduling.DayPlan{
		Date:     day,
		Now:      in.Now,
		Business: in.Business,
		Staff:    in.Staff,
		Service:  in.Service,
	}

	if in.Service.SlotModel == domain.SlotModelGrid {
		cfg, err := s.SlotConfig(ctx, in.Business.Business.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: slot configuration business=%d: %w", ErrLoad, in.Business.Business.ID, err)
		}
		plan.SlotConfig = cfg
	}

	staffID := int64(0)
	if in.Staff != nil {
		staffID = in.Staff.Staff.ID
	}

	appointments, err := s.appointments.GetByStaffDay(ctx, domain.StaffDayFilter{
		StaffID: staffID,
		From:    day,
		To:      day.AddDate(0, 0, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: appointments staff=%d: %w", ErrLoad, staffID, err)
	}
	plan.Appointments = appointments

	return plan, nil
}

// DayStart полночь календарной даты date в зоне loc
func DayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
