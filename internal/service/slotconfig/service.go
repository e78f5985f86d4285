package slotconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slotconfig/models"
)

// Service сервис для работы с сеткой слотов бизнеса
type Service struct {
	configRepo SlotConfigRepository
	tenants    TenantReader
	logger     Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(configRepo SlotConfigRepository, tenants TenantReader, logger Logger) *Service {
	return &Service{
		configRepo: configRepo,
		tenants:    tenants,
		logger:     logger,
	}
}

// Get действующая сетка бизнеса: сохраненная или значения по умолчанию.
// Публичный метод - доступен всем
func (s *Service) Get(ctx context.Context, businessID int64) (*models.SlotConfigResponse, error) {
	s.logger.Info("Get: fetching slot config for business=%d", businessID)

	if err := s.ensureBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	cfg, err := s.tenants.SlotConfig(ctx, businessID)
	if err != nil {
		s.logger.Error("Get: failed to load slot config for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Get - failed to load slot config: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched slot config for business=%d (default=%t)", businessID, cfg.IsDefault)
	return models.FromDomainSlotConfig(cfg), nil
}

// Update изменяет сетку бизнеса. Доступно только активным сотрудникам бизнеса.
// После записи сбрасывает кэш, чтобы расчет доступности сразу видел новую сетку.
func (s *Service) Update(ctx context.Context, businessID int64, req *models.UpdateSlotConfigRequest) (*models.SlotConfigResponse, error) {
	s.logger.Info("Update: updating slot config for business=%d by user=%d", businessID, req.UserID)

	// 1. Бизнес существует
	if err := s.ensureBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	// 2. Права доступа
	if err := s.checkStaffAccess(ctx, businessID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Накладываем изменения на действующую конфигурацию и проверяем инварианты
	current, err := s.tenants.SlotConfig(ctx, businessID)
	if err != nil {
		s.logger.Error("Update: failed to load slot config for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - failed to load slot config: %v", ErrInternal, err)
	}

	next := req.ApplyTo(current)
	next.BusinessID = businessID
	if err := next.Validate(); err != nil {
		s.logger.Warn("Update: invalid slot config for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// 4. Сохраняем
	saved, err := s.configRepo.Upsert(ctx, &next)
	if err != nil {
		s.logger.Error("Update: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 5. Инвалидация кэша. Ошибка не откатывает запись: устаревшее значение живет до истечения TTL.
	if err := s.tenants.InvalidateSlotConfig(ctx, businessID); err != nil {
		s.logger.Warn("Update: failed to invalidate slot config cache for business=%d: %v", businessID, err)
	}

	s.logger.Info("Update: successfully updated slot config for business=%d", businessID)
	return models.FromDomainSlotConfig(*saved), nil
}

func (s *Service) ensureBusiness(ctx context.Context, businessID int64) error {
	if _, err := s.tenants.Business(ctx, businessID); err != nil {
		if errors.Is(err, tenant.ErrBusinessNotFound) {
			s.logger.Warn("business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
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
	return nil
}
