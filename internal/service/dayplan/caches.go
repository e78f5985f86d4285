package dayplan

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache"
)

// Caches кэши конфигурации, общие для всех запросов процесса
type Caches struct {
	Businesses  *cache.ReadThrough[*domain.BusinessProfile]
	Staff       *cache.ReadThrough[*domain.StaffProfile]
	Services    *cache.ReadThrough[*domain.Service]
	SlotConfigs *cache.ReadThrough[domain.BusinessSlotConfiguration]
}

// NewCaches создает кэши поверх одного хранилища
func NewCaches(store cache.Store, ttl time.Duration, logger cache.Logger, metrics cache.Metrics) Caches {
	return Caches{
		Businesses:  cache.NewReadThrough[*domain.BusinessProfile]("business", store, ttl, logger, metrics),
		Staff:       cache.NewReadThrough[*domain.StaffProfile]("staff", store, ttl, logger, metrics),
		Services:    cache.NewReadThrough[*domain.Service]("service", store, ttl, logger, metrics),
		SlotConfigs: cache.NewReadThrough[domain.BusinessSlotConfiguration]("slot_config", store, ttl, logger, metrics),
	}
}
