package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Результаты обращения к кэшу для метрик
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// ReadThrough кэш конфигурации с чтением через загрузчик.
// На промахе значение загружается один раз на ключ даже при параллельных запросах,
// ошибки загрузки не кэшируются. Invalidate вызывается после каждой записи в источник.
type ReadThrough[T any] struct {
	name    string
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	logger  Logger
	metrics Metrics
}

// NewReadThrough создает кэш с именем name (префикс ключей и метка метрик)
func NewReadThrough[T any](name string, store Store, ttl time.Duration, logger Logger, metrics Metrics) *ReadThrough[T] {
	return &ReadThrough[T]{
		name:    name,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Key ключ хранилища для идентификатора сущности
func (c *ReadThrough[T]) Key(id int64) string {
	return fmt.Sprintf("%s:%d", c.name, id)
}

// Get значение из кэша или из load. Недоступность хранилища не ломает чтение:
// ошибка логируется и значение берется из источника.
func (c *ReadThrough[T]) Get(ctx context.Context, id int64, load func(ctx context.Context) (T, error)) (T, error) {
	key := c.Key(id)

	raw, found, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.observe(resultError)
		c.logger.Warn("cache %s: lookup %s failed, reading source: %v", c.name, key, err)
	case found:
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			c.observe(resultHit)
			return value, nil
		}
		c.logger.Warn("cache %s: dropping undecodable entry %s", c.name, key)
		_ = c.store.Delete(ctx, key)
		c.observe(resultMiss)
	default:
		c.observe(resultMiss)
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		c.put(ctx, key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate удаляет значение, следующее чтение пойдет в источник
func (c *ReadThrough[T]) Invalidate(ctx context.Context, id int64) error {
	key := c.Key(id)
	c.group.Forget(key)
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("cache %s: invalidate %s: %w", c.name, key, err)
	}
	return nil
}

func (c *ReadThrough[T]) put(ctx context.Context, key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache %s: %v: %s: %v", c.name, ErrEncode, key, err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("cache %s: store %s failed: %v", c.name, key, err)
	}
}

func (c *ReadThrough[T]) observe(result string) {
	if c.metrics != nil {
		c.metrics.ObserveCacheLookup(c.name, result)
	}
}
