package cache

import (
	"context"
	"time"
)

// Store байтовое хранилище с TTL. Промах отдается как found=false без ошибки.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Metrics учет попаданий и промахов
type Metrics interface {
	ObserveCacheLookup(cache, result string)
}
