package cache

import "errors"

var (
	// ErrEncode значение не удалось сериализовать для кэша
	ErrEncode = errors.New("cache: failed to encode value")

	// ErrStore ошибка нижележащего хранилища
	ErrStore = errors.New("cache: store error")
)
