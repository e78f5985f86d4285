package dayplan

import "errors"

var (
	// ErrLoad ошибка загрузки данных дня
	ErrLoad = errors.New("dayplan: failed to load day data")
)
