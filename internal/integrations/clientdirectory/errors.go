package clientdirectory

import "errors"

var (
	// ErrClientNotFound клиент не зарегистрирован в бизнесе
	ErrClientNotFound = errors.New("client not found in directory")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("clientdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("clientdirectory client: invalid response")

	// ErrServiceDegraded справочник недоступен, проверка допуска пропущена
	ErrServiceDegraded = errors.New("clientdirectory unavailable: graceful degradation applied")
)
