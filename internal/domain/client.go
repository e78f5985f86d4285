package domain

// Client клиент платформы, как его видит справочник клиентов
type Client struct {
	ID       int64
	Name     string
	Eligible bool    // false, если клиенту запрещено записываться
	Reason   *string // причина блокировки, если есть
}
