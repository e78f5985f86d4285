package clientdirectory

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// clientResponse модель клиента из справочника
type clientResponse struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"business_id"`
	Name       string  `json:"name"`
	Blocked    bool    `json:"blocked"`
	BlockedFor *string `json:"blocked_reason,omitempty"`
}

func (r clientResponse) toDomain() *domain.Client {
	return &domain.Client{
		ID:       r.ID,
		Name:     r.Name,
		Eligible: !r.Blocked,
		Reason:   r.BlockedFor,
	}
}
