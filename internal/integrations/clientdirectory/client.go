package clientdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Client клиент справочника клиентов платформы
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента справочника
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetClient получает клиента бизнеса
func (c *Client) GetClient(ctx context.Context, businessID, clientID int64) (*domain.Client, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/clients/%d", c.baseURL, businessID, clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrClientNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return payload.toDomain(), nil
}

// GetClientWithGracefulDegradation как GetClient, но недоступность справочника
// отдается как ErrServiceDegraded: вызывающий решает, пропускать ли проверку
func (c *Client) GetClientWithGracefulDegradation(ctx context.Context, businessID, clientID int64) (*domain.Client, error) {
	client, err := c.GetClient(ctx, businessID, clientID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			c.log.Info("Client not found in directory: business_id=%d, client_id=%d", businessID, clientID)
			return nil, err
		}

		c.log.Error("Client directory unavailable, applying graceful degradation for client_id=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: client_id=%d, error=%v", ErrServiceDegraded, clientID, err)
	}

	return client, nil
}
