// internal/clients/core.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

var ErrTicketNotFound = errors.New("ticket not found")

// TicketStatus is the Core API's view of a single sold ticket.
type TicketStatus struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	ItemID      uuid.UUID  `json:"item_id"`
	HolderName  string     `json:"holder_name"`
	Status      string     `json:"status"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// CoreClient talks to the Core API, which owns orders and sold tickets.
// All calls go through a circuit breaker so a dead Core API fails fast
// instead of piling up timed-out requests.
type CoreClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewCoreClient(baseURL string) *CoreClient {
	settings := gobreaker.Settings{
		Name:    "core-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &CoreClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *CoreClient) GetTicket(ctx context.Context, id uuid.UUID) (*TicketStatus, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tickets/%s", c.baseURL, id), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrTicketNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var ticket TicketStatus
		if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
			return nil, err
		}
		return &ticket, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*TicketStatus), nil
}

func (c *CoreClient) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(struct {
			Status string `json:"status"`
		}{Status: status})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, fmt.Sprintf("%s/tickets/%s", c.baseURL, id), bytes.NewBuffer(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrTicketNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
