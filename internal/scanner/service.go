// internal/scanner/service.go
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ticketdesk/internal/clients"
)

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrAlreadyScanned  = errors.New("ticket already scanned")
	ErrWrongEvent      = errors.New("ticket belongs to a different event")
	ErrInvalidMode     = errors.New("invalid scan mode")
	ErrTicketNotActive = errors.New("ticket is not valid for entry")
)

// TicketClient is the slice of the Core API the scanner needs.
type TicketClient interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*clients.TicketStatus, error)
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Publisher pushes scan events onto the live feed.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type Service interface {
	Scan(ctx context.Context, eventID, ticketID uuid.UUID, mode Mode) (*ScanResult, error)
}

type service struct {
	tickets   TicketClient
	publisher Publisher
	logger    *zap.Logger
}

func NewService(tickets TicketClient, publisher Publisher, logger *zap.Logger) Service {
	return &service{tickets: tickets, publisher: publisher, logger: logger}
}

func (s *service) Scan(ctx context.Context, eventID, ticketID uuid.UUID, mode Mode) (*ScanResult, error) {
	target, err := targetStatus(mode)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, clients.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("fetch ticket: %w", err)
	}

	if ticket.EventID != eventID {
		return nil, ErrWrongEvent
	}
	if err := checkTransition(ticket.Status, mode); err != nil {
		return nil, err
	}

	if err := s.tickets.UpdateTicketStatus(ctx, ticketID, target); err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	scannedAt := time.Now().UTC()
	s.broadcast(ScanEvent{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		HolderName: ticket.HolderName,
		Mode:       mode,
		ScannedAt:  scannedAt,
	})

	return &ScanResult{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		HolderName: ticket.HolderName,
		Status:     target,
		ScannedAt:  scannedAt,
	}, nil
}

func targetStatus(mode Mode) (string, error) {
	switch mode {
	case ModeCheckIn:
		return statusCheckedIn, nil
	case ModeCheckOut:
		return statusCheckedOut, nil
	case ModeRedeem:
		return statusRedeemed, nil
	default:
		return "", ErrInvalidMode
	}
}

func checkTransition(current string, mode Mode) error {
	switch mode {
	case ModeCheckIn:
		if current == statusCheckedIn {
			return ErrAlreadyScanned
		}
		if current != "valid" && current != statusCheckedOut {
			return ErrTicketNotActive
		}
	case ModeCheckOut:
		if current != statusCheckedIn {
			return ErrTicketNotActive
		}
	case ModeRedeem:
		if current == statusRedeemed {
			return ErrAlreadyScanned
		}
		if current != "valid" {
			return ErrTicketNotActive
		}
	}
	return nil
}

// broadcast is fire and forget: a dead feed must never block the gate.
func (s *service) broadcast(event ScanEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode scan event", zap.Error(err))
		return
	}
	channel := "scans:event:" + event.EventID.String()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, channel, payload); err != nil {
			s.logger.Warn("failed to publish scan event",
				zap.String("channel", channel), zap.Error(err))
		}
	}()
}

type redisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload).Err()
}
