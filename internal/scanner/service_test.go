package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ticketdesk/internal/clients"
)

type fakeTicketClient struct {
	ticket        *clients.TicketStatus
	getErr        error
	updateErr     error
	updatedStatus string
}

func (f *fakeTicketClient) GetTicket(ctx context.Context, id uuid.UUID) (*clients.TicketStatus, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.ticket, nil
}

func (f *fakeTicketClient) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedStatus = status
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	err      error
	done     chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{done: make(chan struct{}, 8)}
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakePublisher) waitForPublish(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("scan event was never published")
	}
}

func validTicket(eventID uuid.UUID) *clients.TicketStatus {
	return &clients.TicketStatus{
		ID:         uuid.New(),
		EventID:    eventID,
		ItemID:     uuid.New(),
		HolderName: "Dana Attendee",
		Status:     "valid",
	}
}

func TestScan_CheckIn(t *testing.T) {
	eventID := uuid.New()
	tickets := &fakeTicketClient{ticket: validTicket(eventID)}
	pub := newFakePublisher()
	svc := NewService(tickets, pub, zap.NewNop())

	result, err := svc.Scan(context.Background(), eventID, tickets.ticket.ID, ModeCheckIn)
	require.NoError(t, err)
	assert.Equal(t, "check-in", result.Status)
	assert.Equal(t, "check-in", tickets.updatedStatus)
	assert.Equal(t, "Dana Attendee", result.HolderName)

	pub.waitForPublish(t)
	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.channels, 1)
	assert.Equal(t, "scans:event:"+eventID.String(), pub.channels[0])
	assert.Contains(t, string(pub.payloads[0]), tickets.ticket.ID.String())
}

func TestScan_DoubleCheckInRejected(t *testing.T) {
	eventID := uuid.New()
	ticket := validTicket(eventID)
	ticket.Status = "check-in"
	tickets := &fakeTicketClient{ticket: ticket}
	svc := NewService(tickets, newFakePublisher(), zap.NewNop())

	_, err := svc.Scan(context.Background(), eventID, ticket.ID, ModeCheckIn)
	assert.ErrorIs(t, err, ErrAlreadyScanned)
	assert.Empty(t, tickets.updatedStatus)
}

func TestScan_CheckOutAfterCheckIn(t *testing.T) {
	eventID := uuid.New()
	ticket := validTicket(eventID)
	ticket.Status = "check-in"
	tickets := &fakeTicketClient{ticket: ticket}
	pub := newFakePublisher()
	svc := NewService(tickets, pub, zap.NewNop())

	result, err := svc.Scan(context.Background(), eventID, ticket.ID, ModeCheckOut)
	require.NoError(t, err)
	assert.Equal(t, "check-out", result.Status)
	pub.waitForPublish(t)
}

func TestScan_ReentryAfterCheckOut(t *testing.T) {
	eventID := uuid.New()
	ticket := validTicket(eventID)
	ticket.Status = "check-out"
	tickets := &fakeTicketClient{ticket: ticket}
	svc := NewService(tickets, newFakePublisher(), zap.NewNop())

	result, err := svc.Scan(context.Background(), eventID, ticket.ID, ModeCheckIn)
	require.NoError(t, err)
	assert.Equal(t, "check-in", result.Status)
}

func TestScan_WrongEvent(t *testing.T) {
	tickets := &fakeTicketClient{ticket: validTicket(uuid.New())}
	svc := NewService(tickets, newFakePublisher(), zap.NewNop())

	_, err := svc.Scan(context.Background(), uuid.New(), tickets.ticket.ID, ModeCheckIn)
	assert.ErrorIs(t, err, ErrWrongEvent)
}

func TestScan_TicketNotFound(t *testing.T) {
	tickets := &fakeTicketClient{getErr: clients.ErrTicketNotFound}
	svc := NewService(tickets, newFakePublisher(), zap.NewNop())

	_, err := svc.Scan(context.Background(), uuid.New(), uuid.New(), ModeCheckIn)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestScan_InvalidMode(t *testing.T) {
	eventID := uuid.New()
	tickets := &fakeTicketClient{ticket: validTicket(eventID)}
	svc := NewService(tickets, newFakePublisher(), zap.NewNop())

	_, err := svc.Scan(context.Background(), eventID, tickets.ticket.ID, Mode("teleport"))
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestScan_PublishFailureDoesNotFailScan(t *testing.T) {
	eventID := uuid.New()
	tickets := &fakeTicketClient{ticket: validTicket(eventID)}
	pub := newFakePublisher()
	pub.err = errors.New("redis down")
	svc := NewService(tickets, pub, zap.NewNop())

	result, err := svc.Scan(context.Background(), eventID, tickets.ticket.ID, ModeRedeem)
	require.NoError(t, err)
	assert.Equal(t, "redeem", result.Status)
	pub.waitForPublish(t)
}
