// internal/scanner/domain.go
package scanner

import (
	"time"

	"github.com/google/uuid"
)

// Mode selects what a successful scan does to the ticket.
type Mode string

const (
	ModeCheckIn  Mode = "checkin"
	ModeCheckOut Mode = "checkout"
	ModeRedeem   Mode = "redeem"
)

// ticketStatus values understood by the Core API.
const (
	statusCheckedIn  = "check-in"
	statusCheckedOut = "check-out"
	statusRedeemed   = "redeem"
)

// ScanResult is returned to the scanning device.
type ScanResult struct {
	TicketID   uuid.UUID `json:"ticket_id"`
	EventID    uuid.UUID `json:"event_id"`
	HolderName string    `json:"holder_name"`
	Status     string    `json:"status"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// ScanEvent is broadcast to dashboards watching the event's live feed.
type ScanEvent struct {
	TicketID   uuid.UUID `json:"ticket_id"`
	EventID    uuid.UUID `json:"event_id"`
	HolderName string    `json:"holder_name"`
	Mode       Mode      `json:"mode"`
	ScannedAt  time.Time `json:"scanned_at"`
}
