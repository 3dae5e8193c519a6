// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// InventoryAuditEvent is published whenever the inventory changes shape: a
// hold is created, renewed or released, seats are blocked or unblocked, or a
// tier capacity is adjusted.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type InventoryAuditEvent struct {
    EventID    uint64   `json:"event_id"`
    Action     string   `json:"action"`
    SeatIDs    []string `json:"seat_ids,omitempty"`
    TierID     string   `json:"tier_id,omitempty"`
    Reason     string   `json:"reason,omitempty"`
    Actor      string   `json:"actor,omitempty"`
    OccurredAt string   `json:"occurred_at"`
}

// NewAuditEvent flattens an audit log entry into the broker payload.  Seat
// identifiers become plain strings so consumers need no knowledge of the
// canonical seat key type.
func NewAuditEvent(entry *model.InventoryLogEntry) InventoryAuditEvent {
    seats := make([]string, 0, len(entry.SeatIDs))
    for _, id := range entry.SeatIDs {
        seats = append(seats, string(id))
    }
    return InventoryAuditEvent{
        EventID:    entry.EventID,
        Action:     entry.Action,
        SeatIDs:    seats,
        TierID:     entry.TierID,
        Reason:     entry.Reason,
        Actor:      entry.Actor,
        OccurredAt: entry.CreatedAt.UTC().Format(time.RFC3339),
    }
}
