package model

import "time"

// Action kinds recorded in the inventory log.  Every state-changing
// operation on holds, blocks or capacity writes exactly one entry with
// one of these values.
const (
    ActionHoldCreated      = "HOLD_CREATED"
    ActionHoldRenewed      = "HOLD_RENEWED"
    ActionHoldReleased     = "HOLD_RELEASED"
    ActionSeatsBlocked     = "SEATS_BLOCKED"
    ActionSeatsUnblocked   = "SEATS_UNBLOCKED"
    ActionCapacityAdjusted = "CAPACITY_ADJUSTED"
)

// InventoryLogEntry is one row of the append-only audit trail.  Entries
// are never updated or deleted.  Failed validation writes nothing since
// no state changed.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event the mutation applied to.
//  Action    – one of the Action* constants above.
//  SeatIDs   – affected seat keys; empty for capacity adjustments.
//  TierID    – affected tier; empty for seat mutations.
//  Reason    – stated reason for the mutation.
//  Actor     – identity that performed the mutation.
//  CreatedAt – when the entry was written.
type InventoryLogEntry struct {
    ID        uint64    // inventory_log.id
    EventID   uint64    // inventory_log.event_id
    Action    string    // inventory_log.action
    SeatIDs   []SeatID  // inventory_log.seat_keys (JSON array)
    TierID    string    // inventory_log.tier_id
    Reason    string    // inventory_log.reason
    Actor     string    // inventory_log.actor
    CreatedAt time.Time // inventory_log.created_at
}
