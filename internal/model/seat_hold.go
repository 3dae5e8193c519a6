package model

import "time"

// SeatHold represents a shopper's temporary claim on a seat while a
// checkout is in progress.  A hold prevents concurrent shoppers from
// grabbing the same seat.  Exactly one active hold may exist per seat;
// expiry is evaluated lazily against held_until at read time, so a row
// may physically outlive its hold without ever counting as active.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event the seat belongs to.
//  SeatID    – canonical seat key.
//  SessionID – shopper session that owns the hold.
//  HoldToken – unique token returned to the client for renewal.
//  CreatedAt – when the hold was created.
//  HeldUntil – when the hold expires.
type SeatHold struct {
    ID        uint64    // seat_holds.id
    EventID   uint64    // seat_holds.event_id
    SeatID    SeatID    // seat_holds.seat_key
    SessionID string    // seat_holds.session_id
    HoldToken string    // seat_holds.hold_token
    CreatedAt time.Time // seat_holds.created_at
    HeldUntil time.Time // seat_holds.held_until
}

// Active reports whether the hold is still live at the given instant.
// This is the single expiry rule for the whole subsystem: a hold whose
// held_until has passed is treated as gone even when its row still
// exists, and must never block a new hold attempt.
func (h SeatHold) Active(now time.Time) bool {
    return h.HeldUntil.After(now)
}
