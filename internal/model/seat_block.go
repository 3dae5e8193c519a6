package model

import "time"

// SeatBlock is an administrative exclusion of a seat from sale, e.g. a
// VIP reserve, a production hold, or an obstructed view.  Unlike a
// shopper hold a block has no expiry; it persists until explicitly
// removed.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event the seat belongs to.
//  SeatID    – canonical seat key.
//  Reason    – free-text reason stated by the administrator.
//  BlockedBy – actor identity that created the block.
//  BlockedAt – when the block was created.
type SeatBlock struct {
    ID        uint64    // seat_blocks.id
    EventID   uint64    // seat_blocks.event_id
    SeatID    SeatID    // seat_blocks.seat_key
    Reason    string    // seat_blocks.reason
    BlockedBy string    // seat_blocks.blocked_by
    BlockedAt time.Time // seat_blocks.blocked_at
}
