package model

import "time"

// CapacityAdjustment is the immutable audit record of a signed delta
// applied to a general-admission capacity counter.  The record captures
// the counter's value before and after the change and is never updated
// once written.  Resulting capacity is guaranteed non-negative by the
// adjuster.
//
// Fields:
//  ID        – primary key identifier.
//  EventID   – event whose counter was changed.
//  TierID    – named ticket tier, pricing tier, or "general".
//  Delta     – signed change, never zero.
//  Reason    – free-text reason stated by the actor.
//  Previous  – counter value before the adjustment.
//  New       – counter value after the adjustment.
//  Actor     – identity that performed the adjustment.
//  CreatedAt – when the adjustment was applied.
type CapacityAdjustment struct {
    ID        uint64    // capacity_adjustments.id
    EventID   uint64    // capacity_adjustments.event_id
    TierID    string    // capacity_adjustments.tier_id
    Delta     int64     // capacity_adjustments.delta
    Reason    string    // capacity_adjustments.reason
    Previous  int64     // capacity_adjustments.previous_capacity
    New       int64     // capacity_adjustments.new_capacity
    Actor     string    // capacity_adjustments.actor
    CreatedAt time.Time // capacity_adjustments.created_at
}
