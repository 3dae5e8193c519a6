package inventory

import (
    "context"
    "fmt"
    "log"
    "strings"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// CapacityAdjuster mutates general-admission capacity counters by
// signed deltas with a full audit trail.  It never touches reserved
// seat state; seat-map inventory is the hold/block managers' concern.
type CapacityAdjuster struct {
    tiers  TierStore
    audit  AuditLog
    notify Notifier
}

// NewCapacityAdjuster constructs a CapacityAdjuster.  Tiers and audit
// must be non-nil; notify may be nil.
func NewCapacityAdjuster(tiers TierStore, audit AuditLog, notify Notifier) *CapacityAdjuster {
    if tiers == nil || audit == nil {
        panic("nil dependency passed to NewCapacityAdjuster")
    }
    return &CapacityAdjuster{tiers: tiers, audit: audit, notify: notify}
}

// AdjustCapacity applies a signed delta to the counter resolved for
// (eventID, tierID).  Zero deltas fail with
// repository.ErrInvalidAdjustment before any store access; a delta that
// would drive the counter negative fails with
// repository.ErrCapacityWouldGoNegative and leaves it untouched.  On
// success the returned adjustment carries the previous and new values
// and the immutable capacity_adjustments row has already been written.
func (a *CapacityAdjuster) AdjustCapacity(ctx context.Context, eventID uint64, tierID string, delta int64, reason, actor string) (*model.CapacityAdjustment, error) {
    if delta == 0 {
        return nil, fmt.Errorf("%w: delta must be non-zero", repository.ErrInvalidAdjustment)
    }
    if eventID == 0 || strings.TrimSpace(tierID) == "" || strings.TrimSpace(reason) == "" {
        return nil, fmt.Errorf("%w: event, tier and reason are required", repository.ErrValidation)
    }
    adj := &model.CapacityAdjustment{
        EventID: eventID,
        TierID:  tierID,
        Delta:   delta,
        Reason:  reason,
        Actor:   actor,
    }
    if err := a.tiers.Adjust(ctx, adj); err != nil {
        return adj, err
    }
    entry := &model.InventoryLogEntry{
        EventID: eventID,
        Action:  model.ActionCapacityAdjusted,
        TierID:  tierID,
        Reason:  reason,
        Actor:   actor,
    }
    if err := a.audit.Append(ctx, entry); err != nil {
        log.Printf("inventory: audit append failed for %s: %v", model.ActionCapacityAdjusted, err)
    } else if a.notify != nil {
        go a.notify(context.WithoutCancel(ctx), entry)
    }
    return adj, nil
}
