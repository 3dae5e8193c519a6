// Package inventory is the authoritative seat inventory engine.  It
// tracks, per event, which reserved seats are available, temporarily
// held by a shopper, permanently sold, or administratively blocked, and
// resolves conflicts between these states under concurrent access.  The
// engine itself owns no storage: it operates through the narrow store
// interfaces below, which the repository package implements on MySQL
// and tests implement in memory.
package inventory

import (
    "context"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// HoldStore persists shopper seat holds.  Creation must behave as a
// conditional create-if-absent write: when two callers race for the
// same seat, at most one CreateIfAbsent succeeds and the loser receives
// repository.ErrSeatUnavailable.  Implementations must evaluate expiry
// lazily; a physically present but expired hold never blocks a create
// and is never returned by ActiveByEvent.
type HoldStore interface {
    CreateIfAbsent(ctx context.Context, h *model.SeatHold) error
    RenewByToken(ctx context.Context, token string, until time.Time) (*model.SeatHold, error)
    ExtendForSession(ctx context.Context, eventID uint64, seatID model.SeatID, sessionID string, until time.Time) (*model.SeatHold, error)
    Release(ctx context.Context, eventID uint64, seatID model.SeatID, sessionID string) (bool, error)
    ActiveByEvent(ctx context.Context, eventID uint64) ([]model.SeatHold, error)
    PurgeExpired(ctx context.Context, eventID uint64) (int64, error)
}

// BlockStore persists administrative seat blocks.  CreateBatch is
// atomic: all blocks are written or none, with repository.ErrConflict
// when a concurrent writer claimed one of the seats first.
type BlockStore interface {
    CreateBatch(ctx context.Context, blocks []model.SeatBlock) error
    DeleteBatch(ctx context.Context, eventID uint64, seatIDs []model.SeatID) ([]model.SeatID, error)
    ByEvent(ctx context.Context, eventID uint64) ([]model.SeatBlock, error)
}

// OrderReader derives the sold-seat set from the external order store.
// Strictly read-only; this subsystem never writes orders.
type OrderReader interface {
    SoldSeats(ctx context.Context, eventID uint64) (map[model.SeatID]struct{}, error)
}

// TierStore applies capacity adjustments to the resolved counter and
// records the immutable adjustment row in the same transaction.
type TierStore interface {
    Adjust(ctx context.Context, adj *model.CapacityAdjustment) error
}

// AuditLog appends entries to the append-only inventory trail.
type AuditLog interface {
    Append(ctx context.Context, e *model.InventoryLogEntry) error
}

// Notifier mirrors a committed audit entry to an external channel, e.g.
// the message broker.  Calls are best effort and asynchronous: the
// engine invokes the notifier on its own goroutine with a context
// detached from the request, so a slow or unreachable broker never
// delays a mutation response.  The database audit row is authoritative
// and a notifier failure never fails the mutation.  A nil Notifier
// disables mirroring.
type Notifier func(ctx context.Context, e *model.InventoryLogEntry)
