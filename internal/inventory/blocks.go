package inventory

import (
    "context"
    "fmt"
    "log"
    "strings"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// BlockResult reports a batch block.  Partial success is the common,
// expected case: the blockable subset was written atomically while the
// conflicted seats are listed with a human-readable reason each.
type BlockResult struct {
    BlockedCount int            `json:"blocked_count"`
    BlockedSeats []model.SeatID `json:"blocked_seats"`
    Conflicts    []Conflict     `json:"conflicts,omitempty"`
}

// UnblockResult reports a batch unblock with the same per-seat
// granularity as blocking.
type UnblockResult struct {
    UnblockedCount int            `json:"unblocked_count"`
    UnblockedSeats []model.SeatID `json:"unblocked_seats"`
    NotBlocked     []model.SeatID `json:"not_blocked,omitempty"`
}

// BlockManager creates and removes administrative seat blocks.  All
// conflicts are determined against a snapshot before any write; only
// the conflict-free subset is committed, in one transaction.
type BlockManager struct {
    store     BlockStore
    snapshots *SnapshotLoader
    audit     AuditLog
    notify    Notifier
}

// NewBlockManager constructs a BlockManager.  Store, loader and audit
// must be non-nil; notify may be nil.
func NewBlockManager(store BlockStore, snapshots *SnapshotLoader, audit AuditLog, notify Notifier) *BlockManager {
    if store == nil || snapshots == nil || audit == nil {
        panic("nil dependency passed to NewBlockManager")
    }
    return &BlockManager{store: store, snapshots: snapshots, audit: audit, notify: notify}
}

// BlockSeats blocks the requested seats for the stated reason.  Seats
// that are sold, actively held, or already blocked are rejected
// individually and returned in Conflicts; the rest are written
// atomically.  When every seat conflicts the call fails with
// repository.ErrAllSeatsConflicted, nothing is written, and the
// returned result still carries the per-seat conflicts so the caller
// can see why.
func (m *BlockManager) BlockSeats(ctx context.Context, eventID uint64, seatIDs []model.SeatID, reason, actor string) (*BlockResult, error) {
    if eventID == 0 || len(seatIDs) == 0 {
        return nil, fmt.Errorf("%w: event and a non-empty seat list are required", repository.ErrValidation)
    }
    if strings.TrimSpace(reason) == "" {
        return nil, fmt.Errorf("%w: a block reason is required", repository.ErrValidation)
    }
    snap, err := m.snapshots.Load(ctx, eventID)
    if err != nil {
        return nil, err
    }
    plan := snap.PlanBatch(seatIDs)
    if len(plan.Actionable) == 0 {
        return &BlockResult{Conflicts: plan.Conflicts}, repository.ErrAllSeatsConflicted
    }
    blocks := make([]model.SeatBlock, 0, len(plan.Actionable))
    for _, id := range plan.Actionable {
        blocks = append(blocks, model.SeatBlock{
            EventID:   eventID,
            SeatID:    id,
            Reason:    reason,
            BlockedBy: actor,
            BlockedAt: snap.Now,
        })
    }
    if err := m.store.CreateBatch(ctx, blocks); err != nil {
        return nil, err
    }
    m.record(ctx, eventID, model.ActionSeatsBlocked, plan.Actionable, reason, actor)
    return &BlockResult{
        BlockedCount: len(plan.Actionable),
        BlockedSeats: plan.Actionable,
        Conflicts:    plan.Conflicts,
    }, nil
}

// UnblockSeats removes blocks from the requested seats.  Seats without
// a block are reported in NotBlocked; when no requested seat was
// blocked at all the call fails with repository.ErrNoBlocksFound and
// writes no audit entry.
func (m *BlockManager) UnblockSeats(ctx context.Context, eventID uint64, seatIDs []model.SeatID, actor string) (*UnblockResult, error) {
    if eventID == 0 || len(seatIDs) == 0 {
        return nil, fmt.Errorf("%w: event and a non-empty seat list are required", repository.ErrValidation)
    }
    requested := dedupeSeatIDs(seatIDs)
    removed, err := m.store.DeleteBatch(ctx, eventID, requested)
    if err != nil {
        return nil, err
    }
    if len(removed) == 0 {
        return nil, repository.ErrNoBlocksFound
    }
    removedSet := make(map[model.SeatID]struct{}, len(removed))
    for _, id := range removed {
        removedSet[id] = struct{}{}
    }
    var notBlocked []model.SeatID
    for _, id := range requested {
        if _, ok := removedSet[id]; !ok {
            notBlocked = append(notBlocked, id)
        }
    }
    m.record(ctx, eventID, model.ActionSeatsUnblocked, removed, "blocks removed", actor)
    return &UnblockResult{
        UnblockedCount: len(removed),
        UnblockedSeats: removed,
        NotBlocked:     notBlocked,
    }, nil
}

func dedupeSeatIDs(ids []model.SeatID) []model.SeatID {
    seen := make(map[model.SeatID]struct{}, len(ids))
    out := make([]model.SeatID, 0, len(ids))
    for _, id := range ids {
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    return out
}

func (m *BlockManager) record(ctx context.Context, eventID uint64, action string, seats []model.SeatID, reason, actor string) {
    entry := &model.InventoryLogEntry{
        EventID: eventID,
        Action:  action,
        SeatIDs: seats,
        Reason:  reason,
        Actor:   actor,
    }
    if err := m.audit.Append(ctx, entry); err != nil {
        log.Printf("inventory: audit append failed for %s: %v", action, err)
        return
    }
    if m.notify != nil {
        go m.notify(context.WithoutCancel(ctx), entry)
    }
}
