package inventory

import (
    "context"
    "fmt"
    "sort"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// SeatState is the resolved state of a seat after cross-referencing the
// sold, held and blocked sets.
type SeatState string

const (
    StateSold      SeatState = "SOLD"
    StateHeld      SeatState = "HELD"
    StateBlocked   SeatState = "BLOCKED"
    StateAvailable SeatState = "AVAILABLE"
)

// Classification is the outcome of classifying one seat.  SessionID is
// set for HELD seats and Reason for BLOCKED seats.
type Classification struct {
    State     SeatState
    SessionID string
    Reason    string
}

// Conflict names a seat that cannot be acted on and why, in terms a
// human operator can read.
type Conflict struct {
    SeatID model.SeatID `json:"seat_id"`
    Reason string       `json:"reason"`
}

// Plan partitions a batch of requested seats into the subset the action
// may proceed on and the per-seat conflicts.
type Plan struct {
    Actionable []model.SeatID
    Conflicts  []Conflict
}

// Snapshot is a point-in-time view of one event's inventory facts.  All
// classification is a pure function of the snapshot, which keeps the
// conflict rules testable without a database and guarantees every
// caller gets the same answer for the same facts.
type Snapshot struct {
    EventID uint64
    Sold    map[model.SeatID]struct{}
    Holds   map[model.SeatID]model.SeatHold
    Blocks  map[model.SeatID]model.SeatBlock
    Now     time.Time
}

// Classify resolves the state of one seat with deterministic precedence
// Sold > Held > Blocked > Available.  A completed purchase is the least
// reversible fact and always wins; an active shopper hold is never
// silently overridden by a stale block record; available is the default
// when no record exists.  Hold expiry is evaluated against Snapshot.Now
// so an expired hold classifies as if it were already deleted.
func (s *Snapshot) Classify(seatID model.SeatID) Classification {
    if _, ok := s.Sold[seatID]; ok {
        return Classification{State: StateSold}
    }
    if h, ok := s.Holds[seatID]; ok && h.Active(s.Now) {
        return Classification{State: StateHeld, SessionID: h.SessionID}
    }
    if b, ok := s.Blocks[seatID]; ok {
        return Classification{State: StateBlocked, Reason: b.Reason}
    }
    return Classification{State: StateAvailable}
}

// PlanBatch classifies every requested seat and partitions the batch.
// The function is total: it never panics, duplicate seat keys collapse
// to one entry, and unusable input becomes a conflict with reason
// "unknown state" rather than an error.
func (s *Snapshot) PlanBatch(seatIDs []model.SeatID) Plan {
    var plan Plan
    seen := make(map[model.SeatID]struct{}, len(seatIDs))
    for _, id := range seatIDs {
        if _, dup := seen[id]; dup {
            continue
        }
        seen[id] = struct{}{}
        if !usableSeatID(id) {
            plan.Conflicts = append(plan.Conflicts, Conflict{SeatID: id, Reason: "unknown state"})
            continue
        }
        cl := s.Classify(id)
        if cl.State == StateAvailable {
            plan.Actionable = append(plan.Actionable, id)
            continue
        }
        plan.Conflicts = append(plan.Conflicts, Conflict{SeatID: id, Reason: conflictReason(cl)})
    }
    return plan
}

// usableSeatID rejects keys that carry no seat data at all, such as the
// canonical form of an entirely empty reference.
func usableSeatID(id model.SeatID) bool {
    return id != "" && id != "--"
}

// conflictReason renders a classification as the human-readable reason
// attached to a conflict entry.
func conflictReason(cl Classification) string {
    switch cl.State {
    case StateSold:
        return "seat already sold"
    case StateHeld:
        return "seat held by an active shopper session"
    case StateBlocked:
        if cl.Reason != "" {
            return fmt.Sprintf("seat already blocked: %s", cl.Reason)
        }
        return "seat already blocked"
    default:
        return "unknown state"
    }
}

// SnapshotLoader assembles inventory snapshots from the three fact
// stores.  It owns no state of its own; every Load produces a fresh
// point-in-time view.
type SnapshotLoader struct {
    Orders OrderReader
    Holds  HoldStore
    Blocks BlockStore
}

// NewSnapshotLoader constructs a loader; all dependencies must be
// non-nil.
func NewSnapshotLoader(orders OrderReader, holds HoldStore, blocks BlockStore) *SnapshotLoader {
    if orders == nil || holds == nil || blocks == nil {
        panic("nil store passed to NewSnapshotLoader")
    }
    return &SnapshotLoader{Orders: orders, Holds: holds, Blocks: blocks}
}

// Load reads the sold, held and blocked facts for an event into a
// snapshot stamped with the current UTC time.
func (l *SnapshotLoader) Load(ctx context.Context, eventID uint64) (*Snapshot, error) {
    sold, err := l.Orders.SoldSeats(ctx, eventID)
    if err != nil {
        return nil, err
    }
    holds, err := l.Holds.ActiveByEvent(ctx, eventID)
    if err != nil {
        return nil, err
    }
    blocks, err := l.Blocks.ByEvent(ctx, eventID)
    if err != nil {
        return nil, err
    }
    snap := &Snapshot{
        EventID: eventID,
        Sold:    sold,
        Holds:   make(map[model.SeatID]model.SeatHold, len(holds)),
        Blocks:  make(map[model.SeatID]model.SeatBlock, len(blocks)),
        Now:     time.Now().UTC(),
    }
    for _, h := range holds {
        snap.Holds[h.SeatID] = h
    }
    for _, b := range blocks {
        snap.Blocks[b.SeatID] = b
    }
    return snap, nil
}

// InventoryView is the consolidated read model returned to callers of
// the inventory query: the sold set plus held and blocked detail.
type InventoryView struct {
    EventID      uint64            `json:"event_id"`
    SoldSeats    []model.SeatID    `json:"sold_seats"`
    HeldSeats    []model.SeatHold  `json:"held_seats"`
    BlockedSeats []model.SeatBlock `json:"blocked_seats"`
}

// Inventory builds the consolidated view for an event.  Seat lists are
// sorted so responses are stable across calls.
func (l *SnapshotLoader) Inventory(ctx context.Context, eventID uint64) (*InventoryView, error) {
    snap, err := l.Load(ctx, eventID)
    if err != nil {
        return nil, err
    }
    view := &InventoryView{
        EventID:      eventID,
        SoldSeats:    make([]model.SeatID, 0, len(snap.Sold)),
        HeldSeats:    make([]model.SeatHold, 0, len(snap.Holds)),
        BlockedSeats: make([]model.SeatBlock, 0, len(snap.Blocks)),
    }
    for id := range snap.Sold {
        view.SoldSeats = append(view.SoldSeats, id)
    }
    sort.Slice(view.SoldSeats, func(i, j int) bool { return view.SoldSeats[i] < view.SoldSeats[j] })
    for _, h := range snap.Holds {
        if h.Active(snap.Now) {
            view.HeldSeats = append(view.HeldSeats, h)
        }
    }
    sort.Slice(view.HeldSeats, func(i, j int) bool { return view.HeldSeats[i].SeatID < view.HeldSeats[j].SeatID })
    for _, b := range snap.Blocks {
        view.BlockedSeats = append(view.BlockedSeats, b)
    }
    sort.Slice(view.BlockedSeats, func(i, j int) bool { return view.BlockedSeats[i].SeatID < view.BlockedSeats[j].SeatID })
    return view, nil
}
