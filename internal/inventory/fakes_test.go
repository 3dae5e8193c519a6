package inventory

// In-memory store fakes implementing the same conditional-write and
// lazy-expiry semantics as the MySQL repositories, so the engine can be
// exercised without a database.

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

type seatKey struct {
    eventID uint64
    seatID  model.SeatID
}

type fakeHoldStore struct {
    mu     sync.Mutex
    holds  map[seatKey]model.SeatHold
    nextID uint64
}

func newFakeHoldStore() *fakeHoldStore {
    return &fakeHoldStore{holds: make(map[seatKey]model.SeatHold)}
}

func (s *fakeHoldStore) CreateIfAbsent(_ context.Context, h *model.SeatHold) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    k := seatKey{h.EventID, h.SeatID}
    if existing, ok := s.holds[k]; ok && existing.Active(time.Now().UTC()) {
        return repository.ErrSeatUnavailable
    }
    s.nextID++
    h.ID = s.nextID
    s.holds[k] = *h
    return nil
}

func (s *fakeHoldStore) RenewByToken(_ context.Context, token string, until time.Time) (*model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    for k, h := range s.holds {
        if h.HoldToken == token && h.Active(now) {
            h.HeldUntil = until
            s.holds[k] = h
            out := h
            return &out, nil
        }
    }
    return nil, repository.ErrHoldNotFound
}

func (s *fakeHoldStore) ExtendForSession(_ context.Context, eventID uint64, seatID model.SeatID, sessionID string, until time.Time) (*model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    k := seatKey{eventID, seatID}
    h, ok := s.holds[k]
    if !ok || h.SessionID != sessionID || !h.Active(time.Now().UTC()) {
        return nil, repository.ErrHoldNotFound
    }
    h.HeldUntil = until
    s.holds[k] = h
    out := h
    return &out, nil
}

func (s *fakeHoldStore) Release(_ context.Context, eventID uint64, seatID model.SeatID, sessionID string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    k := seatKey{eventID, seatID}
    if h, ok := s.holds[k]; ok && h.SessionID == sessionID {
        delete(s.holds, k)
        return true, nil
    }
    return false, nil
}

func (s *fakeHoldStore) ActiveByEvent(_ context.Context, eventID uint64) ([]model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    var out []model.SeatHold
    for k, h := range s.holds {
        if k.eventID == eventID && h.Active(now) {
            out = append(out, h)
        }
    }
    return out, nil
}

func (s *fakeHoldStore) PurgeExpired(_ context.Context, eventID uint64) (int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now().UTC()
    var n int64
    for k, h := range s.holds {
        if k.eventID == eventID && !h.Active(now) {
            delete(s.holds, k)
            n++
        }
    }
    return n, nil
}

// hasActive reports whether a live hold exists on the seat, mirroring
// the in-transaction guard the MySQL block repository applies.
func (s *fakeHoldStore) hasActive(eventID uint64, seatID model.SeatID) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    h, ok := s.holds[seatKey{eventID, seatID}]
    return ok && h.Active(time.Now().UTC())
}

// seed installs a hold directly, bypassing the conditional write.
func (s *fakeHoldStore) seed(h model.SeatHold) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.nextID++
    h.ID = s.nextID
    s.holds[seatKey{h.EventID, h.SeatID}] = h
}

type fakeBlockStore struct {
    mu     sync.Mutex
    blocks map[seatKey]model.SeatBlock
    nextID uint64

    // activeHold mirrors the repository's in-transaction hold re-check;
    // tests override it to simulate a hold landing after the snapshot.
    activeHold func(eventID uint64, seatID model.SeatID) bool
}

func newFakeBlockStore() *fakeBlockStore {
    return &fakeBlockStore{blocks: make(map[seatKey]model.SeatBlock)}
}

func (s *fakeBlockStore) CreateBatch(_ context.Context, blocks []model.SeatBlock) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, b := range blocks {
        if s.activeHold != nil && s.activeHold(b.EventID, b.SeatID) {
            return repository.ErrConflict
        }
        if _, ok := s.blocks[seatKey{b.EventID, b.SeatID}]; ok {
            return repository.ErrConflict
        }
    }
    for _, b := range blocks {
        s.nextID++
        b.ID = s.nextID
        s.blocks[seatKey{b.EventID, b.SeatID}] = b
    }
    return nil
}

func (s *fakeBlockStore) DeleteBatch(_ context.Context, eventID uint64, seatIDs []model.SeatID) ([]model.SeatID, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var removed []model.SeatID
    for _, id := range seatIDs {
        k := seatKey{eventID, id}
        if _, ok := s.blocks[k]; ok {
            delete(s.blocks, k)
            removed = append(removed, id)
        }
    }
    return removed, nil
}

func (s *fakeBlockStore) ByEvent(_ context.Context, eventID uint64) ([]model.SeatBlock, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.SeatBlock
    for k, b := range s.blocks {
        if k.eventID == eventID {
            out = append(out, b)
        }
    }
    return out, nil
}

type fakeOrderReader struct {
    mu   sync.Mutex
    sold map[uint64]map[model.SeatID]struct{}
}

func newFakeOrderReader() *fakeOrderReader {
    return &fakeOrderReader{sold: make(map[uint64]map[model.SeatID]struct{})}
}

func (r *fakeOrderReader) SoldSeats(_ context.Context, eventID uint64) (map[model.SeatID]struct{}, error) {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make(map[model.SeatID]struct{}, len(r.sold[eventID]))
    for id := range r.sold[eventID] {
        out[id] = struct{}{}
    }
    return out, nil
}

func (r *fakeOrderReader) markSold(eventID uint64, ids ...model.SeatID) {
    r.mu.Lock()
    defer r.mu.Unlock()
    if r.sold[eventID] == nil {
        r.sold[eventID] = make(map[model.SeatID]struct{})
    }
    for _, id := range ids {
        r.sold[eventID][id] = struct{}{}
    }
}

type tierKey struct {
    eventID uint64
    tierID  string
}

type fakeTierStore struct {
    mu      sync.Mutex
    tickets map[tierKey]int64
    pricing map[tierKey]int64
    general map[uint64]int64
}

func newFakeTierStore() *fakeTierStore {
    return &fakeTierStore{
        tickets: make(map[tierKey]int64),
        pricing: make(map[tierKey]int64),
        general: make(map[uint64]int64),
    }
}

func (s *fakeTierStore) Adjust(_ context.Context, adj *model.CapacityAdjustment) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    k := tierKey{adj.EventID, adj.TierID}
    apply := func(prev int64, set func(int64)) error {
        adj.Previous = prev
        updated := prev + adj.Delta
        if updated < 0 {
            return repository.ErrCapacityWouldGoNegative
        }
        adj.New = updated
        set(updated)
        return nil
    }
    if prev, ok := s.tickets[k]; ok {
        return apply(prev, func(v int64) { s.tickets[k] = v })
    }
    if prev, ok := s.pricing[k]; ok {
        return apply(prev, func(v int64) { s.pricing[k] = v })
    }
    if adj.TierID == "general" {
        if prev, ok := s.general[adj.EventID]; ok {
            return apply(prev, func(v int64) { s.general[adj.EventID] = v })
        }
    }
    return repository.ErrTierNotFound
}

type fakeAuditLog struct {
    mu      sync.Mutex
    entries []model.InventoryLogEntry
}

func (l *fakeAuditLog) Append(_ context.Context, e *model.InventoryLogEntry) error {
    l.mu.Lock()
    defer l.mu.Unlock()
    e.ID = uint64(len(l.entries) + 1)
    l.entries = append(l.entries, *e)
    return nil
}

func (l *fakeAuditLog) byAction(action string) []model.InventoryLogEntry {
    l.mu.Lock()
    defer l.mu.Unlock()
    var out []model.InventoryLogEntry
    for _, e := range l.entries {
        if e.Action == action {
            out = append(out, e)
        }
    }
    return out
}

func (l *fakeAuditLog) count() int {
    l.mu.Lock()
    defer l.mu.Unlock()
    return len(l.entries)
}

// testRig bundles a full engine wired to fakes.
type testRig struct {
    orders *fakeOrderReader
    holds  *fakeHoldStore
    blocks *fakeBlockStore
    tiers  *fakeTierStore
    audit  *fakeAuditLog

    loader   *SnapshotLoader
    holdMgr  *HoldManager
    blockMgr *BlockManager
    capAdj   *CapacityAdjuster
}

func newTestRig() *testRig {
    rig := &testRig{
        orders: newFakeOrderReader(),
        holds:  newFakeHoldStore(),
        blocks: newFakeBlockStore(),
        tiers:  newFakeTierStore(),
        audit:  &fakeAuditLog{},
    }
    rig.blocks.activeHold = rig.holds.hasActive
    rig.loader = NewSnapshotLoader(rig.orders, rig.holds, rig.blocks)
    rig.holdMgr = NewHoldManager(rig.holds, rig.loader, rig.audit, nil, 10*time.Minute)
    rig.blockMgr = NewBlockManager(rig.blocks, rig.loader, rig.audit, nil)
    rig.capAdj = NewCapacityAdjuster(rig.tiers, rig.audit, nil)
    // deterministic tokens keep failures readable
    seq := 0
    rig.holdMgr.tokens = func() (string, error) {
        seq++
        return fmt.Sprintf("token-%d", seq), nil
    }
    return rig
}

func seatRef(section string, row, seat any) model.SeatRef {
    return model.SeatRef{Section: section, Row: row, Seat: seat}
}
