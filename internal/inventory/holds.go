package inventory

import (
    "context"
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// TokenSource produces hold tokens.  The default is the repository's
// crypto/rand generator; tests substitute a deterministic one.
type TokenSource func() (string, error)

// HoldManager creates, renews and expires shopper seat holds.  Every
// mutation classifies the seat against a fresh snapshot first, then
// relies on the store's conditional write to decide races it could not
// observe.  Create and release mutations are mirrored into the audit
// log.
type HoldManager struct {
    store      HoldStore
    snapshots  *SnapshotLoader
    audit      AuditLog
    notify     Notifier
    tokens     TokenSource
    defaultTTL time.Duration
}

// NewHoldManager constructs a HoldManager.  Store, loader and audit
// must be non-nil; notify may be nil to disable broker mirroring.  A
// non-positive defaultTTL falls back to ten minutes, the domain
// default.
func NewHoldManager(store HoldStore, snapshots *SnapshotLoader, audit AuditLog, notify Notifier, defaultTTL time.Duration) *HoldManager {
    if store == nil || snapshots == nil || audit == nil {
        panic("nil dependency passed to NewHoldManager")
    }
    if defaultTTL <= 0 {
        defaultTTL = 10 * time.Minute
    }
    return &HoldManager{
        store:      store,
        snapshots:  snapshots,
        audit:      audit,
        notify:     notify,
        tokens:     repository.NewHoldToken,
        defaultTTL: defaultTTL,
    }
}

// CreateHold places a time-bounded claim on a seat for a shopper
// session.  It fails with repository.ErrSeatUnavailable when the seat
// is sold, blocked, or actively held by a different session.  A repeat
// call from the owning session extends the existing hold instead of
// conflicting, since the shopper is simply re-entering checkout.  A
// non-positive ttl uses the configured default.
func (m *HoldManager) CreateHold(ctx context.Context, eventID uint64, ref model.SeatRef, sessionID string, ttl time.Duration) (*model.SeatHold, error) {
    if eventID == 0 || strings.TrimSpace(sessionID) == "" || ref.Empty() {
        return nil, fmt.Errorf("%w: event, seat and session are required", repository.ErrValidation)
    }
    if ttl <= 0 {
        ttl = m.defaultTTL
    }
    seatID := ref.SeatID()
    snap, err := m.snapshots.Load(ctx, eventID)
    if err != nil {
        return nil, err
    }
    until := snap.Now.Add(ttl)

    cl := snap.Classify(seatID)
    switch cl.State {
    case StateSold, StateBlocked:
        return nil, fmt.Errorf("%w: %s", repository.ErrSeatUnavailable, conflictReason(cl))
    case StateHeld:
        if cl.SessionID != sessionID {
            return nil, fmt.Errorf("%w: %s", repository.ErrSeatUnavailable, conflictReason(cl))
        }
        h, extErr := m.store.ExtendForSession(ctx, eventID, seatID, sessionID, until)
        if extErr == nil {
            m.record(ctx, eventID, model.ActionHoldRenewed, []model.SeatID{seatID}, "checkout re-entry", sessionID)
            return h, nil
        }
        if extErr != repository.ErrHoldNotFound {
            return nil, extErr
        }
        // The hold expired between snapshot and extend; fall through
        // and create a fresh one.
    }

    token, err := m.tokens()
    if err != nil {
        return nil, err
    }
    h := &model.SeatHold{
        EventID:   eventID,
        SeatID:    seatID,
        SessionID: sessionID,
        HoldToken: token,
        CreatedAt: snap.Now,
        HeldUntil: until,
    }
    if err := m.store.CreateIfAbsent(ctx, h); err != nil {
        if err == repository.ErrSeatUnavailable {
            return nil, fmt.Errorf("%w: seat held by an active shopper session", repository.ErrSeatUnavailable)
        }
        return nil, err
    }
    m.record(ctx, eventID, model.ActionHoldCreated, []model.SeatID{seatID}, "checkout hold", sessionID)
    return h, nil
}

// RenewHold extends an active hold identified by its token.  Expired or
// unknown holds yield repository.ErrHoldNotFound; the caller must start
// over with a fresh CreateHold.
func (m *HoldManager) RenewHold(ctx context.Context, token string, ttl time.Duration) (*model.SeatHold, error) {
    if strings.TrimSpace(token) == "" {
        return nil, fmt.Errorf("%w: hold token is required", repository.ErrValidation)
    }
    if ttl <= 0 {
        ttl = m.defaultTTL
    }
    h, err := m.store.RenewByToken(ctx, token, time.Now().UTC().Add(ttl))
    if err != nil {
        return nil, err
    }
    m.record(ctx, h.EventID, model.ActionHoldRenewed, []model.SeatID{h.SeatID}, "hold renewed", h.SessionID)
    return h, nil
}

// ReleaseHold removes the hold a session owns on a seat.  It is always
// safe and idempotent, including for holds that have already expired or
// were never created; those cases report released=false with no error
// and write no audit entry since nothing changed.
func (m *HoldManager) ReleaseHold(ctx context.Context, eventID uint64, ref model.SeatRef, sessionID string) (bool, error) {
    if eventID == 0 || strings.TrimSpace(sessionID) == "" || ref.Empty() {
        return false, fmt.Errorf("%w: event, seat and session are required", repository.ErrValidation)
    }
    seatID := ref.SeatID()
    released, err := m.store.Release(ctx, eventID, seatID, sessionID)
    if err != nil {
        return false, err
    }
    if released {
        m.record(ctx, eventID, model.ActionHoldReleased, []model.SeatID{seatID}, "hold released", sessionID)
    }
    return released, nil
}

// ListActiveHolds returns the non-expired holds for an event.  Expiry
// is re-applied here as a pure function of (hold, now) on top of the
// store's own filtering, so a stale row can never leak through.
func (m *HoldManager) ListActiveHolds(ctx context.Context, eventID uint64) ([]model.SeatHold, error) {
    holds, err := m.store.ActiveByEvent(ctx, eventID)
    if err != nil {
        return nil, err
    }
    now := time.Now().UTC()
    active := make([]model.SeatHold, 0, len(holds))
    for _, h := range holds {
        if h.Active(now) {
            active = append(active, h)
        }
    }
    return active, nil
}

// PurgeExpired reclaims storage held by expired hold rows.  Optional;
// correctness never depends on it running.
func (m *HoldManager) PurgeExpired(ctx context.Context, eventID uint64) (int64, error) {
    return m.store.PurgeExpired(ctx, eventID)
}

// record appends an audit entry and mirrors it to the notifier.  Audit
// failures are logged rather than surfaced: the mutation itself has
// already committed and must not be reported as failed.  The notifier
// runs on its own goroutine with a detached context; hold responses
// never wait on broker I/O.
func (m *HoldManager) record(ctx context.Context, eventID uint64, action string, seats []model.SeatID, reason, actor string) {
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
