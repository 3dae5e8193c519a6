package inventory

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

const testEvent = uint64(42)

func TestCreateHoldSuccess(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()

    h, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "A", 5), "sess-1", 5*time.Minute)
    if err != nil {
        t.Fatalf("CreateHold: %v", err)
    }
    if h.SeatID != model.CanonicalSeatID("ORCH", "A", 5) {
        t.Errorf("SeatID = %q", h.SeatID)
    }
    if !h.HeldUntil.After(time.Now().UTC().Add(4 * time.Minute)) {
        t.Errorf("HeldUntil too early: %v", h.HeldUntil)
    }
    if got := rig.audit.byAction(model.ActionHoldCreated); len(got) != 1 {
        t.Errorf("audit entries = %d, want 1", len(got))
    }
}

func TestCreateHoldConflictDifferentSession(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    ref := seatRef("ORCH", "A", 5)

    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, ref, "sess-1", time.Minute); err != nil {
        t.Fatalf("first CreateHold: %v", err)
    }
    _, err := rig.holdMgr.CreateHold(ctx, testEvent, ref, "sess-2", time.Minute)
    if !errors.Is(err, repository.ErrSeatUnavailable) {
        t.Fatalf("second CreateHold err = %v, want ErrSeatUnavailable", err)
    }
}

func TestCreateHoldSameSessionExtends(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    ref := seatRef("ORCH", "A", 6)

    first, err := rig.holdMgr.CreateHold(ctx, testEvent, ref, "sess-1", time.Minute)
    if err != nil {
        t.Fatalf("first CreateHold: %v", err)
    }
    second, err := rig.holdMgr.CreateHold(ctx, testEvent, ref, "sess-1", 30*time.Minute)
    if err != nil {
        t.Fatalf("same-session CreateHold: %v", err)
    }
    if !second.HeldUntil.After(first.HeldUntil) {
        t.Errorf("hold was not extended: %v then %v", first.HeldUntil, second.HeldUntil)
    }
}

func TestCreateHoldOnSoldOrBlockedSeat(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    sold := model.CanonicalSeatID("ORCH", "B", 1)
    rig.orders.markSold(testEvent, sold)
    if _, err := rig.blockMgr.BlockSeats(ctx, testEvent, []model.SeatID{model.CanonicalSeatID("ORCH", "B", 2)}, "production hold", "admin"); err != nil {
        t.Fatalf("BlockSeats: %v", err)
    }

    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "B", 1), "sess-1", time.Minute); !errors.Is(err, repository.ErrSeatUnavailable) {
        t.Errorf("hold on sold seat err = %v, want ErrSeatUnavailable", err)
    }
    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "B", 2), "sess-1", time.Minute); !errors.Is(err, repository.ErrSeatUnavailable) {
        t.Errorf("hold on blocked seat err = %v, want ErrSeatUnavailable", err)
    }
}

func TestConcurrentCreateHoldOneWinner(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    ref := seatRef("ORCH", "C", 7)

    var wg sync.WaitGroup
    results := make([]error, 2)
    for i := 0; i < 2; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            session := []string{"sess-a", "sess-b"}[i]
            _, results[i] = rig.holdMgr.CreateHold(ctx, testEvent, ref, session, time.Minute)
        }(i)
    }
    wg.Wait()

    var wins, conflicts int
    for _, err := range results {
        switch {
        case err == nil:
            wins++
        case errors.Is(err, repository.ErrSeatUnavailable):
            conflicts++
        default:
            t.Fatalf("unexpected error: %v", err)
        }
    }
    if wins != 1 || conflicts != 1 {
        t.Fatalf("wins = %d, conflicts = %d; want exactly one of each", wins, conflicts)
    }
}

func TestCreateHoldAfterExpiry(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    seat := model.CanonicalSeatID("ORCH", "D", 1)
    rig.holds.seed(model.SeatHold{
        EventID:   testEvent,
        SeatID:    seat,
        SessionID: "old-session",
        HoldToken: "stale",
        HeldUntil: time.Now().UTC().Add(-time.Minute),
    })

    h, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "D", 1), "sess-new", time.Minute)
    if err != nil {
        t.Fatalf("CreateHold over expired hold: %v", err)
    }
    if h.SessionID != "sess-new" {
        t.Errorf("SessionID = %q, want sess-new", h.SessionID)
    }
}

func TestRenewExpiredHoldFails(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.holds.seed(model.SeatHold{
        EventID:   testEvent,
        SeatID:    model.CanonicalSeatID("ORCH", "D", 2),
        SessionID: "sess-1",
        HoldToken: "expired-token",
        HeldUntil: time.Now().UTC().Add(-time.Second),
    })

    if _, err := rig.holdMgr.RenewHold(ctx, "expired-token", time.Minute); !errors.Is(err, repository.ErrHoldNotFound) {
        t.Fatalf("RenewHold err = %v, want ErrHoldNotFound", err)
    }
}

func TestRenewHoldExtends(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()

    h, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "D", 3), "sess-1", time.Minute)
    if err != nil {
        t.Fatalf("CreateHold: %v", err)
    }
    renewed, err := rig.holdMgr.RenewHold(ctx, h.HoldToken, time.Hour)
    if err != nil {
        t.Fatalf("RenewHold: %v", err)
    }
    if !renewed.HeldUntil.After(h.HeldUntil) {
        t.Errorf("renew did not extend: %v then %v", h.HeldUntil, renewed.HeldUntil)
    }
}

func TestReleaseHoldIdempotent(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    ref := seatRef("ORCH", "E", 1)

    // Releasing a hold that never existed is not an error.
    released, err := rig.holdMgr.ReleaseHold(ctx, testEvent, ref, "sess-1")
    if err != nil {
        t.Fatalf("ReleaseHold on absent hold: %v", err)
    }
    if released {
        t.Error("released = true for absent hold")
    }
    if rig.audit.count() != 0 {
        t.Error("no-op release must not write an audit entry")
    }

    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, ref, "sess-1", time.Minute); err != nil {
        t.Fatalf("CreateHold: %v", err)
    }
    released, err = rig.holdMgr.ReleaseHold(ctx, testEvent, ref, "sess-1")
    if err != nil || !released {
        t.Fatalf("ReleaseHold = (%v, %v), want (true, nil)", released, err)
    }
    if got := rig.audit.byAction(model.ActionHoldReleased); len(got) != 1 {
        t.Errorf("release audit entries = %d, want 1", len(got))
    }
}

func TestListActiveHoldsFiltersExpired(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    now := time.Now().UTC()
    rig.holds.seed(model.SeatHold{
        EventID: testEvent, SeatID: model.CanonicalSeatID("ORCH", "F", 1),
        SessionID: "sess-1", HoldToken: "t1", HeldUntil: now.Add(-time.Minute),
    })
    rig.holds.seed(model.SeatHold{
        EventID: testEvent, SeatID: model.CanonicalSeatID("ORCH", "F", 2),
        SessionID: "sess-2", HoldToken: "t2", HeldUntil: now.Add(time.Minute),
    })

    active, err := rig.holdMgr.ListActiveHolds(ctx, testEvent)
    if err != nil {
        t.Fatalf("ListActiveHolds: %v", err)
    }
    if len(active) != 1 {
        t.Fatalf("active holds = %d, want 1", len(active))
    }
    if active[0].SessionID != "sess-2" {
        t.Errorf("wrong hold survived: %+v", active[0])
    }
}

func TestCreateHoldValidation(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()

    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, model.SeatRef{}, "sess-1", time.Minute); !errors.Is(err, repository.ErrValidation) {
        t.Errorf("empty seat err = %v, want ErrValidation", err)
    }
    if _, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "A", 1), "  ", time.Minute); !errors.Is(err, repository.ErrValidation) {
        t.Errorf("blank session err = %v, want ErrValidation", err)
    }
    if rig.audit.count() != 0 {
        t.Error("failed validation must not write audit entries")
    }
}

func TestCreateHoldReturnsBeforeNotifierCompletes(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()

    // The mirror stalls until released, as an unreachable broker would.
    // CreateHold must still return; only the mirror itself may wait.
    release := make(chan struct{})
    mirrored := make(chan struct{})
    rig.holdMgr.notify = func(_ context.Context, _ *model.InventoryLogEntry) {
        <-release
        close(mirrored)
    }

    h, err := rig.holdMgr.CreateHold(ctx, testEvent, seatRef("ORCH", "H", 1), "sess-1", time.Minute)
    if err != nil {
        t.Fatalf("CreateHold: %v", err)
    }
    if h.HoldToken == "" {
        t.Error("hold returned without a token")
    }
    if got := rig.audit.byAction(model.ActionHoldCreated); len(got) != 1 {
        t.Errorf("audit entries = %d, want 1", len(got))
    }

    close(release)
    select {
    case <-mirrored:
    case <-time.After(2 * time.Second):
        t.Fatal("notifier was never invoked after the mutation returned")
    }
}
