package inventory

import (
    "context"
    "errors"
    "testing"

    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

func TestAdjustCapacitySuccess(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.tiers.tickets[tierKey{testEvent, "vip"}] = 100

    adj, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "vip", -30, "stage extension", "admin")
    if err != nil {
        t.Fatalf("AdjustCapacity: %v", err)
    }
    if adj.Previous != 100 || adj.New != 70 {
        t.Errorf("adjustment = previous %d new %d, want 100 -> 70", adj.Previous, adj.New)
    }
    if got := rig.audit.byAction(model.ActionCapacityAdjusted); len(got) != 1 {
        t.Errorf("audit entries = %d, want 1", len(got))
    } else if got[0].TierID != "vip" {
        t.Errorf("audit tier = %q, want vip", got[0].TierID)
    }
}

func TestAdjustCapacityZeroDelta(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.tiers.tickets[tierKey{testEvent, "vip"}] = 100

    if _, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "vip", 0, "noop", "admin"); !errors.Is(err, repository.ErrInvalidAdjustment) {
        t.Fatalf("err = %v, want ErrInvalidAdjustment", err)
    }
    if rig.tiers.tickets[tierKey{testEvent, "vip"}] != 100 {
        t.Error("capacity changed on rejected adjustment")
    }
    if rig.audit.count() != 0 {
        t.Error("rejected adjustment must not write audit entries")
    }
}

func TestAdjustCapacityWouldGoNegative(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.tiers.tickets[tierKey{testEvent, "vip"}] = 30

    adj, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "vip", -50, "oversold fix", "admin")
    if !errors.Is(err, repository.ErrCapacityWouldGoNegative) {
        t.Fatalf("err = %v, want ErrCapacityWouldGoNegative", err)
    }
    if adj.Previous != 30 {
        t.Errorf("Previous = %d, want 30 so callers can report the current value", adj.Previous)
    }
    if rig.tiers.tickets[tierKey{testEvent, "vip"}] != 30 {
        t.Error("capacity changed on rejected adjustment")
    }
}

func TestAdjustCapacityTierResolutionOrder(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    // The same tier id exists as both a ticket tier and a pricing tier;
    // the ticket tier must win.
    rig.tiers.tickets[tierKey{testEvent, "early"}] = 10
    rig.tiers.pricing[tierKey{testEvent, "early"}] = 99

    adj, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "early", 5, "restock", "admin")
    if err != nil {
        t.Fatalf("AdjustCapacity: %v", err)
    }
    if adj.Previous != 10 || adj.New != 15 {
        t.Errorf("resolved wrong counter: previous %d new %d", adj.Previous, adj.New)
    }
    if rig.tiers.pricing[tierKey{testEvent, "early"}] != 99 {
        t.Error("pricing tier counter was touched")
    }
}

func TestAdjustCapacityPricingTierFallback(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.tiers.pricing[tierKey{testEvent, "matinee"}] = 40

    adj, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "matinee", -10, "hold back", "admin")
    if err != nil {
        t.Fatalf("AdjustCapacity: %v", err)
    }
    if adj.Previous != 40 || adj.New != 30 {
        t.Errorf("previous %d new %d, want 40 -> 30", adj.Previous, adj.New)
    }
}

func TestAdjustCapacityGeneralBucket(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()
    rig.tiers.general[testEvent] = 500

    adj, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "general", 250, "extra standing room", "admin")
    if err != nil {
        t.Fatalf("AdjustCapacity: %v", err)
    }
    if adj.New != 750 {
        t.Errorf("New = %d, want 750", adj.New)
    }
}

func TestAdjustCapacityTierNotFound(t *testing.T) {
    t.Parallel()
    rig := newTestRig()
    ctx := context.Background()

    if _, err := rig.capAdj.AdjustCapacity(ctx, testEvent, "balcony", 10, "restock", "admin"); !errors.Is(err, repository.ErrTierNotFound) {
        t.Fatalf("err = %v, want ErrTierNotFound", err)
    }
}
