package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/inventory"
    "github.com/iliyamo/event-seat-inventory/internal/model"
)

// InventoryHandler exposes the consolidated inventory read model.  The
// admin view carries hold and block detail; the public availability
// view only reveals which seats are taken, never by whom.
type InventoryHandler struct {
    Loader *inventory.SnapshotLoader
}

// NewInventoryHandler constructs an InventoryHandler; the loader must
// be non-nil.
func NewInventoryHandler(loader *inventory.SnapshotLoader) *InventoryHandler {
    if loader == nil {
        panic("nil SnapshotLoader passed to NewInventoryHandler")
    }
    return &InventoryHandler{Loader: loader}
}

// GetInventory handles GET /v1/events/:id/inventory.  It returns the
// sold set plus held and blocked detail for administrative screens.
func (h *InventoryHandler) GetInventory(c echo.Context) error {
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    view, err := h.Loader.Inventory(c.Request().Context(), eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load inventory"})
    }
    held := make([]echo.Map, 0, len(view.HeldSeats))
    for _, hold := range view.HeldSeats {
        held = append(held, echo.Map{
            "seat_id":    hold.SeatID,
            "session_id": hold.SessionID,
            "held_until": hold.HeldUntil.UTC().Format(time.RFC3339),
        })
    }
    blocked := make([]echo.Map, 0, len(view.BlockedSeats))
    for _, b := range view.BlockedSeats {
        blocked = append(blocked, echo.Map{
            "seat_id":    b.SeatID,
            "reason":     b.Reason,
            "blocked_by": b.BlockedBy,
            "blocked_at": b.BlockedAt.UTC().Format(time.RFC3339),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "event_id":      view.EventID,
        "sold_seats":    view.SoldSeats,
        "held_seats":    held,
        "blocked_seats": blocked,
    })
}

// GetAvailability handles GET /v1/events/:id/availability.  It is the
// shopper-facing snapshot behind the response cache: plain seat key
// lists per state with no owner or reason detail.  The snapshot is not
// transactionally consistent with concurrent writes by design; the
// hold path re-checks everything before committing.
func (h *InventoryHandler) GetAvailability(c echo.Context) error {
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    view, err := h.Loader.Inventory(c.Request().Context(), eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    held := make([]model.SeatID, 0, len(view.HeldSeats))
    for _, hold := range view.HeldSeats {
        held = append(held, hold.SeatID)
    }
    blocked := make([]model.SeatID, 0, len(view.BlockedSeats))
    for _, b := range view.BlockedSeats {
        blocked = append(blocked, b.SeatID)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "event_id": view.EventID,
        "sold":     view.SoldSeats,
        "held":     held,
        "blocked":  blocked,
    })
}
