package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/inventory"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// CapacityHandler exposes the administrative capacity adjustment for
// general-admission tiers.
type CapacityHandler struct {
    Capacity *inventory.CapacityAdjuster
}

// NewCapacityHandler constructs a CapacityHandler; the adjuster must be
// non-nil.
func NewCapacityHandler(capacity *inventory.CapacityAdjuster) *CapacityHandler {
    if capacity == nil {
        panic("nil CapacityAdjuster passed to NewCapacityHandler")
    }
    return &CapacityHandler{Capacity: capacity}
}

// AdjustCapacity handles POST /v1/events/:id/capacity.  The body names
// a tier, a non-zero signed delta and a reason.  Responses: 200 with
// previous/new values on success, 400 for validation failures and zero
// deltas, 404 when no tier counter matches, 409 when the delta would
// drive the counter negative (the current value is included so the
// caller can retry with a smaller delta).
func (h *CapacityHandler) AdjustCapacity(c echo.Context) error {
    actor, err := getActor(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body struct {
        TierID string `json:"tier_id"`
        Delta  int64  `json:"delta"`
        Reason string `json:"reason"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    adj, err := h.Capacity.AdjustCapacity(c.Request().Context(), eventID, body.TierID, body.Delta, body.Reason, actor)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidAdjustment), errors.Is(err, repository.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrTierNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "tier not found"})
        case errors.Is(err, repository.ErrCapacityWouldGoNegative):
            return c.JSON(http.StatusConflict, echo.Map{
                "error":            "capacity would go negative",
                "current_capacity": adj.Previous,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to adjust capacity"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "tier_id":           adj.TierID,
        "previous_capacity": adj.Previous,
        "new_capacity":      adj.New,
    })
}
