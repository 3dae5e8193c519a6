package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/inventory"
    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// HoldHandler exposes the shopper-facing hold lifecycle: create, renew
// and release.  Holds are keyed by the shopper's session id supplied in
// the request body; no JWT is required on these routes.
type HoldHandler struct {
    Holds *inventory.HoldManager
}

// NewHoldHandler constructs a HoldHandler; the manager must be non-nil.
func NewHoldHandler(holds *inventory.HoldManager) *HoldHandler {
    if holds == nil {
        panic("nil HoldManager passed to NewHoldHandler")
    }
    return &HoldHandler{Holds: holds}
}

// CreateHold handles POST /v1/events/:id/holds.  The body carries the
// seat reference, the shopper session and an optional TTL in seconds.
// On success it returns 201 with the hold token and expiry; when the
// seat is sold, blocked or held by another session it returns 409 with
// the conflicting state in the message.
func (h *HoldHandler) CreateHold(c echo.Context) error {
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body struct {
        Seat       model.SeatRef `json:"seat"`
        SessionID  string        `json:"session_id"`
        TTLSeconds int64         `json:"ttl_seconds"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    hold, err := h.Holds.CreateHold(c.Request().Context(), eventID, body.Seat, body.SessionID, time.Duration(body.TTLSeconds)*time.Second)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrSeatUnavailable):
            return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hold"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "hold_token": hold.HoldToken,
        "seat_id":    hold.SeatID,
        "session_id": hold.SessionID,
        "held_until": hold.HeldUntil.UTC().Format(time.RFC3339),
    })
}

// RenewHold handles POST /v1/holds/:token/renew.  Expired or unknown
// holds return 404; the shopper must start a fresh hold in that case.
func (h *HoldHandler) RenewHold(c echo.Context) error {
    token := c.Param("token")
    var body struct {
        TTLSeconds int64 `json:"ttl_seconds"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    hold, err := h.Holds.RenewHold(c.Request().Context(), token, time.Duration(body.TTLSeconds)*time.Second)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrHoldNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found or expired"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to renew hold"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "hold_token": hold.HoldToken,
        "seat_id":    hold.SeatID,
        "held_until": hold.HeldUntil.UTC().Format(time.RFC3339),
    })
}

// ReleaseHold handles DELETE /v1/events/:id/holds.  Releasing is always
// safe and idempotent: releasing an absent or expired hold returns 200
// with released=false.
func (h *HoldHandler) ReleaseHold(c echo.Context) error {
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body struct {
        Seat      model.SeatRef `json:"seat"`
        SessionID string        `json:"session_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    released, err := h.Holds.ReleaseHold(c.Request().Context(), eventID, body.Seat, body.SessionID)
    if err != nil {
        if errors.Is(err, repository.ErrValidation) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release hold"})
    }
    return c.JSON(http.StatusOK, echo.Map{"released": released})
}
