package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/inventory"
    "github.com/iliyamo/event-seat-inventory/internal/model"
    "github.com/iliyamo/event-seat-inventory/internal/repository"
)

// BlockHandler exposes the administrative block/unblock batch
// operations.  All routes sit behind the JWT middleware, which supplies
// the actor identity recorded in the audit trail.
type BlockHandler struct {
    Blocks *inventory.BlockManager
}

// NewBlockHandler constructs a BlockHandler; the manager must be
// non-nil.
func NewBlockHandler(blocks *inventory.BlockManager) *BlockHandler {
    if blocks == nil {
        panic("nil BlockManager passed to NewBlockHandler")
    }
    return &BlockHandler{Blocks: blocks}
}

// BlockSeats handles POST /v1/events/:id/blocks.  Partial success is
// the expected, common case: the response carries the blocked subset
// plus a per-seat conflicts list.  Only when every requested seat
// conflicts does the call fail, with 409 and the conflicts attached.
func (h *BlockHandler) BlockSeats(c echo.Context) error {
    actor, err := getActor(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body struct {
        Seats  []model.SeatRef `json:"seats"`
        Reason string          `json:"reason"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    seatIDs := canonicalizeSeats(body.Seats)
    if len(seatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
    }
    res, err := h.Blocks.BlockSeats(c.Request().Context(), eventID, seatIDs, body.Reason, actor)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrAllSeatsConflicted):
            return c.JSON(http.StatusConflict, echo.Map{
                "error":     "all requested seats conflicted",
                "conflicts": res.Conflicts,
            })
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat state changed concurrently, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to block seats"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "blocked_count": res.BlockedCount,
        "blocked_seats": res.BlockedSeats,
        "conflicts":     res.Conflicts,
    })
}

// UnblockSeats handles DELETE /v1/events/:id/blocks.  Seats without a
// matching block are reported individually in not_blocked; when nothing
// matched at all the call returns 404.
func (h *BlockHandler) UnblockSeats(c echo.Context) error {
    actor, err := getActor(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := parseEventID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body struct {
        Seats []model.SeatRef `json:"seats"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    seatIDs := canonicalizeSeats(body.Seats)
    if len(seatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
    }
    res, err := h.Blocks.UnblockSeats(c.Request().Context(), eventID, seatIDs, actor)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrValidation):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrNoBlocksFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no blocks found for the requested seats"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to unblock seats"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "unblocked_count": res.UnblockedCount,
        "unblocked_seats": res.UnblockedSeats,
        "not_blocked":     res.NotBlocked,
    })
}
