package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-inventory/internal/handler"
    "github.com/iliyamo/event-seat-inventory/internal/middleware"
)

// RegisterShopper registers the shopper-facing endpoints under /v1.  These
// routes carry no JWT: holds are keyed by the opaque session id in the
// request body, and the availability snapshot is public.  The limiter
// middleware throttles the mutating hold routes per IP and session; the
// cache middleware fronts the availability read so a hot on-sale does not
// hammer MySQL.  Both middlewares degrade to pass-through when Redis is
// unavailable.
func RegisterShopper(e *echo.Echo, holds *handler.HoldHandler, inv *handler.InventoryHandler, limiter, cache echo.MiddlewareFunc) {
    // Public availability snapshot, cached.  The response never includes
    // session ids or block reasons, so caching it leaks nothing.
    e.GET("/v1/events/:id/availability", inv.GetAvailability, cache)

    // Hold lifecycle: create, renew, release.  All three are rate limited
    // because bots hitting the hold endpoint is the main abuse vector
    // during popular on-sales.
    e.POST("/v1/events/:id/holds", holds.CreateHold, limiter)
    e.POST("/v1/holds/:token/renew", holds.RenewHold, limiter)
    e.DELETE("/v1/events/:id/holds", holds.ReleaseHold, limiter)
}

// RegisterAdmin registers operator endpoints under /v1.  All routes require
// a valid JWT carrying the ADMIN or OPS role; the token subject becomes the
// actor recorded in the audit trail for blocks, unblocks and capacity
// adjustments.  The consolidated inventory view is deliberately uncached so
// operators always see the state their own writes produced.
func RegisterAdmin(e *echo.Echo, inv *handler.InventoryHandler, blocks *handler.BlockHandler, capacity *handler.CapacityHandler, audit *handler.AuditHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN", "OPS"),
    )
    g.GET("/events/:id/inventory", inv.GetInventory)
    g.GET("/events/:id/audit", audit.ListAudit)
    g.POST("/events/:id/blocks", blocks.BlockSeats)
    g.DELETE("/events/:id/blocks", blocks.UnblockSeats)
    g.POST("/events/:id/capacity", capacity.AdjustCapacity)
}
