package middleware

// identity.go defines helper functions shared across middleware files.
// Currently it provides an actor extraction function that reads the identity
// JWTAuth stored in the Echo context, falling back to the raw JWT object when
// a route uses Echo's own jwt middleware instead.  When no identity is
// present, "anon" is returned so rate-limit keys stay well formed.

import (
    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// actorID extracts the acting identity from the request context.  It returns
// "anon" for unauthenticated shopper traffic, which keys those requests by IP
// in the rate limiter instead.
func actorID(c echo.Context) string {
    if v := c.Get("actor"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    if u := c.Get("user"); u != nil {
        if tok, ok := u.(*jwt.Token); ok {
            if cl, ok := tok.Claims.(jwt.MapClaims); ok {
                if v, ok := cl["sub"].(string); ok && v != "" {
                    return v
                }
            }
        }
    }
    return "anon"
}
