package middleware // middleware provides shared request processing for handlers

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the token's subject and role claims into the
// request context under "user_id" and "role".  The provided secret
// must match the one used when issuing tokens.  Requests without a
// valid token are rejected with 401; every mutating route in the API
// sits behind this middleware so authorization always fails closed.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := bearerClaims(c, secret)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing bearer token"})
            }
            c.Set("user_id", claims["sub"])
            c.Set("role", claims["role"])
            return next(c)
        }
    }
}

// OptionalJWT parses a Bearer token when one is present and otherwise
// lets the request through as anonymous.  Read paths that apply the
// visibility projection use this so owners and admins see their
// hidden content while guests still get an answer.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if claims, ok := bearerClaims(c, secret); ok {
                c.Set("user_id", claims["sub"])
                c.Set("role", claims["role"])
            }
            return next(c)
        }
    }
}

// bearerClaims extracts and verifies the HS256 token from the
// Authorization header.  A missing header, a wrong signing method or
// a bad signature all report !ok; callers decide whether that is
// fatal.
func bearerClaims(c echo.Context, secret string) (jwt.MapClaims, bool) {
    auth := c.Request().Header.Get("Authorization")
    if !strings.HasPrefix(auth, "Bearer ") {
        return nil, false
    }
    raw := strings.TrimPrefix(auth, "Bearer ")
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, echo.ErrUnauthorized
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, false
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    return claims, ok
}
