package middleware

// identity.go holds helpers shared across middleware files for
// figuring out who is making the request from context values placed
// there by JWTAuth/OptionalJWT.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the acting user's id as a string, or "anon"
// when the request carries no authenticated identity. JWT numeric
// claims arrive as float64, so formatting goes through %v.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	switch t := v.(type) {
	case string:
		if t != "" {
			return t
		}
		return "anon"
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
