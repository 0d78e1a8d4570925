package middleware

// identity.go holds helpers shared across middleware files for
// extracting the current user's identity from the Echo context.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string form of the authenticated user's id
// for use in cache and rate-limit keys.  Unauthenticated requests map
// to "anon".
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
	case uint64, int64, int, float64:
		return fmt.Sprint(t)
	}
	return "anon"
}
