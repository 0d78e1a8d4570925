package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dateFmt is the wire format for check-in/check-out dates.
const dateFmt = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getEmail extracts the verified email set by the JWT middleware.
func getEmail(c echo.Context) (string, error) {
	if s, ok := c.Get("email").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid email in context")
}

// parseDate parses a calendar date in YYYY-MM-DD form.  The returned
// time is midnight UTC; bookings treat dates as half-open ranges so the
// time-of-day component never matters.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFmt, s)
}
