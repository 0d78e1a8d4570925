// This file defines handlers for the public browsing API.  These
// routes allow unauthenticated users to browse hotels, room types and
// availability without requiring authentication.  Sensitive fields
// (owner IDs, timestamps) are filtered from responses.

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	HotelRepo   *repository.HotelRepo
	RoomRepo    *repository.RoomRepo
	BookingRepo *repository.BookingRepo
}

// PublicHotel represents a hotel exposed via the public API.  It
// contains only safe fields.
type PublicHotel struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// PublicRoom represents a room type in public responses.
type PublicRoom struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Quantity   uint32 `json:"quantity"`
	PriceCents uint32 `json:"price_cents"`
}

// PublicRoomAvailability adds derived availability for a date range.
type PublicRoomAvailability struct {
	PublicRoom
	Committed uint32 `json:"committed"`
	Free      uint32 `json:"free"`
}

// GetPublicHotels returns all hotels.  Response JSON contains an
// "items" array of PublicHotel.
func (h *PublicHandler) GetPublicHotels(c echo.Context) error {
	ctx := c.Request().Context()
	hotels, err := h.HotelRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicHotel, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, PublicHotel{ID: ht.ID, Name: ht.Name, City: ht.City, Address: ht.Address})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetPublicHotel returns one hotel together with its room types.
func (h *PublicHandler) GetPublicHotel(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.HotelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRoom, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, PublicRoom{ID: rm.ID, Name: rm.Name, Quantity: rm.Quantity, PriceCents: rm.PriceCents})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":  PublicHotel{ID: hotel.ID, Name: hotel.Name, City: hotel.City, Address: hotel.Address},
		"rooms": out,
	})
}

// GetPublicAvailability handles GET /v1/hotels/:id/availability.  It
// takes check_in and check_out query parameters (YYYY-MM-DD, half-open
// range) and returns, per room type, how many units overlapping
// bookings commit and how many remain free.  Quantity is never
// mutated by bookings; the free count is always derived here.
func (h *PublicHandler) GetPublicAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}
	if !checkIn.Before(checkOut) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}
	if _, err := h.HotelRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed, err := h.BookingRepo.CountCommittedUnits(ctx, id, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicRoomAvailability, 0, len(rooms))
	for _, rm := range rooms {
		used := committed[rm.ID]
		free := uint32(0)
		if rm.Quantity > used {
			free = rm.Quantity - used
		}
		out = append(out, PublicRoomAvailability{
			PublicRoom: PublicRoom{ID: rm.ID, Name: rm.Name, Quantity: rm.Quantity, PriceCents: rm.PriceCents},
			Committed:  used,
			Free:       free,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  checkIn.Format(dateFmt),
		"check_out": checkOut.Format(dateFmt),
		"items":     out,
	})
}
