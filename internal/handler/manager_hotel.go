package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
)

// ManagerHandler bundles repositories for managers to administer their
// hotels and room types.  JWT authentication and the MANAGER role
// check are performed by middleware.
type ManagerHandler struct {
	HotelRepo   *repository.HotelRepo
	RoomRepo    *repository.RoomRepo
	BookingRepo *repository.BookingRepo
}

// NewManagerHandler constructs a ManagerHandler.  All dependencies
// must be non-nil.
func NewManagerHandler(hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo, bookingRepo *repository.BookingRepo) *ManagerHandler {
	if hotelRepo == nil || roomRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewManagerHandler")
	}
	return &ManagerHandler{HotelRepo: hotelRepo, RoomRepo: roomRepo, BookingRepo: bookingRepo}
}

type hotelBody struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// CreateHotel handles POST /v1/hotels and creates a new hotel for the
// authenticated manager.
func (h *ManagerHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body hotelBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	hotel := &model.Hotel{
		OwnerID: ownerID,
		Name:    name,
		City:    city,
		Address: strings.TrimSpace(body.Address),
	}
	if err := h.HotelRepo.Create(c.Request().Context(), hotel); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, hotel)
}

// ListHotels handles GET /v1/hotels and returns all hotels owned by
// the authenticated manager.
func (h *ManagerHandler) ListHotels(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.HotelRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateHotel handles PUT /v1/hotels/:id.
func (h *ManagerHandler) UpdateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body hotelBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	city := strings.TrimSpace(body.City)
	if name == "" || city == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	hotel := &model.Hotel{
		ID:      id,
		Name:    name,
		City:    city,
		Address: strings.TrimSpace(body.Address),
	}
	if err := h.HotelRepo.Update(c.Request().Context(), ownerID, hotel); err != nil {
		switch {
		case errors.Is(err, repository.ErrHotelNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, hotel)
}

// DeleteHotel handles DELETE /v1/hotels/:id.  Hotels with existing
// bookings cannot be removed and surface as 409.
func (h *ManagerHandler) DeleteHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.HotelRepo.Delete(c.Request().Context(), ownerID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrHotelNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel has bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListHotelBookings handles GET /v1/hotels/:id/bookings and returns
// every booking placed against one of the manager's hotels, newest
// first.
func (h *ManagerHandler) ListHotelBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	items, err := h.BookingRepo.ListByHotelForOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHotelNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
