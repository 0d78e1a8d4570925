package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
	"github.com/iliyamo/hotel-room-booking/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-room-booking/internal/service"
)

// BookingHandler exposes the admission engine over HTTP and serves the
// customer-facing booking views.  JWT authentication is performed by
// middleware; handlers read the verified identity from the context and
// never parse tokens themselves.
type BookingHandler struct {
	Engine   *booking.Engine
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies
// must be non-nil.
func NewBookingHandler(engine *booking.Engine, bookings *repository.BookingRepo) *BookingHandler {
	if engine == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Bookings: bookings}
}

// createBookingReq is the wire shape of POST /v1/bookings/add.  Dates
// are calendar dates in YYYY-MM-DD form; room_ids is ordered and
// duplicates are meaningful (the same id twice reserves two units).
type createBookingReq struct {
	HotelID        uint64   `json:"hotel_id"`
	RoomIDs        []uint64 `json:"room_ids"`
	CheckInDate    string   `json:"check_in_date"`
	CheckOutDate   string   `json:"check_out_date"`
	NumberOfGuests uint32   `json:"number_of_guests"`
	Status         string   `json:"status"`
}

// CreateBooking handles POST /v1/bookings/add.  It decodes the
// request, runs the admission pipeline and translates the outcome:
// 201 with a plain-text success message, 404/400 with the rejection
// message, or 500 for infrastructure faults.  Domain rejections are
// expected outcomes and are never logged as errors.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	email, err := getEmail(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body createBookingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HotelID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id is required"})
	}
	if len(body.RoomIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_ids is required"})
	}
	checkIn, err := parseDate(body.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in_date must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(body.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out_date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.Admit(ctx, email, booking.Request{
		HotelID:        body.HotelID,
		RoomIDs:        body.RoomIDs,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: body.NumberOfGuests,
		Status:         body.Status,
	})
	if err != nil {
		if rej, ok := booking.AsRejection(err); ok {
			switch rej.Kind {
			case booking.KindUserNotFound, booking.KindHotelNotFound, booking.KindRoomNotFound:
				return c.String(http.StatusNotFound, rej.Message)
			default:
				return c.String(http.StatusBadRequest, rej.Message)
			}
		}
		log.Printf("booking: admission failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	go publishBookingCreated(b)

	return c.String(http.StatusCreated, "Booking created successfully with invoice.")
}

// publishBookingCreated emits a booking.created event.  Publishing is
// best-effort; a broker outage must never fail an admitted booking.
func publishBookingCreated(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.BookingCreatedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		HotelID:        b.HotelID,
		CheckInDate:    b.CheckInDate.Format(dateFmt),
		CheckOutDate:   b.CheckOutDate.Format(dateFmt),
		NumberOfGuests: b.NumberOfGuests,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, r := range b.Rooms {
		ev.RoomIDs = append(ev.RoomIDs, r.ID)
	}
	if b.Invoice != nil {
		ev.InvoiceNumber = b.Invoice.Number
		ev.TotalCents = b.Invoice.TotalCents
	}
	_ = queue_publisher.PublishBookingCreated(ctx, ev)
}

// ListMyBookings handles GET /v1/my-bookings.  It returns all
// bookings created by the current user, newest first, with room and
// invoice details.  When none exist it returns an empty array.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	details, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": details,
	})
}

// GetBooking handles GET /v1/bookings/:id.  It returns a single
// booking for the authenticated user.  Absent bookings and bookings
// owned by other users are both reported as 404.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	detail, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item": detail,
	})
}
