package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Fake engine collaborators, one func field per interface method.

type stubUsers struct {
	getByEmail func(ctx context.Context, email string) (*model.User, error)
}

func (s *stubUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.getByEmail != nil {
		return s.getByEmail(ctx, email)
	}
	return &model.User{ID: 1, Email: email, Role: "CUSTOMER"}, nil
}

type stubHotels struct {
	getByID func(ctx context.Context, id uint64) (*model.Hotel, error)
}

func (s *stubHotels) GetHotelByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	if s.getByID != nil {
		return s.getByID(ctx, id)
	}
	return &model.Hotel{ID: id, Name: "Seaside"}, nil
}

type stubRooms struct {
	getByIDs func(ctx context.Context, ids []uint64) ([]model.Room, error)
}

func (s *stubRooms) GetRoomsByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
	if s.getByIDs != nil {
		return s.getByIDs(ctx, ids)
	}
	return nil, nil
}

type stubStore struct {
	findOverlapping func(ctx context.Context, hotelID uint64, in, out time.Time) ([]model.Booking, error)
	save            func(ctx context.Context, b *model.Booking) error
}

func (s *stubStore) FindOverlappingBookings(ctx context.Context, hotelID uint64, in, out time.Time) ([]model.Booking, error) {
	if s.findOverlapping != nil {
		return s.findOverlapping(ctx, hotelID, in, out)
	}
	return nil, nil
}

func (s *stubStore) SaveBookingWithInvoice(ctx context.Context, b *model.Booking) error {
	b.ID = 42
	if s.save != nil {
		return s.save(ctx, b)
	}
	return nil
}

func roomSet(rooms ...model.Room) func(ctx context.Context, ids []uint64) ([]model.Room, error) {
	return func(_ context.Context, ids []uint64) ([]model.Room, error) {
		var out []model.Room
		for _, id := range ids {
			for _, r := range rooms {
				if r.ID == id {
					out = append(out, r)
				}
			}
		}
		return out, nil
	}
}

// newBookingTestHandler wires a BookingHandler around a stub-backed
// engine.  The repository dependency is unused by CreateBooking.
func newBookingTestHandler(users *stubUsers, hotels *stubHotels, rooms *stubRooms, store *stubStore) *BookingHandler {
	if users == nil {
		users = &stubUsers{}
	}
	if hotels == nil {
		hotels = &stubHotels{}
	}
	if rooms == nil {
		rooms = &stubRooms{}
	}
	if store == nil {
		store = &stubStore{}
	}
	return &BookingHandler{
		Engine: booking.NewEngine(users, hotels, rooms, store),
	}
}

func doCreateBooking(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/add", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	c.Set("email", "guest@example.com")
	c.Set("role", "CUSTOMER")
	if err := h.CreateBooking(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

const validBody = `{"hotel_id":1,"room_ids":[2],"check_in_date":"2025-04-05","check_out_date":"2025-04-09","number_of_guests":2}`

func TestCreateBookingSuccess(t *testing.T) {
	h := newBookingTestHandler(nil, nil,
		&stubRooms{getByIDs: roomSet(model.Room{ID: 2, HotelID: 1, Quantity: 2, PriceCents: 9000})},
		nil)
	rec := doCreateBooking(t, h, validBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got := rec.Body.String(); got != "Booking created successfully with invoice." {
		t.Fatalf("body = %q", got)
	}
}

func TestCreateBookingUserNotFound(t *testing.T) {
	h := newBookingTestHandler(
		&stubUsers{getByEmail: func(context.Context, string) (*model.User, error) { return nil, nil }},
		nil, nil, nil)
	rec := doCreateBooking(t, h, validBody)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != "User not found." {
		t.Fatalf("body = %q", got)
	}
}

func TestCreateBookingHotelNotFound(t *testing.T) {
	h := newBookingTestHandler(nil,
		&stubHotels{getByID: func(context.Context, uint64) (*model.Hotel, error) { return nil, nil }},
		nil, nil)
	rec := doCreateBooking(t, h, validBody)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != "Hotel not found." {
		t.Fatalf("body = %q", got)
	}
}

func TestCreateBookingRoomNotFound(t *testing.T) {
	h := newBookingTestHandler(nil, nil,
		&stubRooms{getByIDs: roomSet(model.Room{ID: 2, HotelID: 1, Quantity: 2})},
		nil)
	body := `{"hotel_id":1,"room_ids":[7,2],"check_in_date":"2025-04-05","check_out_date":"2025-04-09","number_of_guests":2}`
	rec := doCreateBooking(t, h, body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Body.String(); got != "Room with ID 7 not found." {
		t.Fatalf("body = %q", got)
	}
}

func TestCreateBookingInvalidDateRange(t *testing.T) {
	h := newBookingTestHandler(nil, nil,
		&stubRooms{getByIDs: roomSet(model.Room{ID: 2, HotelID: 1, Quantity: 2})},
		nil)
	body := `{"hotel_id":1,"room_ids":[2],"check_in_date":"2025-04-09","check_out_date":"2025-04-05","number_of_guests":2}`
	rec := doCreateBooking(t, h, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Body.String(); got != "Check-out date must be after check-in date." {
		t.Fatalf("body = %q", got)
	}
}

func TestCreateBookingInsufficientRooms(t *testing.T) {
	existing := model.Booking{
		ID:           9,
		HotelID:      1,
		Rooms:        []model.Room{{ID: 2}},
		CheckInDate:  time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	}
	h := newBookingTestHandler(nil, nil,
		&stubRooms{getByIDs: roomSet(model.Room{ID: 2, HotelID: 1, Quantity: 1})},
		&stubStore{findOverlapping: func(context.Context, uint64, time.Time, time.Time) ([]model.Booking, error) {
			return []model.Booking{existing}, nil
		}})
	rec := doCreateBooking(t, h, validBody)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, "Not enough rooms available") {
		t.Fatalf("body = %q, want insufficiency message", got)
	}
}

func TestCreateBookingMissingRoomIDs(t *testing.T) {
	h := newBookingTestHandler(nil, nil, nil, nil)
	body := `{"hotel_id":1,"room_ids":[],"check_in_date":"2025-04-05","check_out_date":"2025-04-09"}`
	rec := doCreateBooking(t, h, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBookingBadDate(t *testing.T) {
	h := newBookingTestHandler(nil, nil, nil, nil)
	body := `{"hotel_id":1,"room_ids":[2],"check_in_date":"05/04/2025","check_out_date":"2025-04-09"}`
	rec := doCreateBooking(t, h, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBookingInfrastructureFault(t *testing.T) {
	h := newBookingTestHandler(nil, nil,
		&stubRooms{getByIDs: roomSet(model.Room{ID: 2, HotelID: 1, Quantity: 2})},
		&stubStore{save: func(context.Context, *model.Booking) error {
			return context.DeadlineExceeded
		}})
	rec := doCreateBooking(t, h, validBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestCreateBookingUnauthenticated(t *testing.T) {
	h := newBookingTestHandler(nil, nil, nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/add", strings.NewReader(validBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.CreateBooking(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
