package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// UserDirectory resolves a requester's verified identity to a user.
// Absent users are reported as (nil, nil); a non-nil error always
// means an infrastructure fault.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// HotelCatalog resolves hotel identifiers.  Absent hotels are
// (nil, nil).
type HotelCatalog interface {
	GetHotelByID(ctx context.Context, id uint64) (*model.Hotel, error)
}

// RoomCatalog resolves room type identifiers.  It returns only the
// rooms that exist; the engine detects gaps by comparing requested
// against returned ids.
type RoomCatalog interface {
	GetRoomsByIDs(ctx context.Context, ids []uint64) ([]model.Room, error)
}

// BookingStore gives the engine its view of persisted bookings.
//
// FindOverlappingBookings must use the half-open predicate: an
// existing booking [a,b) overlaps the requested [c,d) iff a < d and
// c < b.  SaveBookingWithInvoice must create the booking and its
// derived invoice in a single transaction, repeat the capacity check
// under exclusive row locks, and return ErrRoomsUnavailable when a
// concurrent admission has taken the remaining units.
type BookingStore interface {
	FindOverlappingBookings(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) ([]model.Booking, error)
	SaveBookingWithInvoice(ctx context.Context, b *model.Booking) error
}

// Request is the booking request DTO after HTTP decoding.  RoomIDs is
// ordered and duplicates are meaningful: listing the same room type
// twice reserves two units of that type.
type Request struct {
	HotelID        uint64
	RoomIDs        []uint64
	CheckInDate    time.Time
	CheckOutDate   time.Time
	NumberOfGuests uint32
	Status         string
}

// Engine decides whether a booking request may be committed.  All
// collaborators are injected; the engine holds no ambient state and
// performs no retries.  One call to Admit is one synchronous
// admission decision.
type Engine struct {
	users  UserDirectory
	hotels HotelCatalog
	rooms  RoomCatalog
	store  BookingStore
}

// NewEngine constructs an Engine.  All dependencies must be non-nil.
func NewEngine(users UserDirectory, hotels HotelCatalog, rooms RoomCatalog, store BookingStore) *Engine {
	if users == nil || hotels == nil || rooms == nil || store == nil {
		panic("nil collaborator passed to NewEngine")
	}
	return &Engine{users: users, hotels: hotels, rooms: rooms, store: store}
}

// Admit runs the ordered validation pipeline and, when every step
// passes, persists the booking together with its invoice.  The
// pipeline short-circuits at the first failure and the order is part
// of the observable contract:
//
//  1. resolve user  2. resolve hotel  3. resolve rooms
//  4. validate date range  5. capacity per room type  6. persist
//
// On refusal the returned error is a *Rejection; any other error is
// an infrastructure fault passed through unchanged.
func (e *Engine) Admit(ctx context.Context, email string, req Request) (*model.Booking, error) {
	user, err := e.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, rejectUserNotFound()
	}

	hotel, err := e.hotels.GetHotelByID(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, rejectHotelNotFound()
	}

	// Distinct ids in first-seen order; counts carry the requested
	// units per room type.
	distinct := make([]uint64, 0, len(req.RoomIDs))
	requested := make(map[uint64]uint32, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		if _, ok := requested[id]; !ok {
			distinct = append(distinct, id)
		}
		requested[id]++
	}

	resolved, err := e.rooms.GetRoomsByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.Room, len(resolved))
	for _, r := range resolved {
		byID[r.ID] = r
	}
	for _, id := range distinct {
		if _, ok := byID[id]; !ok {
			return nil, rejectRoomNotFound(id)
		}
	}

	if !req.CheckOutDate.After(req.CheckInDate) {
		return nil, rejectInvalidDateRange()
	}

	overlapping, err := e.store.FindOverlappingBookings(ctx, req.HotelID, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}
	// Every requested room type is evaluated, not just the first
	// failing one; the rejection aggregates all shortfalls.
	var insufficient []uint64
	for _, id := range distinct {
		var committed uint32
		for i := range overlapping {
			ob := &overlapping[i]
			if !ob.OverlapsRange(req.CheckInDate, req.CheckOutDate) {
				continue
			}
			committed += ob.RoomUnits(id)
		}
		if committed+requested[id] > byID[id].Quantity {
			insufficient = append(insufficient, id)
		}
	}
	if len(insufficient) > 0 {
		return nil, rejectInsufficientRooms(insufficient)
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "PENDING"
	}
	// One room reference per requested unit, duplicates preserved in
	// request order.
	units := make([]model.Room, 0, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		units = append(units, byID[id])
	}
	b := &model.Booking{
		UserID:         user.ID,
		HotelID:        hotel.ID,
		Rooms:          units,
		CheckInDate:    req.CheckInDate,
		CheckOutDate:   req.CheckOutDate,
		NumberOfGuests: req.NumberOfGuests,
		Status:         status,
	}
	if err := e.store.SaveBookingWithInvoice(ctx, b); err != nil {
		if errors.Is(err, ErrRoomsUnavailable) {
			return nil, rejectInsufficientRooms(nil)
		}
		return nil, err
	}
	return b, nil
}
