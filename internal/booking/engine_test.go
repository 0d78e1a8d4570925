package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Fake collaborators with overridable behaviour, one func field per
// interface method.

type fakeUsers struct {
	getByEmail func(ctx context.Context, email string) (*model.User, error)
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.getByEmail != nil {
		return f.getByEmail(ctx, email)
	}
	return &model.User{ID: 1, Email: email}, nil
}

type fakeHotels struct {
	getByID func(ctx context.Context, id uint64) (*model.Hotel, error)
}

func (f *fakeHotels) GetHotelByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	if f.getByID != nil {
		return f.getByID(ctx, id)
	}
	return &model.Hotel{ID: id, Name: "Seaside"}, nil
}

type fakeRooms struct {
	getByIDs func(ctx context.Context, ids []uint64) ([]model.Room, error)
}

func (f *fakeRooms) GetRoomsByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
	if f.getByIDs != nil {
		return f.getByIDs(ctx, ids)
	}
	return nil, nil
}

type fakeStore struct {
	findOverlapping func(ctx context.Context, hotelID uint64, in, out time.Time) ([]model.Booking, error)
	save            func(ctx context.Context, b *model.Booking) error
	saved           *model.Booking
}

func (f *fakeStore) FindOverlappingBookings(ctx context.Context, hotelID uint64, in, out time.Time) ([]model.Booking, error) {
	if f.findOverlapping != nil {
		return f.findOverlapping(ctx, hotelID, in, out)
	}
	return nil, nil
}

func (f *fakeStore) SaveBookingWithInvoice(ctx context.Context, b *model.Booking) error {
	f.saved = b
	if f.save != nil {
		return f.save(ctx, b)
	}
	return nil
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func roomsByID(rooms ...model.Room) func(ctx context.Context, ids []uint64) ([]model.Room, error) {
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

func overlappingWith(units ...model.Room) func(ctx context.Context, hotelID uint64, in, out time.Time) ([]model.Booking, error) {
	return func(_ context.Context, _ uint64, in, _ time.Time) ([]model.Booking, error) {
		return []model.Booking{{
			Rooms:        units,
			CheckInDate:  in.AddDate(0, 0, -1),
			CheckOutDate: in.AddDate(0, 0, 2),
		}}, nil
	}
}

func validRequest() Request {
	return Request{
		HotelID:        6,
		RoomIDs:        []uint64{10},
		CheckInDate:    date("2025-04-05"),
		CheckOutDate:   date("2025-04-09"),
		NumberOfGuests: 2,
	}
}

func wantRejection(t *testing.T, err error, kind RejectionKind) *Rejection {
	t.Helper()
	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("expected a rejection, got %v", err)
	}
	if rej.Kind != kind {
		t.Fatalf("expected rejection kind %d, got %d (%q)", kind, rej.Kind, rej.Message)
	}
	return rej
}

func TestAdmitUserNotFound(t *testing.T) {
	eng := NewEngine(
		&fakeUsers{getByEmail: func(context.Context, string) (*model.User, error) { return nil, nil }},
		&fakeHotels{},
		&fakeRooms{},
		&fakeStore{},
	)
	_, err := eng.Admit(context.Background(), "nobody@example.com", validRequest())
	rej := wantRejection(t, err, KindUserNotFound)
	if rej.Message != "User not found." {
		t.Fatalf("unexpected message %q", rej.Message)
	}
}

func TestAdmitHotelNotFound(t *testing.T) {
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{getByID: func(context.Context, uint64) (*model.Hotel, error) { return nil, nil }},
		&fakeRooms{},
		&fakeStore{},
	)
	_, err := eng.Admit(context.Background(), "guest@example.com", validRequest())
	rej := wantRejection(t, err, KindHotelNotFound)
	if rej.Message != "Hotel not found." {
		t.Fatalf("unexpected message %q", rej.Message)
	}
}

func TestAdmitRoomNotFoundNamesFirstMissing(t *testing.T) {
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(model.Room{ID: 10, HotelID: 6, Quantity: 2})},
		&fakeStore{},
	)
	req := validRequest()
	req.RoomIDs = []uint64{10, 7, 8}
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	rej := wantRejection(t, err, KindRoomNotFound)
	if rej.Message != "Room with ID 7 not found." {
		t.Fatalf("unexpected message %q", rej.Message)
	}
}

func TestAdmitInvalidDateRangePrecedesCapacity(t *testing.T) {
	// Room quantity 6 with an existing overlapping booking: the date
	// check must fire before any capacity accounting.
	room := model.Room{ID: 10, HotelID: 6, Quantity: 6}
	store := &fakeStore{
		findOverlapping: func(context.Context, uint64, time.Time, time.Time) ([]model.Booking, error) {
			t.Fatal("overlap query must not run for an invalid date range")
			return nil, nil
		},
	}
	eng := NewEngine(&fakeUsers{}, &fakeHotels{}, &fakeRooms{getByIDs: roomsByID(room)}, store)
	req := validRequest()
	req.CheckInDate = date("2025-04-10")
	req.CheckOutDate = date("2025-04-09")
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	rej := wantRejection(t, err, KindInvalidDateRange)
	if rej.Message != "Check-out date must be after check-in date." {
		t.Fatalf("unexpected message %q", rej.Message)
	}
}

func TestAdmitSameDayCheckoutRejected(t *testing.T) {
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(model.Room{ID: 10, HotelID: 6, Quantity: 2})},
		&fakeStore{},
	)
	req := validRequest()
	req.CheckOutDate = req.CheckInDate
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	wantRejection(t, err, KindInvalidDateRange)
}

func TestAdmitInsufficientRooms(t *testing.T) {
	// Quantity 1 and one overlapping booking already using the unit.
	room := model.Room{ID: 10, HotelID: 6, Quantity: 1}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(room)},
		&fakeStore{findOverlapping: overlappingWith(room)},
	)
	req := validRequest()
	req.CheckInDate = date("2025-04-10")
	req.CheckOutDate = date("2025-04-15")
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	rej := wantRejection(t, err, KindInsufficientRooms)
	if !strings.Contains(rej.Message, "Not enough rooms available") {
		t.Fatalf("message %q missing required phrase", rej.Message)
	}
}

func TestAdmitSuccess(t *testing.T) {
	// Quantity 2, no overlapping bookings, one unit requested.
	room := model.Room{ID: 10, HotelID: 6, Quantity: 2, PriceCents: 12000}
	store := &fakeStore{}
	eng := NewEngine(&fakeUsers{}, &fakeHotels{}, &fakeRooms{getByIDs: roomsByID(room)}, store)
	b, err := eng.Admit(context.Background(), "guest@example.com", validRequest())
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if store.saved == nil || store.saved != b {
		t.Fatal("booking was not handed to the store")
	}
	if b.Status != "PENDING" {
		t.Fatalf("expected default status PENDING, got %q", b.Status)
	}
	if len(b.Rooms) != 1 || b.Rooms[0].ID != 10 {
		t.Fatalf("unexpected rooms %+v", b.Rooms)
	}
	if b.UserID != 1 || b.HotelID != 6 || b.NumberOfGuests != 2 {
		t.Fatalf("booking fields not carried over: %+v", b)
	}
}

func TestAdmitDuplicateRoomIDsReserveTwoUnits(t *testing.T) {
	room := model.Room{ID: 1, HotelID: 6, Quantity: 5}
	store := &fakeStore{}
	eng := NewEngine(&fakeUsers{}, &fakeHotels{}, &fakeRooms{getByIDs: roomsByID(room)}, store)
	req := validRequest()
	req.RoomIDs = []uint64{1, 1}
	b, err := eng.Admit(context.Background(), "guest@example.com", req)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if len(b.Rooms) != 2 || b.Rooms[0].ID != 1 || b.Rooms[1].ID != 1 {
		t.Fatalf("duplicates not preserved: %+v", b.Rooms)
	}
}

func TestAdmitDuplicateRoomIDsAgainstFullInventory(t *testing.T) {
	// Quantity 5 with 5 units already committed by overlapping
	// bookings: requesting 2 more must be refused.
	room := model.Room{ID: 1, HotelID: 6, Quantity: 5}
	five := []model.Room{room, room, room, room, room}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(room)},
		&fakeStore{findOverlapping: overlappingWith(five...)},
	)
	req := validRequest()
	req.RoomIDs = []uint64{1, 1}
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	wantRejection(t, err, KindInsufficientRooms)
}

func TestAdmitExactFitSucceeds(t *testing.T) {
	// committed + requested == quantity is admissible.
	room := model.Room{ID: 1, HotelID: 6, Quantity: 3}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(room)},
		&fakeStore{findOverlapping: overlappingWith(room)},
	)
	req := validRequest()
	req.RoomIDs = []uint64{1, 1}
	if _, err := eng.Admit(context.Background(), "guest@example.com", req); err != nil {
		t.Fatalf("exact fit should be admitted: %v", err)
	}
}

func TestAdmitAggregatesAllFailingRoomTypes(t *testing.T) {
	small := model.Room{ID: 10, HotelID: 6, Quantity: 1}
	tiny := model.Room{ID: 12, HotelID: 6, Quantity: 1}
	free := model.Room{ID: 14, HotelID: 6, Quantity: 9}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(small, tiny, free)},
		&fakeStore{findOverlapping: overlappingWith(small, tiny)},
	)
	req := validRequest()
	req.RoomIDs = []uint64{10, 12, 14}
	_, err := eng.Admit(context.Background(), "guest@example.com", req)
	rej := wantRejection(t, err, KindInsufficientRooms)
	if !strings.Contains(rej.Message, "10") || !strings.Contains(rej.Message, "12") {
		t.Fatalf("message %q does not name both failing room types", rej.Message)
	}
	if strings.Contains(rej.Message, "14") {
		t.Fatalf("message %q names a room type with capacity left", rej.Message)
	}
}

func TestAdmitBackToBackBookingDoesNotCount(t *testing.T) {
	// An existing stay ending on the requested check-in day shares no
	// night with the request, even when the store returns it.
	room := model.Room{ID: 10, HotelID: 6, Quantity: 1}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(room)},
		&fakeStore{findOverlapping: func(context.Context, uint64, time.Time, time.Time) ([]model.Booking, error) {
			return []model.Booking{{
				Rooms:        []model.Room{room},
				CheckInDate:  date("2025-04-10"),
				CheckOutDate: date("2025-04-15"),
			}}, nil
		}},
	)
	req := validRequest()
	req.CheckInDate = date("2025-04-15")
	req.CheckOutDate = date("2025-04-20")
	if _, err := eng.Admit(context.Background(), "guest@example.com", req); err != nil {
		t.Fatalf("back-to-back stay should be admitted: %v", err)
	}
}

func TestAdmitStoreRaceMapsToInsufficientRooms(t *testing.T) {
	room := model.Room{ID: 10, HotelID: 6, Quantity: 2}
	eng := NewEngine(
		&fakeUsers{},
		&fakeHotels{},
		&fakeRooms{getByIDs: roomsByID(room)},
		&fakeStore{save: func(context.Context, *model.Booking) error { return ErrRoomsUnavailable }},
	)
	_, err := eng.Admit(context.Background(), "guest@example.com", validRequest())
	rej := wantRejection(t, err, KindInsufficientRooms)
	if !strings.Contains(rej.Message, "Not enough rooms available") {
		t.Fatalf("message %q missing required phrase", rej.Message)
	}
}

func TestAdmitInfrastructureFaultPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	eng := NewEngine(
		&fakeUsers{getByEmail: func(context.Context, string) (*model.User, error) { return nil, boom }},
		&fakeHotels{},
		&fakeRooms{},
		&fakeStore{},
	)
	_, err := eng.Admit(context.Background(), "guest@example.com", validRequest())
	if !errors.Is(err, boom) {
		t.Fatalf("expected the fault unchanged, got %v", err)
	}
	if _, ok := AsRejection(err); ok {
		t.Fatal("infrastructure fault must not be a rejection")
	}
}

func TestAdmitCustomStatusKept(t *testing.T) {
	room := model.Room{ID: 10, HotelID: 6, Quantity: 2}
	store := &fakeStore{}
	eng := NewEngine(&fakeUsers{}, &fakeHotels{}, &fakeRooms{getByIDs: roomsByID(room)}, store)
	req := validRequest()
	req.Status = "CONFIRMED"
	b, err := eng.Admit(context.Background(), "guest@example.com", req)
	if err != nil {
		t.Fatalf("admit failed: %v", err)
	}
	if b.Status != "CONFIRMED" {
		t.Fatalf("status overwritten: %q", b.Status)
	}
}
