package model

import "time"

// Booking records a user's stay at a hotel for a half-open date
// interval [CheckInDate, CheckOutDate).  The Rooms slice holds one
// entry per reserved unit: requesting the same room type twice means
// two units of that type, and the duplicates are preserved in request
// order.  A booking is created only through successful admission and
// is never mutated afterwards.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – user who made the booking.
//  HotelID        – hotel being booked.
//  Rooms          – resolved room types, one entry per unit.
//  CheckInDate    – first night of the stay (calendar date, UTC).
//  CheckOutDate   – day of departure, exclusive.
//  NumberOfGuests – guest count supplied by the client.
//  Status         – free-form label, "PENDING" by default.
//  Invoice        – invoice generated together with the booking.
//  CreatedAt      – creation timestamp.
type Booking struct {
	ID             uint64    // bookings.id
	UserID         uint64    // bookings.user_id
	HotelID        uint64    // bookings.hotel_id
	Rooms          []Room    // bookings -> booking_rooms, one row per unit
	CheckInDate    time.Time // bookings.check_in_date (DATE)
	CheckOutDate   time.Time // bookings.check_out_date (DATE)
	NumberOfGuests uint32    // bookings.number_of_guests
	Status         string    // bookings.status
	Invoice        *Invoice  // invoices row created in the same transaction
	CreatedAt      time.Time // bookings.created_at
}

// Nights returns the length of the stay in nights.  A same-day or
// inverted interval yields zero.
func (b *Booking) Nights() int {
	n := int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// OverlapsRange reports whether the booking's interval intersects the
// half-open interval [checkIn, checkOut).  A checkout on the same day
// as another booking's check-in does not count as overlap.
func (b *Booking) OverlapsRange(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && checkIn.Before(b.CheckOutDate)
}

// RoomUnits returns how many units of the given room type the booking
// commits.
func (b *Booking) RoomUnits(roomID uint64) uint32 {
	var n uint32
	for _, r := range b.Rooms {
		if r.ID == roomID {
			n++
		}
	}
	return n
}
