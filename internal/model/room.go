package model

import "time"

// Room represents a room *type* within a hotel, not a single physical
// room.  Quantity is the total number of interchangeable units of
// this type the hotel offers; it is a static capacity, never a live
// counter.  Availability for a date range is always derived by
// counting units committed by overlapping bookings.
//
// Fields:
//  ID         – primary key identifier.
//  HotelID    – hotel this room type belongs to.
//  Name       – human readable label (e.g. "Double Deluxe").
//  Quantity   – total physical units of this type hotel-wide.
//  PriceCents – price per unit per night in cents.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Room struct {
	ID         uint64    // rooms.id
	HotelID    uint64    // rooms.hotel_id
	Name       string    // rooms.name
	Quantity   uint32    // rooms.quantity
	PriceCents uint32    // rooms.price_cents
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
