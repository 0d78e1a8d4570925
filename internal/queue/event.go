// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when an admission succeeds and the
// booking plus its invoice have been committed.  It carries enough
// information for downstream consumers to log, notify, or trigger
// analytics without querying the primary database.
type BookingCreatedEvent struct {
	BookingID      uint64   `json:"booking_id"`
	UserID         uint64   `json:"user_id"`
	HotelID        uint64   `json:"hotel_id"`
	RoomIDs        []uint64 `json:"room_ids"`
	CheckInDate    string   `json:"check_in_date"`
	CheckOutDate   string   `json:"check_out_date"`
	NumberOfGuests uint32   `json:"number_of_guests"`
	Status         string   `json:"status"`
	InvoiceNumber  string   `json:"invoice_number"`
	TotalCents     uint64   `json:"total_cents"`
	CreatedAt      string   `json:"created_at"`
}
