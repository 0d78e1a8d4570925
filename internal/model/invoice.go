package model

import "time"

// Invoice is generated as an inseparable side effect of booking
// creation; both rows persist in the same transaction or neither
// does.  TotalCents is the sum of unit prices per night across all
// reserved units multiplied by the number of nights.
type Invoice struct {
	ID         uint64    // invoices.id
	BookingID  uint64    // invoices.booking_id
	Number     string    // invoices.number (UUID)
	TotalCents uint64    // invoices.total_cents
	IssuedAt   time.Time // invoices.issued_at
}
