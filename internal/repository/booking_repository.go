package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// dateFmt is how DATE columns are written; parseTime=true reads them
// back as time.Time in UTC.
const dateFmt = "2006-01-02"

// BookingRepo provides persistence for bookings, their room units and
// the invoices derived from them.  It implements the admission
// engine's BookingStore: the overlap query uses the half-open
// predicate, and SaveBookingWithInvoice repeats the capacity check
// under exclusive row locks so that two concurrent admissions for the
// same room type and overlapping dates cannot jointly oversell.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transaction
// control spanning repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// FindOverlappingBookings returns every booking of the hotel whose
// date range intersects [checkIn, checkOut).  Two ranges [a,b) and
// [c,d) overlap iff a < d AND c < b; a checkout on another booking's
// check-in day is not an overlap.  Each returned booking carries its
// full room unit list so callers can count committed units per type.
func (r *BookingRepo) FindOverlappingBookings(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) ([]model.Booking, error) {
	const q = `SELECT id, user_id, hotel_id, check_in_date, check_out_date, number_of_guests, status, created_at
	           FROM bookings
	           WHERE hotel_id = ? AND check_in_date < ? AND check_out_date > ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hotelID, checkOut.Format(dateFmt), checkIn.Format(dateFmt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.HotelID, &b.CheckInDate, &b.CheckOutDate,
			&b.NumberOfGuests, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		index[b.ID] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	// Populate room units for all bookings in one query.
	ids := make([]interface{}, 0, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		placeholders = append(placeholders, "?")
	}
	unitQ := `SELECT br.booking_id, ro.id, ro.hotel_id, ro.name, ro.quantity, ro.price_cents, ro.created_at, ro.updated_at
	          FROM booking_rooms br
	          JOIN rooms ro ON ro.id = br.room_id
	          WHERE br.booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY br.booking_id, br.id`
	urows, err := r.db.QueryContext(ctx, unitQ, ids...)
	if err != nil {
		return nil, err
	}
	defer urows.Close()
	for urows.Next() {
		var bid uint64
		var rm model.Room
		if err := urows.Scan(&bid, &rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[bid]; ok {
			bookings[i].Rooms = append(bookings[i].Rooms, rm)
		}
	}
	return bookings, urows.Err()
}

// CountCommittedUnits returns, per room type of the hotel, how many
// units are committed by bookings overlapping [checkIn, checkOut).
// Room types without overlapping commitments are absent from the map.
func (r *BookingRepo) CountCommittedUnits(ctx context.Context, hotelID uint64, checkIn, checkOut time.Time) (map[uint64]uint32, error) {
	const q = `SELECT br.room_id, COUNT(*)
	           FROM booking_rooms br
	           JOIN bookings b ON b.id = br.booking_id
	           WHERE b.hotel_id = ? AND b.check_in_date < ? AND b.check_out_date > ?
	           GROUP BY br.room_id`
	rows, err := r.db.QueryContext(ctx, q, hotelID, checkOut.Format(dateFmt), checkIn.Format(dateFmt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]uint32)
	for rows.Next() {
		var roomID uint64
		var n uint32
		if err := rows.Scan(&roomID, &n); err != nil {
			return nil, err
		}
		out[roomID] = n
	}
	return out, rows.Err()
}

// SaveBookingWithInvoice persists the booking, its room unit rows and
// the derived invoice in one transaction.  Before inserting it locks
// the requested room rows (SELECT ... FOR UPDATE) and recounts the
// units committed by overlapping bookings: concurrent admissions for
// the same room types serialize on those locks, and the loser gets
// booking.ErrRoomsUnavailable instead of overselling.  On success the
// generated IDs, timestamps and the invoice are populated on b.
func (r *BookingRepo) SaveBookingWithInvoice(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Distinct requested room types and unit counts, insertion order.
	distinct := make([]uint64, 0, len(b.Rooms))
	requested := make(map[uint64]uint32, len(b.Rooms))
	for _, rm := range b.Rooms {
		if _, ok := requested[rm.ID]; !ok {
			distinct = append(distinct, rm.ID)
		}
		requested[rm.ID]++
	}

	if len(distinct) > 0 {
		placeholders := make([]string, 0, len(distinct))
		args := make([]interface{}, 0, len(distinct))
		for _, id := range distinct {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		in := strings.Join(placeholders, ",")

		// Lock the room rows so no concurrent admission can pass its
		// own recount until this transaction finishes.
		lockQ := `SELECT id, quantity FROM rooms WHERE id IN (` + in + `) FOR UPDATE`
		lrows, err := tx.QueryContext(ctx, lockQ, args...)
		if err != nil {
			return err
		}
		quantity := make(map[uint64]uint32, len(distinct))
		for lrows.Next() {
			var id uint64
			var q uint32
			if err := lrows.Scan(&id, &q); err != nil {
				lrows.Close()
				return err
			}
			quantity[id] = q
		}
		if err := lrows.Err(); err != nil {
			lrows.Close()
			return err
		}
		lrows.Close()

		countQ := `SELECT br.room_id, COUNT(*)
		           FROM booking_rooms br
		           JOIN bookings bo ON bo.id = br.booking_id
		           WHERE bo.hotel_id = ? AND bo.check_in_date < ? AND bo.check_out_date > ?
		             AND br.room_id IN (` + in + `)
		           GROUP BY br.room_id`
		countArgs := append([]interface{}{b.HotelID, b.CheckOutDate.Format(dateFmt), b.CheckInDate.Format(dateFmt)}, args...)
		crows, err := tx.QueryContext(ctx, countQ, countArgs...)
		if err != nil {
			return err
		}
		taken := make(map[uint64]uint32, len(distinct))
		for crows.Next() {
			var id uint64
			var n uint32
			if err := crows.Scan(&id, &n); err != nil {
				crows.Close()
				return err
			}
			taken[id] = n
		}
		if err := crows.Err(); err != nil {
			crows.Close()
			return err
		}
		crows.Close()

		for _, id := range distinct {
			if taken[id]+requested[id] > quantity[id] {
				return booking.ErrRoomsUnavailable
			}
		}
	}

	const insQ = `INSERT INTO bookings (user_id, hotel_id, check_in_date, check_out_date, number_of_guests, status)
	              VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ, b.UserID, b.HotelID,
		b.CheckInDate.Format(dateFmt), b.CheckOutDate.Format(dateFmt), b.NumberOfGuests, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if len(b.Rooms) > 0 {
		unitQ := `INSERT INTO booking_rooms (booking_id, room_id) VALUES `
		unitArgs := make([]interface{}, 0, len(b.Rooms)*2)
		for i, rm := range b.Rooms {
			if i > 0 {
				unitQ += ","
			}
			unitQ += "(?, ?)"
			unitArgs = append(unitArgs, b.ID, rm.ID)
		}
		if _, err := tx.ExecContext(ctx, unitQ, unitArgs...); err != nil {
			return err
		}
	}

	// Derive the invoice: nightly unit prices summed over the stay.
	var total uint64
	nights := uint64(b.Nights())
	for _, rm := range b.Rooms {
		total += uint64(rm.PriceCents) * nights
	}
	inv := &model.Invoice{
		BookingID:  b.ID,
		Number:     uuid.NewString(),
		TotalCents: total,
	}
	const invQ = `INSERT INTO invoices (booking_id, number, total_cents) VALUES (?, ?, ?)`
	ires, err := tx.ExecContext(ctx, invQ, inv.BookingID, inv.Number, inv.TotalCents)
	if err != nil {
		return err
	}
	iid, err := ires.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(iid)
	const invSel = `SELECT issued_at FROM invoices WHERE id = ?`
	if err := tx.QueryRowContext(ctx, invSel, inv.ID).Scan(&inv.IssuedAt); err != nil {
		return err
	}
	const bSel = `SELECT created_at FROM bookings WHERE id = ?`
	if err := tx.QueryRowContext(ctx, bSel, b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.Invoice = inv
	return nil
}

// BookingDetail is the customer-facing view of a booking, with hotel
// and room names resolved and the invoice attached.
type BookingDetail struct {
	ID             uint64         `json:"id"`
	HotelID        uint64         `json:"hotel_id"`
	HotelName      string         `json:"hotel_name"`
	CheckInDate    string         `json:"check_in_date"`
	CheckOutDate   string         `json:"check_out_date"`
	NumberOfGuests uint32         `json:"number_of_guests"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	Rooms          []BookedRoom   `json:"rooms"`
	Invoice        *InvoiceDetail `json:"invoice,omitempty"`
}

// BookedRoom is one reserved unit inside a BookingDetail.
type BookedRoom struct {
	RoomID     uint64 `json:"room_id"`
	Name       string `json:"name"`
	PriceCents uint32 `json:"price_cents"`
}

// InvoiceDetail is the invoice part of a BookingDetail.
type InvoiceDetail struct {
	Number     string    `json:"number"`
	TotalCents uint64    `json:"total_cents"`
	IssuedAt   time.Time `json:"issued_at"`
}

// ListByUser returns all bookings of the given user, newest first,
// with hotel names, room units and invoices resolved.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.hotel_id, h.name, b.check_in_date, b.check_out_date,
	                  b.number_of_guests, b.status, b.created_at,
	                  i.number, i.total_cents, i.issued_at
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           LEFT JOIN invoices i ON i.booking_id = b.id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var d BookingDetail
		var in, out time.Time
		var invNumber sql.NullString
		var invTotal sql.NullInt64
		var invIssued sql.NullTime
		if err := rows.Scan(&d.ID, &d.HotelID, &d.HotelName, &in, &out,
			&d.NumberOfGuests, &d.Status, &d.CreatedAt,
			&invNumber, &invTotal, &invIssued); err != nil {
			return nil, err
		}
		d.CheckInDate = in.Format(dateFmt)
		d.CheckOutDate = out.Format(dateFmt)
		if invNumber.Valid {
			d.Invoice = &InvoiceDetail{
				Number:     invNumber.String,
				TotalCents: uint64(invTotal.Int64),
				IssuedAt:   invIssued.Time,
			}
		}
		d.Rooms = []BookedRoom{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	unitQ := `SELECT br.booking_id, ro.id, ro.name, ro.price_cents
	          FROM booking_rooms br
	          JOIN rooms ro ON ro.id = br.room_id
	          WHERE br.booking_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY br.booking_id, br.id`
	urows, err := r.db.QueryContext(ctx, unitQ, ids...)
	if err != nil {
		return nil, err
	}
	defer urows.Close()
	for urows.Next() {
		var bid uint64
		var br BookedRoom
		if err := urows.Scan(&bid, &br.RoomID, &br.Name, &br.PriceCents); err != nil {
			return nil, err
		}
		if i, ok := index[bid]; ok {
			details[i].Rooms = append(details[i].Rooms, br)
		}
	}
	return details, urows.Err()
}

// GetByIDForUser returns one booking of the given user.  A booking
// that does not exist or belongs to someone else yields sql.ErrNoRows
// so handlers answer 404 in both cases.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.hotel_id, h.name, b.check_in_date, b.check_out_date,
	                  b.number_of_guests, b.status, b.created_at,
	                  i.number, i.total_cents, i.issued_at
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           LEFT JOIN invoices i ON i.booking_id = b.id
	           WHERE b.id = ? AND b.user_id = ?`
	var d BookingDetail
	var in, out time.Time
	var invNumber sql.NullString
	var invTotal sql.NullInt64
	var invIssued sql.NullTime
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&d.ID, &d.HotelID, &d.HotelName, &in, &out,
		&d.NumberOfGuests, &d.Status, &d.CreatedAt,
		&invNumber, &invTotal, &invIssued)
	if err != nil {
		return nil, err
	}
	d.CheckInDate = in.Format(dateFmt)
	d.CheckOutDate = out.Format(dateFmt)
	if invNumber.Valid {
		d.Invoice = &InvoiceDetail{
			Number:     invNumber.String,
			TotalCents: uint64(invTotal.Int64),
			IssuedAt:   invIssued.Time,
		}
	}
	d.Rooms = []BookedRoom{}
	const unitQ = `SELECT ro.id, ro.name, ro.price_cents
	               FROM booking_rooms br
	               JOIN rooms ro ON ro.id = br.room_id
	               WHERE br.booking_id = ?
	               ORDER BY br.id`
	rows, err := r.db.QueryContext(ctx, unitQ, d.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var br BookedRoom
		if err := rows.Scan(&br.RoomID, &br.Name, &br.PriceCents); err != nil {
			return nil, err
		}
		d.Rooms = append(d.Rooms, br)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByHotelForOwner returns all bookings of a hotel when accessed by
// its manager.  It verifies ownership first: sql.ErrNoRows when the
// hotel does not exist, ErrForbidden when it belongs to someone else.
func (r *BookingRepo) ListByHotelForOwner(ctx context.Context, hotelID, ownerID uint64) ([]BookingDetail, error) {
	var actualOwner uint64
	if err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM hotels WHERE id = ?`, hotelID).Scan(&actualOwner); err != nil {
		return nil, err
	}
	if actualOwner != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT b.id, b.user_id, b.hotel_id, h.name, b.check_in_date, b.check_out_date,
	                  b.number_of_guests, b.status, b.created_at
	           FROM bookings b
	           JOIN hotels h ON h.id = b.hotel_id
	           WHERE b.hotel_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var userID uint64
		var in, out time.Time
		if err := rows.Scan(&d.ID, &userID, &d.HotelID, &d.HotelName, &in, &out,
			&d.NumberOfGuests, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.CheckInDate = in.Format(dateFmt)
		d.CheckOutDate = out.Format(dateFmt)
		d.Rooms = []BookedRoom{}
		details = append(details, d)
	}
	return details, rows.Err()
}
