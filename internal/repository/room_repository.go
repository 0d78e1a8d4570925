package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrRoomNotFound indicates that a room type was not located in the DB.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo manages persistence for room types.  A room row describes a
// class of interchangeable rooms with a total unit count; it is never
// decremented, availability is always derived from bookings.  RoomRepo
// also serves as the booking engine's RoomCatalog.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room type.  HotelID, Name, Quantity and
// PriceCents must be set; the generated ID and timestamps are
// populated on success.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (hotel_id, name, quantity, price_cents) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.HotelID, rm.Name, rm.Quantity, rm.PriceCents)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	const sel = `SELECT id, hotel_id, name, quantity, price_cents, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rm.ID).
		Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID retrieves a room type by its ID.  It returns ErrRoomNotFound
// when there is no matching row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, name, quantity, price_cents, created_at, updated_at FROM rooms WHERE id = ?`
	var rm model.Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// GetRoomsByIDs returns the room types matching the given ids.  Ids
// without a row are simply absent from the result; callers detect
// gaps by comparing requested against returned ids.  Passing an empty
// slice returns an empty result.
func (r *RoomRepo) GetRoomsByIDs(ctx context.Context, ids []uint64) ([]model.Room, error) {
	if len(ids) == 0 {
		return []model.Room{}, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	q := `SELECT id, hotel_id, name, quantity, price_cents, created_at, updated_at
	      FROM rooms WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0, len(ids))
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// ListByHotel returns all room types of a hotel ordered by name.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	const q = `SELECT id, hotel_id, name, quantity, price_cents, created_at, updated_at FROM rooms WHERE hotel_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Update changes name, quantity and price of a room type.  Ownership
// is verified through the owning hotel.  Shrinking the quantity below
// what existing bookings commit is allowed; the static capacity only
// constrains future admissions.
func (r *RoomRepo) Update(ctx context.Context, ownerID uint64, rm *model.Room) error {
	var hotelOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT h.owner_id FROM rooms ro JOIN hotels h ON h.id = ro.hotel_id WHERE ro.id = ?`,
		rm.ID).Scan(&hotelOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if hotelOwner != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE rooms SET name = ?, quantity = ?, price_cents = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, rm.Name, rm.Quantity, rm.PriceCents, rm.ID); err != nil {
		return err
	}
	const sel = `SELECT id, hotel_id, name, quantity, price_cents, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, rm.ID).
		Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Quantity, &rm.PriceCents, &rm.CreatedAt, &rm.UpdatedAt)
}

// Delete removes a room type owned (via its hotel) by ownerID.  Room
// types referenced by bookings cannot be removed and surface as
// ErrConflict.
func (r *RoomRepo) Delete(ctx context.Context, ownerID, roomID uint64) error {
	var hotelOwner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT h.owner_id FROM rooms ro JOIN hotels h ON h.id = ro.hotel_id WHERE ro.id = ?`,
		roomID).Scan(&hotelOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	if hotelOwner != ownerID {
		return ErrForbidden
	}
	var n uint64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_rooms WHERE room_id = ?`, roomID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
	return err
}
