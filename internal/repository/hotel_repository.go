package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// ErrHotelNotFound is returned when a hotel lookup fails.
var ErrHotelNotFound = errors.New("hotel not found")

// HotelRepo provides methods to create and retrieve hotels.  It
// doubles as the booking engine's HotelCatalog.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the given DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// Create inserts a new hotel.  OwnerID, Name and City must be set.
// After insert the generated ID and DB-default timestamps are
// populated on the given struct.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (owner_id, name, city, address) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.City, h.Address)
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
	h.ID = uint64(id)

	const qSelect = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hotel by its ID regardless of owner.  It
// returns ErrHotelNotFound when no row is found.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetHotelByID implements booking.HotelCatalog: an absent hotel is
// (nil, nil), any other failure is an infrastructure fault.
func (r *HotelRepo) GetHotelByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrHotelNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return h, nil
}

// ListAll returns every hotel, ordered by name.  Used by the public
// browse endpoints.
func (r *HotelRepo) ListAll(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ListByOwner returns the hotels managed by the given user.
func (r *HotelRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Hotel, error) {
	const q = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE owner_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Update changes name, city and address of a hotel owned by ownerID.
// It returns ErrHotelNotFound when the hotel does not exist and
// ErrForbidden when it belongs to someone else.
func (r *HotelRepo) Update(ctx context.Context, ownerID uint64, h *model.Hotel) error {
	cur, err := r.GetByID(ctx, h.ID)
	if err != nil {
		return err
	}
	if cur.OwnerID != ownerID {
		return ErrForbidden
	}
	const q = `UPDATE hotels SET name = ?, city = ?, address = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.Address, h.ID); err != nil {
		return err
	}
	const sel = `SELECT id, owner_id, name, city, address, created_at, updated_at FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, h.ID).
		Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.Address, &h.CreatedAt, &h.UpdatedAt)
}

// Delete removes a hotel owned by ownerID.  Hotels with existing
// bookings cannot be removed; that case surfaces as ErrConflict.
func (r *HotelRepo) Delete(ctx context.Context, ownerID, hotelID uint64) error {
	cur, err := r.GetByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if cur.OwnerID != ownerID {
		return ErrForbidden
	}
	var n uint64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE hotel_id = ?`, hotelID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, hotelID)
	return err
}
