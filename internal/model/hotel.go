package model

import "time"

// Hotel represents a property managed by a user.  A hotel offers one
// or more room types.  Each hotel belongs to one manager.  This
// struct corresponds to a row in the `hotels` table.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the managing account.
//  Name      – unique name of the hotel per owner.
//  City      – city the hotel is located in.
//  Address   – street address.
//  CreatedAt – timestamp when the hotel was created.
//  UpdatedAt – timestamp of last update.
type Hotel struct {
	ID        uint64    // hotels.id
	OwnerID   uint64    // hotels.owner_id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   string    // hotels.address
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
