// Package booking implements the booking admission engine: the
// decision logic that accepts or rejects a booking request against
// per-room-type inventory and existing overlapping bookings.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RejectionKind identifies why an admission attempt was refused.
type RejectionKind int

const (
	KindUserNotFound RejectionKind = iota + 1
	KindHotelNotFound
	KindRoomNotFound
	KindInvalidDateRange
	KindInsufficientRooms
)

// Rejection is a domain-level refusal of a booking request.  It is an
// expected outcome, distinct from infrastructure failures: handlers
// translate it into a specific HTTP status and the Message field is
// the exact caller-visible response body.  Rejections are never
// retried and never logged as errors.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// AsRejection unwraps err into a *Rejection when the error chain
// contains one.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// ErrRoomsUnavailable is returned by a BookingStore when the
// in-transaction capacity re-check fails, i.e. a concurrent admission
// committed the remaining units between the engine's check and the
// save.  The engine maps it to an InsufficientRooms rejection.
var ErrRoomsUnavailable = errors.New("rooms no longer available")

func rejectUserNotFound() *Rejection {
	return &Rejection{Kind: KindUserNotFound, Message: "User not found."}
}

func rejectHotelNotFound() *Rejection {
	return &Rejection{Kind: KindHotelNotFound, Message: "Hotel not found."}
}

func rejectRoomNotFound(roomID uint64) *Rejection {
	return &Rejection{
		Kind:    KindRoomNotFound,
		Message: fmt.Sprintf("Room with ID %d not found.", roomID),
	}
}

func rejectInvalidDateRange() *Rejection {
	return &Rejection{
		Kind:    KindInvalidDateRange,
		Message: "Check-out date must be after check-in date.",
	}
}

// rejectInsufficientRooms builds the aggregate message for every room
// type that failed the capacity check.  An empty list is used when
// the storage layer lost a concurrent race and the failing types are
// unknown.
func rejectInsufficientRooms(roomIDs []uint64) *Rejection {
	var msg string
	switch len(roomIDs) {
	case 0:
		msg = "Not enough rooms available for the selected dates."
	case 1:
		msg = fmt.Sprintf("Not enough rooms available for room ID %d.", roomIDs[0])
	default:
		parts := make([]string, 0, len(roomIDs))
		for _, id := range roomIDs {
			parts = append(parts, strconv.FormatUint(id, 10))
		}
		msg = fmt.Sprintf("Not enough rooms available for room IDs %s.", strings.Join(parts, ", "))
	}
	return &Rejection{Kind: KindInsufficientRooms, Message: msg}
}
