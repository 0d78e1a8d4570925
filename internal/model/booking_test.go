package model

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlapsRangeHalfOpen(t *testing.T) {
	cases := []struct {
		name           string
		bIn, bOut      string
		qIn, qOut      string
		want           bool
	}{
		{"back to back after", "2025-04-10", "2025-04-15", "2025-04-15", "2025-04-20", false},
		{"back to back before", "2025-04-15", "2025-04-20", "2025-04-10", "2025-04-15", false},
		{"one shared night", "2025-04-10", "2025-04-15", "2025-04-14", "2025-04-20", true},
		{"contained", "2025-04-10", "2025-04-20", "2025-04-12", "2025-04-14", true},
		{"identical", "2025-04-10", "2025-04-15", "2025-04-10", "2025-04-15", true},
		{"disjoint", "2025-04-01", "2025-04-05", "2025-04-10", "2025-04-15", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Booking{CheckInDate: d(tc.bIn), CheckOutDate: d(tc.bOut)}
			if got := b.OverlapsRange(d(tc.qIn), d(tc.qOut)); got != tc.want {
				t.Fatalf("OverlapsRange(%s,%s) on [%s,%s) = %v, want %v",
					tc.qIn, tc.qOut, tc.bIn, tc.bOut, got, tc.want)
			}
		})
	}
}

func TestRoomUnitsCountsDuplicates(t *testing.T) {
	b := Booking{Rooms: []Room{{ID: 1}, {ID: 2}, {ID: 1}}}
	if got := b.RoomUnits(1); got != 2 {
		t.Fatalf("RoomUnits(1) = %d, want 2", got)
	}
	if got := b.RoomUnits(3); got != 0 {
		t.Fatalf("RoomUnits(3) = %d, want 0", got)
	}
}

func TestNights(t *testing.T) {
	b := Booking{CheckInDate: d("2025-04-05"), CheckOutDate: d("2025-04-09")}
	if got := b.Nights(); got != 4 {
		t.Fatalf("Nights() = %d, want 4", got)
	}
	inverted := Booking{CheckInDate: d("2025-04-09"), CheckOutDate: d("2025-04-05")}
	if got := inverted.Nights(); got != 0 {
		t.Fatalf("Nights() on inverted range = %d, want 0", got)
	}
}
