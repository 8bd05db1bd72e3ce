package booking

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Reservation holds one unit of a spot's capacity for a live booking.
type Reservation struct {
	BookingID uuid.UUID
	SpotID    uuid.UUID
	Slot      TimeSlot
	CreatedAt time.Time
}

type edge struct {
	at    time.Time
	delta int
}

// PeakOverlap returns the largest number of reservations that are live at
// the same instant within window. Reservations outside window are ignored
// and the parts of reservations sticking out of it are clipped.
func PeakOverlap(window TimeSlot, reservations []Reservation) int {
	edges := make([]edge, 0, len(reservations)*2)
	for _, r := range reservations {
		if !r.Slot.Overlaps(window) {
			continue
		}
		start, end := r.Slot.start, r.Slot.end
		if start.Before(window.start) {
			start = window.start
		}
		if end.After(window.end) {
			end = window.end
		}
		edges = append(edges, edge{at: start, delta: 1}, edge{at: end, delta: -1})
	}

	// Ends sort before starts at the same instant: [10,11) and [11,12) never overlap.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	peak, current := 0, 0
	for _, e := range edges {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}

// Available is capacity minus peak overlap, never below zero.
func Available(capacity int, window TimeSlot, reservations []Reservation) int {
	free := capacity - PeakOverlap(window, reservations)
	if free < 0 {
		return 0
	}
	return free
}

// Fits reports whether one more reservation over window keeps every instant
// within capacity.
func Fits(capacity int, window TimeSlot, reservations []Reservation) bool {
	return PeakOverlap(window, reservations)+1 <= capacity
}
