package lab

import "time"

// Reservation is a claim on a device over the half-open window [Start, End).
// BorrowedAt is zero until the holder borrows the device.
type Reservation struct {
	UserID     int64
	Start      time.Time
	End        time.Time
	Borrowed   bool
	BorrowedAt time.Time
}

// Covers reports whether t falls inside the reservation window.
func (r Reservation) Covers(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overdue reports whether the window has already ended at t.
func (r Reservation) Overdue(t time.Time) bool {
	return t.After(r.End)
}

// overlaps is the symmetric test max(s1,s2) < min(e1,e2).
func overlaps(s1, e1, s2, e2 time.Time) bool {
	start := s1
	if s2.After(start) {
		start = s2
	}
	end := e1
	if e2.Before(end) {
		end = e2
	}
	return start.Before(end)
}
