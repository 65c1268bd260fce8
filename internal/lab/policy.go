package lab

import "fmt"

// Decision is a conflict policy verdict for one overlapping reservation.
type Decision int

const (
	// Allow admits the new request alongside the existing reservation.
	Allow Decision = iota
	// RemoveExisting evicts the existing reservation in favor of the new one.
	RemoveExisting
	// RejectNew refuses the new request.
	RejectNew
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RemoveExisting:
		return "remove_existing"
	case RejectNew:
		return "reject_new"
	}
	return fmt.Sprintf("decision(%d)", int(d))
}

// ConflictPolicy decides how a new request from requester relates to an
// overlapping reservation held by holder.
type ConflictPolicy func(requester, holder Rank, holderBorrowed bool) Decision

// TeacherPriority never preempts a borrowed session, lets a teacher evict an
// unstarted student reservation, and rejects every other overlap.
func TeacherPriority(requester, holder Rank, holderBorrowed bool) Decision {
	if holderBorrowed {
		return RejectNew
	}
	if requester == Teacher && holder == Student {
		return RemoveExisting
	}
	return RejectNew
}

// FirstCome rejects every overlapping request.
func FirstCome(Rank, Rank, bool) Decision {
	return RejectNew
}

// Policy names accepted by PolicyByName.
const (
	PolicyTeacherPriority = "teacher-priority"
	PolicyFirstCome       = "first-come"
)

// PolicyByName resolves one of the named strategies.
func PolicyByName(name string) (ConflictPolicy, error) {
	switch name {
	case "", PolicyTeacherPriority:
		return TeacherPriority, nil
	case PolicyFirstCome:
		return FirstCome, nil
	}
	return nil, fmt.Errorf("unknown conflict policy %q", name)
}
