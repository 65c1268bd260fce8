package lab

import "fmt"

// Rank is a user's privilege level. Ranks are ordered: Student < Teacher < Admin.
type Rank int

const (
	Student Rank = iota
	Teacher
	Admin
)

func (r Rank) String() string {
	switch r {
	case Student:
		return "student"
	case Teacher:
		return "teacher"
	case Admin:
		return "admin"
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// Valid reports whether r is one of the defined ranks.
func (r Rank) Valid() bool {
	return r >= Student && r <= Admin
}

// DefaultCredit is the credit a user of rank r starts with.
func (r Rank) DefaultCredit() int {
	switch r {
	case Teacher:
		return 200
	case Admin:
		return 500
	}
	return 100
}

// Priority is the display priority of rank r.
func (r Rank) Priority() int {
	switch r {
	case Teacher:
		return 10
	case Admin:
		return 99
	}
	return 1
}

// User is a registered account. PasswordHash is opaque to this package.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreditScore  int
	Priority     int
	Rank         Rank
}

func newUser(id int64, username, passwordHash string, rank Rank) *User {
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreditScore:  rank.DefaultCredit(),
		Priority:     rank.Priority(),
		Rank:         rank,
	}
}

// CanReserve reports whether the user is currently eligible to reserve.
func (u *User) CanReserve() bool {
	return u.CreditScore > 0
}

// deductCredit lowers the score by amount. There is no floor.
func (u *User) deductCredit(amount int) {
	if amount <= 0 {
		return
	}
	u.CreditScore -= amount
}

func (u *User) restoreCredit() {
	u.CreditScore = u.Rank.DefaultCredit()
}
