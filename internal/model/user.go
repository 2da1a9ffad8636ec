package model

import "time"

// Role distinguishes the two kinds of accounts. Students search and book
// rooms; librarians manage rooms, schedules and users. A user never changes
// their own role; only a librarian does.
type Role string

const (
	RoleStudent   Role = "student"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleLibrarian
}

// User mirrors a row of the `users` table. New accounts default to the
// student role on registration. PasswordHash is a bcrypt hash and is never
// serialized.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
