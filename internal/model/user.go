// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User roles. Plain string constants rather than a custom type — the role
// travels through JWT claims and JSON, where it's a string anyway.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
//
// Email is the login identifier and is UNIQUE in the database.
// PasswordHash holds the bcrypt hash and is never serialized — the
// `json:"-"` tag makes encoding/json skip it entirely, so a User can be
// returned from any endpoint without leaking credentials.
//
// GitHubID is non-zero only for accounts created or linked through the
// optional GitHub OAuth signin. Password accounts leave it at 0.
type User struct {
	ID           string    `json:"id"           db:"id"`
	FullName     string    `json:"fullname"     db:"fullname"`
	Email        string    `json:"email"        db:"email"`
	PhoneNumber  string    `json:"phoneNumber"  db:"phone_number"`
	PasswordHash string    `json:"-"            db:"password_hash"`
	ProfilePhoto string    `json:"profilePhoto" db:"profile_photo"` // URL, may be empty
	Role         string    `json:"role"         db:"role"`
	GitHubID     int64     `json:"-"            db:"github_id"`
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    db:"updated_at"`
}

// IsAdmin reports whether the user has the administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the slice of a User attached to items and swaps for
// display — just the fields a listing needs to show who's involved.
type UserSummary struct {
	ID           string `json:"id"`
	FullName     string `json:"fullname"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// Summary returns the display slice of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
	}
}
