package models

import (
	"strings"
	"time"
)

// User represents a Spark user as seen by the admin backend
type User struct {
	ID        int       `json:"id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// DisplayName returns the name shown next to audit records
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserName is the minimal projection returned by name lookups
type UserName struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LoginDetails is what a valid session token resolves to
type LoginDetails struct {
	LoggedUser     User   `json:"logged_user"`
	CurrentEventID string `json:"current_event_id"`
}
