package domain

import "time"

// UserStatus represents lifecycle states for a student account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for students who submit complaints.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	MatricNumber string
	HostelName   string
	RoomNumber   string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
