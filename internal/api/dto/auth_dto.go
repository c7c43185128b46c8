package dto

import (
	"time"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// RegisterStudentRequest payload.
type RegisterStudentRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone"`
	MatricNumber string  `json:"matric_number"`
	HostelName   string  `json:"hostel_name"`
	RoomNumber   string  `json:"room_number"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse returns the issued token and the authenticated profile.
type AuthResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Subject   domain.SubjectType `json:"subject"`
	Student   *StudentProfile    `json:"student,omitempty"`
	Staff     *StaffProfile      `json:"staff,omitempty"`
}

// StudentProfile response.
type StudentProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	MatricNumber string  `json:"matric_number"`
	HostelName   string  `json:"hostel_name"`
	RoomNumber   string  `json:"room_number"`
}

// NewStudentProfile maps a domain user.
func NewStudentProfile(user *domain.User) *StudentProfile {
	if user == nil {
		return nil
	}
	return &StudentProfile{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		MatricNumber: user.MatricNumber,
		HostelName:   user.HostelName,
		RoomNumber:   user.RoomNumber,
	}
}
