package dto

import (
	"time"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// ProvisionStaffRequest payload.
type ProvisionStaffRequest struct {
	Name                 string                `json:"name"`
	Email                string                `json:"email"`
	Password             string                `json:"password"`
	Phone                *string               `json:"phone"`
	Role                 domain.StaffRole      `json:"role"`
	FacilityCapabilities []domain.FacilityType `json:"facility_capabilities"`
}

// StaffProfile response.
type StaffProfile struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Email                string                `json:"email"`
	Phone                *string               `json:"phone,omitempty"`
	Role                 domain.StaffRole      `json:"role"`
	FacilityCapabilities []domain.FacilityType `json:"facility_capabilities"`
	Active               bool                  `json:"active"`
	CreatedAt            time.Time             `json:"created_at"`
}

// StaffRecommendationResponse pairs a candidate with their open workload.
type StaffRecommendationResponse struct {
	Staff    StaffProfile `json:"staff"`
	OpenLoad int          `json:"open_load"`
}

// NewStaffProfile maps a domain staff member.
func NewStaffProfile(staff *domain.StaffMember) *StaffProfile {
	if staff == nil {
		return nil
	}
	capabilities := staff.FacilityCapabilities
	if capabilities == nil {
		capabilities = []domain.FacilityType{}
	}
	return &StaffProfile{
		ID:                   staff.ID,
		Name:                 staff.Name,
		Email:                staff.Email,
		Phone:                staff.Phone,
		Role:                 staff.Role,
		FacilityCapabilities: capabilities,
		Active:               staff.Active,
		CreatedAt:            staff.CreatedAt,
	}
}
