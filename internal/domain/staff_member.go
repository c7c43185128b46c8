package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleAdmin       StaffRole = "ADMIN"
	StaffRoleMaintenance StaffRole = "MAINTENANCE"
)

// StaffMember models an administrator or maintenance worker.
// FacilityCapabilities lists the facility categories a maintenance
// worker can service; it is empty for admins.
type StaffMember struct {
	ID                   string
	Name                 string
	Email                string
	PasswordHash         string
	Phone                *string
	Role                 StaffRole
	FacilityCapabilities []FacilityType
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CanService reports whether the staff member handles the given facility.
func (s *StaffMember) CanService(facility FacilityType) bool {
	for _, capability := range s.FacilityCapabilities {
		if capability == facility {
			return true
		}
	}
	return false
}
