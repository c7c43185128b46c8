package domain

import "time"

// FacilityType is the closed set of facility categories a complaint
// can be raised against. The set is fixed; it is not user-extensible.
type FacilityType string

const (
	FacilityAirConditioner FacilityType = "AirConditioner"
	FacilityBathroom       FacilityType = "Bathroom"
	FacilityFurniture      FacilityType = "Furniture"
	FacilityElectrical     FacilityType = "Electrical"
	FacilityPlumbing       FacilityType = "Plumbing"
	FacilityDoorWindow     FacilityType = "Door/Window"
	FacilityLighting       FacilityType = "Lighting"
	FacilityOthers         FacilityType = "Others"
)

// FacilityTypes lists every valid facility category.
func FacilityTypes() []FacilityType {
	return []FacilityType{
		FacilityAirConditioner,
		FacilityBathroom,
		FacilityFurniture,
		FacilityElectrical,
		FacilityPlumbing,
		FacilityDoorWindow,
		FacilityLighting,
		FacilityOthers,
	}
}

// Valid reports whether the facility type is part of the enumeration.
func (f FacilityType) Valid() bool {
	for _, known := range FacilityTypes() {
		if f == known {
			return true
		}
	}
	return false
}

// ComplaintStatus enumerates lifecycle states for complaints.
// Statuses only ever move forward: Pending < InProgress < Resolved.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusInProgress ComplaintStatus = "InProgress"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
)

// Valid reports whether the status is a known lifecycle state.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved:
		return true
	}
	return false
}

// UrgencyLevel enumerates how quickly a complaint needs attention.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "Low"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyHigh   UrgencyLevel = "High"
)

// Valid reports whether the urgency level is known.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Complaint is the aggregate for facility issue reports.
// ResolvedAt is set exactly when Status is Resolved.
type Complaint struct {
	ID               string
	StudentID        string
	HostelName       string
	RoomNumber       string
	FacilityType     FacilityType
	IssueDescription string
	Status           ComplaintStatus
	Urgency          UrgencyLevel
	AssignedStaffID  *string
	AssignedAt       *time.Time
	Remarks          *string
	SubmittedAt      time.Time
	UpdatedAt        time.Time
	ResolvedAt       *time.Time
}
