package dto

import (
	"time"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	HostelName       string              `json:"hostel_name"`
	RoomNumber       string              `json:"room_number"`
	FacilityType     domain.FacilityType `json:"facility_type"`
	IssueDescription string              `json:"issue_description"`
	Urgency          domain.UrgencyLevel `json:"urgency"`
}

// UpdateComplaintRequest payload for PATCH /complaints/:id.
type UpdateComplaintRequest struct {
	Status  domain.ComplaintStatus `json:"status"`
	Remarks *string                `json:"remarks"`
}

// AssignComplaintRequest payload for PATCH /complaints/:id/assign.
type AssignComplaintRequest struct {
	StaffID string `json:"staff_id"`
}

// ComplaintResponse is the canonical complaint representation.
type ComplaintResponse struct {
	ID               string                 `json:"id"`
	StudentID        string                 `json:"student_id"`
	HostelName       string                 `json:"hostel_name"`
	RoomNumber       string                 `json:"room_number"`
	FacilityType     domain.FacilityType    `json:"facility_type"`
	IssueDescription string                 `json:"issue_description"`
	Status           domain.ComplaintStatus `json:"status"`
	Urgency          domain.UrgencyLevel    `json:"urgency"`
	AssignedStaffID  *string                `json:"assigned_staff_id,omitempty"`
	AssignedAt       *time.Time             `json:"assigned_at,omitempty"`
	Remarks          *string                `json:"remarks,omitempty"`
	SubmittedAt      time.Time              `json:"submitted_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	ResolvedAt       *time.Time             `json:"resolved_at,omitempty"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:               complaint.ID,
		StudentID:        complaint.StudentID,
		HostelName:       complaint.HostelName,
		RoomNumber:       complaint.RoomNumber,
		FacilityType:     complaint.FacilityType,
		IssueDescription: complaint.IssueDescription,
		Status:           complaint.Status,
		Urgency:          complaint.Urgency,
		AssignedStaffID:  complaint.AssignedStaffID,
		AssignedAt:       complaint.AssignedAt,
		Remarks:          complaint.Remarks,
		SubmittedAt:      complaint.SubmittedAt,
		UpdatedAt:        complaint.UpdatedAt,
		ResolvedAt:       complaint.ResolvedAt,
	}
}
