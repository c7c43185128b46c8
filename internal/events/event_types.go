package events

import (
	"time"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted     EventType = "complaint_submitted"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventFeedbackSubmitted      EventType = "feedback_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type      domain.SubjectType `json:"type"`
	StudentID *string            `json:"student_id,omitempty"`
	StaffID   *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	HostelName   string              `json:"hostel_name"`
	RoomNumber   string              `json:"room_number"`
	FacilityType domain.FacilityType `json:"facility_type"`
	Urgency      domain.UrgencyLevel `json:"urgency"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	AssignedStaffID string              `json:"assigned_staff_id"`
	FacilityType    domain.FacilityType `json:"facility_type"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Remarks   string                 `json:"remarks,omitempty"`
}

// FeedbackSubmittedPayload payload.
type FeedbackSubmittedPayload struct {
	FeedbackID string `json:"feedback_id"`
	Rating     int    `json:"rating"`
}
