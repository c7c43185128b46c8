package dto

import (
	"time"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// CreateFeedbackRequest payload.
type CreateFeedbackRequest struct {
	ComplaintID string `json:"complaint_id"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// FeedbackResponse representation.
type FeedbackResponse struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	StudentID   string    `json:"student_id"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewFeedbackResponse maps a domain feedback.
func NewFeedbackResponse(feedback *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          feedback.ID,
		ComplaintID: feedback.ComplaintID,
		StudentID:   feedback.StudentID,
		Rating:      feedback.Rating,
		Comment:     feedback.Comment,
		SubmittedAt: feedback.SubmittedAt,
	}
}
