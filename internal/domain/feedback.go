package domain

import "time"

// Feedback is a student's rating of a resolved complaint. At most one
// feedback exists per complaint and it is immutable once submitted.
type Feedback struct {
	ID          string
	ComplaintID string
	StudentID   string
	Rating      int
	Comment     string
	SubmittedAt time.Time
}
