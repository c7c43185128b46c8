package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/events"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// FeedbackService handles ratings on resolved complaints.
type FeedbackService struct {
	feedbacks  repository.FeedbackRepository
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// FeedbackDependencies bundles repositories.
type FeedbackDependencies struct {
	FeedbackRepo  repository.FeedbackRepository
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	return &FeedbackService{
		feedbacks:  deps.FeedbackRepo,
		complaints: deps.ComplaintRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Submit records a student's rating of their resolved complaint. Exactly
// one feedback may exist per complaint; the store's uniqueness constraint
// is the final arbiter under concurrency.
func (s *FeedbackService) Submit(ctx context.Context, student *domain.User, complaintID string, rating int, comment string) (*domain.Feedback, error) {
	if student == nil {
		return nil, apperrors.NewUnauthorized("student required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.StudentID != student.ID {
		return nil, apperrors.NewForbidden("not your complaint")
	}
	if complaint.Status != domain.ComplaintStatusResolved {
		return nil, apperrors.NewInvalidTransition("complaint is not resolved", map[string]any{
			"complaint_id": complaintID,
			"status":       complaint.Status,
		})
	}

	feedback := &domain.Feedback{
		ComplaintID: complaintID,
		StudentID:   student.ID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
	}
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicateFeedback) {
			return nil, apperrors.NewInvalidTransition("feedback already submitted for complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventFeedbackSubmitted,
		ComplaintID: complaintID,
		Actor:       studentActor(student.ID),
		Payload: events.FeedbackSubmittedPayload{
			FeedbackID: feedback.ID,
			Rating:     feedback.Rating,
		},
	})
	return feedback, nil
}

// ListStudentFeedbacks returns a student's own feedback entries.
func (s *FeedbackService) ListStudentFeedbacks(ctx context.Context, studentID string, limit, offset int) ([]domain.Feedback, error) {
	feedbacks, err := s.feedbacks.ListByStudent(ctx, studentID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return feedbacks, nil
}

func (s *FeedbackService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
