package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// ErrDuplicateFeedback indicates a feedback row already exists for the
// complaint. The unique index on complaint_id closes the race between two
// concurrent submissions.
var ErrDuplicateFeedback = errors.New("feedback already exists for complaint")

const uniqueViolationCode = "23505"

// FeedbackRepository handles persistence for complaint feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByComplaintID(ctx context.Context, complaintID string) (*domain.Feedback, error)
	ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates the repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedbacks (complaint_id, student_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING id, submitted_at`
	err := r.pool.QueryRow(ctx, query,
		feedback.ComplaintID,
		feedback.StudentID,
		feedback.Rating,
		feedback.Comment,
	).Scan(&feedback.ID, &feedback.SubmittedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateFeedback
		}
		return err
	}
	return nil
}

func (r *feedbackRepository) GetByComplaintID(ctx context.Context, complaintID string) (*domain.Feedback, error) {
	const query = `
        SELECT id, complaint_id, student_id, rating, comment, submitted_at
        FROM feedbacks WHERE complaint_id=$1`
	var feedback domain.Feedback
	if err := r.pool.QueryRow(ctx, query, complaintID).Scan(
		&feedback.ID,
		&feedback.ComplaintID,
		&feedback.StudentID,
		&feedback.Rating,
		&feedback.Comment,
		&feedback.SubmittedAt,
	); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) ListByStudent(ctx context.Context, studentID string, limit, offset int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, complaint_id, student_id, rating, comment, submitted_at
        FROM feedbacks WHERE student_id=$1
        ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, studentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var feedback domain.Feedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.ComplaintID,
			&feedback.StudentID,
			&feedback.Rating,
			&feedback.Comment,
			&feedback.SubmittedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, feedback)
	}
	return result, rows.Err()
}
