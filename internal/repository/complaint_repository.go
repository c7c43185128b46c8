package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// ComplaintFilter captures search parameters for complaint listings.
type ComplaintFilter struct {
	StudentID     *string
	AssigneeID    *string
	HostelName    *string
	Statuses      []domain.ComplaintStatus
	FacilityTypes []domain.FacilityType
	Urgencies     []domain.UrgencyLevel
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Limit         int
	Offset        int
}

// StatusCounts aggregates complaint totals for the admin dashboard.
type StatusCounts struct {
	ByStatus   map[domain.ComplaintStatus]int
	ByFacility map[domain.FacilityType]int
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	// AssignIfUnassigned sets the assignee only while the complaint is still
	// Pending and has no assignee; it reports whether the row was claimed.
	AssignIfUnassigned(ctx context.Context, id, staffID string, at time.Time) (bool, error)
	CountOpenByAssignee(ctx context.Context, staffIDs []string) (map[string]int, error)
	CountByStatusAndFacility(ctx context.Context) (*StatusCounts, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, student_id, hostel_name, room_number, facility_type, issue_description,
               status, urgency, assigned_staff_id, assigned_at, remarks, submitted_at, updated_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (student_id, hostel_name, room_number, facility_type, issue_description, status, urgency)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, submitted_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.StudentID,
		complaint.HostelName,
		complaint.RoomNumber,
		complaint.FacilityType,
		complaint.IssueDescription,
		complaint.Status,
		complaint.Urgency,
	).Scan(&complaint.ID, &complaint.SubmittedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET status=$1, assigned_staff_id=$2, assigned_at=$3, remarks=$4, resolved_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Status,
		complaint.AssignedStaffID,
		complaint.AssignedAt,
		complaint.Remarks,
		complaint.ResolvedAt,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	var complaint domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&complaint)...); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// AssignIfUnassigned is the compare-and-swap guarding concurrent assigns:
// the UPDATE matches only the expected pre-state, so of two racing calls
// exactly one observes RowsAffected()==1.
func (r *complaintRepository) AssignIfUnassigned(ctx context.Context, id, staffID string, at time.Time) (bool, error) {
	const query = `
        UPDATE complaints SET assigned_staff_id=$1, assigned_at=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4 AND assigned_staff_id IS NULL`
	cmd, err := r.pool.Exec(ctx, query, staffID, at, id, domain.ComplaintStatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		clauses = append(clauses, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_staff_id=$%d", len(args)))
	}
	if filter.HostelName != nil {
		args = append(args, *filter.HostelName)
		clauses = append(clauses, fmt.Sprintf("hostel_name=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.FacilityTypes) > 0 {
		placeholders := make([]string, len(filter.FacilityTypes))
		for i, facility := range filter.FacilityTypes {
			args = append(args, facility)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("facility_type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, urgency := range filter.Urgencies {
			args = append(args, urgency)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SubmittedFrom != nil {
		args = append(args, *filter.SubmittedFrom)
		clauses = append(clauses, fmt.Sprintf("submitted_at >= $%d", len(args)))
	}
	if filter.SubmittedTo != nil {
		args = append(args, *filter.SubmittedTo)
		clauses = append(clauses, fmt.Sprintf("submitted_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY submitted_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) CountOpenByAssignee(ctx context.Context, staffIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(staffIDs))
	if len(staffIDs) == 0 {
		return counts, nil
	}
	const query = `
        SELECT assigned_staff_id, COUNT(*)
        FROM complaints
        WHERE assigned_staff_id = ANY($1) AND status <> $2
        GROUP BY assigned_staff_id`
	rows, err := r.pool.Query(ctx, query, staffIDs, domain.ComplaintStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var staffID string
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			return nil, err
		}
		counts[staffID] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) CountByStatusAndFacility(ctx context.Context) (*StatusCounts, error) {
	counts := &StatusCounts{
		ByStatus:   make(map[domain.ComplaintStatus]int),
		ByFacility: make(map[domain.FacilityType]int),
	}

	statusRows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status domain.ComplaintStatus
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts.ByStatus[status] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, err
	}

	facilityRows, err := r.pool.Query(ctx, `SELECT facility_type, COUNT(*) FROM complaints GROUP BY facility_type`)
	if err != nil {
		return nil, err
	}
	defer facilityRows.Close()
	for facilityRows.Next() {
		var facility domain.FacilityType
		var count int
		if err := facilityRows.Scan(&facility, &count); err != nil {
			return nil, err
		}
		counts.ByFacility[facility] = count
	}
	return counts, facilityRows.Err()
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.StudentID,
		&c.HostelName,
		&c.RoomNumber,
		&c.FacilityType,
		&c.IssueDescription,
		&c.Status,
		&c.Urgency,
		&c.AssignedStaffID,
		&c.AssignedAt,
		&c.Remarks,
		&c.SubmittedAt,
		&c.UpdatedAt,
		&c.ResolvedAt,
	}
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := rows.Scan(complaintFields(&complaint)...); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
