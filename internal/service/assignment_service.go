package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// AssignmentService recommends maintenance staff for pending complaints.
// It only ranks candidates; assignment stays an explicit admin action on
// the complaint service.
type AssignmentService struct {
	complaints repository.ComplaintRepository
	staff      repository.StaffRepository
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	StaffRepo     repository.StaffRepository
}

// StaffRecommendation pairs a candidate with their current open workload.
type StaffRecommendation struct {
	Staff    domain.StaffMember
	OpenLoad int
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		complaints: deps.ComplaintRepo,
		staff:      deps.StaffRepo,
	}
}

// RecommendStaff returns active maintenance staff able to service the
// complaint's facility, ordered by open (non-Resolved) assignment count
// ascending, ties broken by staff id. An empty list is a valid outcome the
// caller surfaces as "no matching staff". Read-only and side-effect-free.
func (s *AssignmentService) RecommendStaff(ctx context.Context, complaintID string) ([]StaffRecommendation, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	if complaint.Status != domain.ComplaintStatusPending || complaint.AssignedStaffID != nil {
		return nil, apperrors.NewInvalidTransition("complaint is not awaiting assignment", map[string]any{
			"complaint_id": complaintID,
			"status":       complaint.Status,
		})
	}

	role := domain.StaffRoleMaintenance
	active := true
	candidates, err := s.staff.List(ctx, repository.StaffFilter{
		Role:       &role,
		Capability: &complaint.FacilityType,
		Active:     &active,
		Limit:      1000,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) == 0 {
		return []StaffRecommendation{}, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.ID)
	}
	loads, err := s.complaints.CountOpenByAssignee(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	recommendations := make([]StaffRecommendation, 0, len(candidates))
	for _, candidate := range candidates {
		recommendations = append(recommendations, StaffRecommendation{
			Staff:    candidate,
			OpenLoad: loads[candidate.ID],
		})
	}
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].OpenLoad != recommendations[j].OpenLoad {
			return recommendations[i].OpenLoad < recommendations[j].OpenLoad
		}
		return recommendations[i].Staff.ID < recommendations[j].Staff.ID
	})
	return recommendations, nil
}
