package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/events"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

const minIssueDescriptionChars = 10

// ComplaintService coordinates the complaint lifecycle: submission,
// assignment and status transitions.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	StaffRepo     repository.StaffRepository
	Dispatcher    events.Dispatcher
}

// SubmitInput describes complaint creation payload.
type SubmitInput struct {
	HostelName       string
	RoomNumber       string
	FacilityType     domain.FacilityType
	IssueDescription string
	Urgency          domain.UrgencyLevel
}

// StaffComplaintFilter describes staff listing filters.
type StaffComplaintFilter struct {
	HostelName    *string
	AssigneeID    *string
	Statuses      []domain.ComplaintStatus
	FacilityTypes []domain.FacilityType
	Urgencies     []domain.UrgencyLevel
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
	Limit         int
	Offset        int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Submit creates a new Pending, unassigned complaint for a student.
func (s *ComplaintService) Submit(ctx context.Context, student *domain.User, input SubmitInput) (*domain.Complaint, error) {
	if student == nil {
		return nil, apperrors.NewUnauthorized("student required")
	}

	hostel := strings.TrimSpace(input.HostelName)
	room := strings.TrimSpace(input.RoomNumber)
	description := strings.TrimSpace(input.IssueDescription)

	if hostel == "" || room == "" {
		return nil, apperrors.NewValidationError("hostel_name and room_number required", nil)
	}
	if !input.FacilityType.Valid() {
		return nil, apperrors.NewValidationError("unknown facility type", map[string]any{"facility_type": input.FacilityType})
	}
	if utf8.RuneCountInString(description) < minIssueDescriptionChars {
		return nil, apperrors.NewValidationError("issue description too short", map[string]any{"min_chars": minIssueDescriptionChars})
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.UrgencyMedium
	}
	if !urgency.Valid() {
		return nil, apperrors.NewValidationError("unknown urgency level", map[string]any{"urgency": input.Urgency})
	}

	complaint := &domain.Complaint{
		StudentID:        student.ID,
		HostelName:       hostel,
		RoomNumber:       room,
		FacilityType:     input.FacilityType,
		IssueDescription: description,
		Status:           domain.ComplaintStatusPending,
		Urgency:          urgency,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		Actor:       studentActor(student.ID),
		Payload: events.ComplaintSubmittedPayload{
			HostelName:   complaint.HostelName,
			RoomNumber:   complaint.RoomNumber,
			FacilityType: complaint.FacilityType,
			Urgency:      complaint.Urgency,
		},
	})
	return complaint, nil
}

// Assign attaches a maintenance staff member to a Pending, unassigned
// complaint. The assignment itself is a conditional store update, so two
// racing admins cannot both claim the same complaint.
func (s *ComplaintService) Assign(ctx context.Context, actor *domain.StaffMember, complaintID, staffID string) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if actor.Role != domain.StaffRoleAdmin {
		return nil, apperrors.NewForbidden("admin role required for assignment")
	}

	assignee, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.Role != domain.StaffRoleMaintenance {
		return nil, apperrors.NewValidationError("assignee must be maintenance staff", map[string]any{"staff_id": staffID})
	}
	if !assignee.Active {
		return nil, apperrors.NewValidationError("assignee is deactivated", map[string]any{"staff_id": staffID})
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status != domain.ComplaintStatusPending || complaint.AssignedStaffID != nil {
		return nil, apperrors.NewInvalidTransition("complaint is not awaiting assignment", map[string]any{
			"complaint_id": complaintID,
			"status":       complaint.Status,
		})
	}

	now := time.Now()
	claimed, err := s.complaints.AssignIfUnassigned(ctx, complaintID, assignee.ID, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !claimed {
		return nil, apperrors.NewInvalidTransition("complaint was assigned concurrently", map[string]any{"complaint_id": complaintID})
	}

	complaint.AssignedStaffID = &assignee.ID
	complaint.AssignedAt = &now
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       staffActor(actor.ID),
		Payload: events.ComplaintAssignedPayload{
			AssignedStaffID: assignee.ID,
			FacilityType:    complaint.FacilityType,
		},
	})
	return complaint, nil
}

// UpdateStatus moves a complaint through its lifecycle. Admins may update
// any complaint; maintenance staff only complaints assigned to them.
// Calling with the current status is a remark-only update, not a transition.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.StaffMember, complaintID string, newStatus domain.ComplaintStatus, remarks *string) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown complaint status", map[string]any{"status": newStatus})
	}

	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.StaffRoleMaintenance {
		if complaint.AssignedStaffID == nil || *complaint.AssignedStaffID != actor.ID {
			return nil, apperrors.NewForbidden("complaint is not assigned to you")
		}
	}

	trimmedRemarks := ""
	if remarks != nil {
		trimmedRemarks = strings.TrimSpace(*remarks)
	}

	if newStatus == complaint.Status {
		if trimmedRemarks != "" {
			complaint.Remarks = &trimmedRemarks
			if err := s.complaints.Update(ctx, complaint); err != nil {
				return nil, apperrors.MapError(err)
			}
		}
		return complaint, nil
	}

	if !isValidTransition(complaint.Status, newStatus) {
		return nil, apperrors.NewInvalidTransition("illegal status transition", map[string]any{
			"from": complaint.Status,
			"to":   newStatus,
		})
	}

	oldStatus := complaint.Status
	if newStatus == domain.ComplaintStatusResolved {
		if trimmedRemarks == "" {
			return nil, apperrors.NewValidationError("remarks required when resolving", nil)
		}
		now := time.Now()
		complaint.ResolvedAt = &now
	}
	complaint.Status = newStatus
	if trimmedRemarks != "" {
		complaint.Remarks = &trimmedRemarks
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       staffActor(actor.ID),
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Remarks:   trimmedRemarks,
		},
	})
	return complaint, nil
}

// ListStudentComplaints returns a student's own complaints.
func (s *ComplaintService) ListStudentComplaints(ctx context.Context, studentID string, limit, offset int) ([]domain.Complaint, error) {
	filter := repository.ComplaintFilter{
		StudentID: &studentID,
		Limit:     limit,
		Offset:    offset,
	}
	complaints, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// ListStaffComplaints returns complaints visible to staff. Maintenance
// staff only see complaints assigned to them.
func (s *ComplaintService) ListStaffComplaints(ctx context.Context, actor *domain.StaffMember, filter StaffComplaintFilter) ([]domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	repoFilter := repository.ComplaintFilter{
		HostelName:    filter.HostelName,
		AssigneeID:    filter.AssigneeID,
		Statuses:      filter.Statuses,
		FacilityTypes: filter.FacilityTypes,
		Urgencies:     filter.Urgencies,
		SubmittedFrom: filter.SubmittedFrom,
		SubmittedTo:   filter.SubmittedTo,
		Limit:         filter.Limit,
		Offset:        filter.Offset,
	}
	if actor.Role == domain.StaffRoleMaintenance {
		repoFilter.AssigneeID = &actor.ID
	}
	complaints, err := s.complaints.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaints, nil
}

// GetForStudent fetches a complaint ensuring ownership.
func (s *ComplaintService) GetForStudent(ctx context.Context, studentID, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.StudentID != studentID {
		return nil, apperrors.NewForbidden("not your complaint")
	}
	return complaint, nil
}

// GetForStaff fetches a complaint ensuring staff access. Admins see every
// complaint; maintenance only their own assignments.
func (s *ComplaintService) GetForStaff(ctx context.Context, actor *domain.StaffMember, complaintID string) (*domain.Complaint, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("staff required")
	}
	complaint, err := s.getComplaint(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.StaffRoleMaintenance {
		if complaint.AssignedStaffID == nil || *complaint.AssignedStaffID != actor.ID {
			return nil, apperrors.NewForbidden("complaint is not assigned to you")
		}
	}
	return complaint, nil
}

func (s *ComplaintService) getComplaint(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.ComplaintStatusPending:    {domain.ComplaintStatusInProgress, domain.ComplaintStatusResolved},
	domain.ComplaintStatusInProgress: {domain.ComplaintStatusResolved},
	domain.ComplaintStatusResolved:   {},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
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

func studentActor(studentID string) events.Actor {
	return events.Actor{
		Type:      domain.SubjectTypeStudent,
		StudentID: &studentID,
	}
}

func staffActor(staffID string) events.Actor {
	return events.Actor{
		Type:    domain.SubjectTypeStaff,
		StaffID: &staffID,
	}
}
