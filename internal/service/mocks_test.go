package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
)

type complaintRepoStub struct {
	mu   sync.Mutex
	byID map[string]*domain.Complaint
	seq  int
}

func newComplaintRepoStub() *complaintRepoStub {
	return &complaintRepoStub{byID: map[string]*domain.Complaint{}}
}

func (r *complaintRepoStub) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	complaint.ID = fmt.Sprintf("c-%03d", r.seq)
	complaint.SubmittedAt = time.Now()
	complaint.UpdatedAt = complaint.SubmittedAt
	clone := *complaint
	r.byID[complaint.ID] = &clone
	return nil
}

func (r *complaintRepoStub) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	complaint.UpdatedAt = time.Now()
	clone := *complaint
	r.byID[complaint.ID] = &clone
	return nil
}

func (r *complaintRepoStub) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *complaintRepoStub) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for _, complaint := range r.byID {
		if filter.StudentID != nil && complaint.StudentID != *filter.StudentID {
			continue
		}
		if filter.AssigneeID != nil {
			if complaint.AssignedStaffID == nil || *complaint.AssignedStaffID != *filter.AssigneeID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, complaint.Status) {
			continue
		}
		result = append(result, *complaint)
	}
	return result, nil
}

func (r *complaintRepoStub) AssignIfUnassigned(_ context.Context, id, staffID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if complaint.Status != domain.ComplaintStatusPending || complaint.AssignedStaffID != nil {
		return false, nil
	}
	assignee := staffID
	assignedAt := at
	complaint.AssignedStaffID = &assignee
	complaint.AssignedAt = &assignedAt
	complaint.UpdatedAt = time.Now()
	return true, nil
}

func (r *complaintRepoStub) CountOpenByAssignee(_ context.Context, staffIDs []string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int, len(staffIDs))
	wanted := make(map[string]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		wanted[id] = struct{}{}
	}
	for _, complaint := range r.byID {
		if complaint.AssignedStaffID == nil || complaint.Status == domain.ComplaintStatusResolved {
			continue
		}
		if _, ok := wanted[*complaint.AssignedStaffID]; ok {
			counts[*complaint.AssignedStaffID]++
		}
	}
	return counts, nil
}

func (r *complaintRepoStub) CountByStatusAndFacility(_ context.Context) (*repository.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &repository.StatusCounts{
		ByStatus:   map[domain.ComplaintStatus]int{},
		ByFacility: map[domain.FacilityType]int{},
	}
	for _, complaint := range r.byID {
		counts.ByStatus[complaint.Status]++
		counts.ByFacility[complaint.FacilityType]++
	}
	return counts, nil
}

func containsStatus(statuses []domain.ComplaintStatus, status domain.ComplaintStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type staffRepoStub struct {
	mu   sync.Mutex
	byID map[string]*domain.StaffMember
	seq  int
}

func newStaffRepoStub() *staffRepoStub {
	return &staffRepoStub{byID: map[string]*domain.StaffMember{}}
}

func (r *staffRepoStub) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	staff.ID = fmt.Sprintf("s-%03d", r.seq)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	clone := *staff
	r.byID[staff.ID] = &clone
	return nil
}

func (r *staffRepoStub) Update(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[staff.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *staff
	r.byID[staff.ID] = &clone
	return nil
}

func (r *staffRepoStub) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *staff
	return &clone, nil
}

func (r *staffRepoStub) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.byID {
		if staff.Email == email {
			clone := *staff
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *staffRepoStub) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.StaffMember
	for _, staff := range r.byID {
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && staff.Active != *filter.Active {
			continue
		}
		if filter.Capability != nil && !staff.CanService(*filter.Capability) {
			continue
		}
		result = append(result, *staff)
	}
	// repository contract orders by id ascending
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].ID < result[j-1].ID; j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

type userRepoStub struct {
	mu   sync.Mutex
	byID map[string]*domain.User
	seq  int
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{byID: map[string]*domain.User{}}
}

func (r *userRepoStub) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("u-%03d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *userRepoStub) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *userRepoStub) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *userRepoStub) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type feedbackRepoStub struct {
	mu          sync.Mutex
	byComplaint map[string]*domain.Feedback
	seq         int
}

func newFeedbackRepoStub() *feedbackRepoStub {
	return &feedbackRepoStub{byComplaint: map[string]*domain.Feedback{}}
}

func (r *feedbackRepoStub) Create(_ context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byComplaint[feedback.ComplaintID]; ok {
		return repository.ErrDuplicateFeedback
	}
	r.seq++
	feedback.ID = fmt.Sprintf("f-%03d", r.seq)
	feedback.SubmittedAt = time.Now()
	clone := *feedback
	r.byComplaint[feedback.ComplaintID] = &clone
	return nil
}

func (r *feedbackRepoStub) GetByComplaintID(_ context.Context, complaintID string) (*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback, ok := r.byComplaint[complaintID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *feedback
	return &clone, nil
}

func (r *feedbackRepoStub) ListByStudent(_ context.Context, studentID string, limit, offset int) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Feedback
	for _, feedback := range r.byComplaint {
		if feedback.StudentID == studentID {
			result = append(result, *feedback)
		}
	}
	return result, nil
}

func testStudent(id string) *domain.User {
	return &domain.User{
		ID:           id,
		Name:         "Test Student",
		Email:        id + "@student.example.com",
		MatricNumber: "A123456",
		HostelName:   "Aman Damai",
		RoomNumber:   "A-201",
		Status:       domain.UserStatusActive,
	}
}

func seedAdmin(repo *staffRepoStub) *domain.StaffMember {
	admin := &domain.StaffMember{
		Name:   "Test Admin",
		Email:  "admin@example.com",
		Role:   domain.StaffRoleAdmin,
		Active: true,
	}
	_ = repo.Create(context.Background(), admin)
	return admin
}

func seedMaintenance(repo *staffRepoStub, name string, capabilities ...domain.FacilityType) *domain.StaffMember {
	staff := &domain.StaffMember{
		Name:                 name,
		Email:                name + "@example.com",
		Role:                 domain.StaffRoleMaintenance,
		FacilityCapabilities: capabilities,
		Active:               true,
	}
	_ = repo.Create(context.Background(), staff)
	return staff
}
