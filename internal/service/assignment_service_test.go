package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/events"
)

func newAssignmentTestEnv() (*AssignmentService, *ComplaintService, *complaintRepoStub, *staffRepoStub) {
	complaints := newComplaintRepoStub()
	staff := newStaffRepoStub()
	recommender := NewAssignmentService(AssignmentDependencies{
		ComplaintRepo: complaints,
		StaffRepo:     staff,
	})
	lifecycle := NewComplaintService(ComplaintDependencies{
		ComplaintRepo: complaints,
		StaffRepo:     staff,
		Dispatcher:    events.NewInMemoryDispatcher(),
	})
	return recommender, lifecycle, complaints, staff
}

func TestRecommendStaffFiltersByCapability(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	plumber := seedMaintenance(staffRepo, "plumber", domain.FacilityPlumbing)
	seedMaintenance(staffRepo, "electrician", domain.FacilityElectrical)
	seedAdmin(staffRepo)
	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)

	recommendations, err := recommender.RecommendStaff(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 1)
	assert.Equal(t, plumber.ID, recommendations[0].Staff.ID)
	assert.Equal(t, 0, recommendations[0].OpenLoad)
}

func TestRecommendStaffSkipsInactive(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	retired := seedMaintenance(staffRepo, "retired-plumber", domain.FacilityPlumbing)
	retired.Active = false
	require.NoError(t, staffRepo.Update(context.Background(), retired))
	active := seedMaintenance(staffRepo, "working-plumber", domain.FacilityPlumbing)
	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)

	recommendations, err := recommender.RecommendStaff(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 1)
	assert.Equal(t, active.ID, recommendations[0].Staff.ID)
}

func TestRecommendStaffOrdersByOpenLoadThenID(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	admin := seedAdmin(staffRepo)
	busy := seedMaintenance(staffRepo, "busy-plumber", domain.FacilityPlumbing)
	idle := seedMaintenance(staffRepo, "idle-plumber", domain.FacilityPlumbing)

	// load the first candidate with two open assignments, one of which is
	// later resolved and must stop counting
	for i := 0; i < 2; i++ {
		assigned := submitTestComplaint(t, lifecycle, testStudent("u-002"), domain.FacilityPlumbing)
		_, err := lifecycle.Assign(context.Background(), admin, assigned.ID, busy.ID)
		require.NoError(t, err)
	}
	resolvedOne := submitTestComplaint(t, lifecycle, testStudent("u-002"), domain.FacilityPlumbing)
	_, err := lifecycle.Assign(context.Background(), admin, resolvedOne.ID, busy.ID)
	require.NoError(t, err)
	remarks := "done"
	_, err = lifecycle.UpdateStatus(context.Background(), busy, resolvedOne.ID, domain.ComplaintStatusResolved, &remarks)
	require.NoError(t, err)

	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)
	recommendations, err := recommender.RecommendStaff(context.Background(), complaint.ID)
	require.NoError(t, err)
	require.Len(t, recommendations, 2)
	assert.Equal(t, idle.ID, recommendations[0].Staff.ID)
	assert.Equal(t, 0, recommendations[0].OpenLoad)
	assert.Equal(t, busy.ID, recommendations[1].Staff.ID)
	assert.Equal(t, 2, recommendations[1].OpenLoad)
}

func TestRecommendStaffBreaksTiesByStaffID(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	first := seedMaintenance(staffRepo, "plumber-one", domain.FacilityPlumbing)
	second := seedMaintenance(staffRepo, "plumber-two", domain.FacilityPlumbing)
	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)

	for i := 0; i < 3; i++ {
		recommendations, err := recommender.RecommendStaff(context.Background(), complaint.ID)
		require.NoError(t, err)
		require.Len(t, recommendations, 2)
		assert.Equal(t, first.ID, recommendations[0].Staff.ID)
		assert.Equal(t, second.ID, recommendations[1].Staff.ID)
	}
}

func TestRecommendStaffEmptyWhenNoCapableStaff(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	seedMaintenance(staffRepo, "electrician", domain.FacilityElectrical)
	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)

	recommendations, err := recommender.RecommendStaff(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.NotNil(t, recommendations)
	assert.Empty(t, recommendations)
}

func TestRecommendStaffRejectsAssignedComplaint(t *testing.T) {
	recommender, lifecycle, _, staffRepo := newAssignmentTestEnv()
	admin := seedAdmin(staffRepo)
	plumber := seedMaintenance(staffRepo, "plumber", domain.FacilityPlumbing)
	complaint := submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)
	_, err := lifecycle.Assign(context.Background(), admin, complaint.ID, plumber.ID)
	require.NoError(t, err)

	_, err = recommender.RecommendStaff(context.Background(), complaint.ID)
	requireCode(t, err, "INVALID_TRANSITION")
}

func TestRecommendStaffUnknownComplaint(t *testing.T) {
	recommender, _, _, _ := newAssignmentTestEnv()

	_, err := recommender.RecommendStaff(context.Background(), "missing")
	requireCode(t, err, "NOT_FOUND")
}
