package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/events"
)

func newFeedbackTestEnv() (*FeedbackService, *ComplaintService, *staffRepoStub) {
	complaints := newComplaintRepoStub()
	staff := newStaffRepoStub()
	dispatcher := events.NewInMemoryDispatcher()
	feedback := NewFeedbackService(FeedbackDependencies{
		FeedbackRepo:  newFeedbackRepoStub(),
		ComplaintRepo: complaints,
		Dispatcher:    dispatcher,
	})
	lifecycle := NewComplaintService(ComplaintDependencies{
		ComplaintRepo: complaints,
		StaffRepo:     staff,
		Dispatcher:    dispatcher,
	})
	return feedback, lifecycle, staff
}

func resolveComplaint(t *testing.T, lifecycle *ComplaintService, staffRepo *staffRepoStub, student *domain.User) *domain.Complaint {
	t.Helper()
	admin := seedAdmin(staffRepo)
	complaint := submitTestComplaint(t, lifecycle, student, domain.FacilityBathroom)
	remarks := "shower head replaced"
	resolved, err := lifecycle.UpdateStatus(context.Background(), admin, complaint.ID, domain.ComplaintStatusResolved, &remarks)
	require.NoError(t, err)
	return resolved
}

func TestFeedbackSubmitHappyPath(t *testing.T) {
	feedback, lifecycle, staffRepo := newFeedbackTestEnv()
	student := testStudent("u-001")
	resolved := resolveComplaint(t, lifecycle, staffRepo, student)

	entry, err := feedback.Submit(context.Background(), student, resolved.ID, 4, "  quick fix, thanks  ")
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, resolved.ID, entry.ComplaintID)
	assert.Equal(t, student.ID, entry.StudentID)
	assert.Equal(t, 4, entry.Rating)
	assert.Equal(t, "quick fix, thanks", entry.Comment)
	assert.False(t, entry.SubmittedAt.IsZero())
}

func TestFeedbackRatingBounds(t *testing.T) {
	feedback, lifecycle, staffRepo := newFeedbackTestEnv()
	student := testStudent("u-001")
	resolved := resolveComplaint(t, lifecycle, staffRepo, student)

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := feedback.Submit(context.Background(), student, resolved.ID, rating, "")
		requireCode(t, err, "VALIDATION_FAILED")
	}
}

func TestFeedbackRequiresResolvedComplaint(t *testing.T) {
	feedback, lifecycle, _ := newFeedbackTestEnv()
	student := testStudent("u-001")
	complaint := submitTestComplaint(t, lifecycle, student, domain.FacilityBathroom)

	_, err := feedback.Submit(context.Background(), student, complaint.ID, 5, "great")
	requireCode(t, err, "INVALID_TRANSITION")
}

func TestFeedbackRequiresOwnership(t *testing.T) {
	feedback, lifecycle, staffRepo := newFeedbackTestEnv()
	owner := testStudent("u-001")
	resolved := resolveComplaint(t, lifecycle, staffRepo, owner)

	_, err := feedback.Submit(context.Background(), testStudent("u-002"), resolved.ID, 5, "great")
	requireCode(t, err, "FORBIDDEN")
}

func TestFeedbackRejectsDuplicate(t *testing.T) {
	feedback, lifecycle, staffRepo := newFeedbackTestEnv()
	student := testStudent("u-001")
	resolved := resolveComplaint(t, lifecycle, staffRepo, student)

	_, err := feedback.Submit(context.Background(), student, resolved.ID, 5, "great")
	require.NoError(t, err)

	_, err = feedback.Submit(context.Background(), student, resolved.ID, 2, "changed my mind")
	requireCode(t, err, "INVALID_TRANSITION")
}

func TestFeedbackUnknownComplaint(t *testing.T) {
	feedback, _, _ := newFeedbackTestEnv()

	_, err := feedback.Submit(context.Background(), testStudent("u-001"), "missing", 3, "")
	requireCode(t, err, "NOT_FOUND")
}

func TestListStudentFeedbacksScopedToOwner(t *testing.T) {
	feedback, lifecycle, staffRepo := newFeedbackTestEnv()
	first := testStudent("u-001")
	second := testStudent("u-002")
	resolvedFirst := resolveComplaint(t, lifecycle, staffRepo, first)
	resolvedSecond := resolveComplaint(t, lifecycle, staffRepo, second)

	_, err := feedback.Submit(context.Background(), first, resolvedFirst.ID, 4, "")
	require.NoError(t, err)
	_, err = feedback.Submit(context.Background(), second, resolvedSecond.ID, 3, "")
	require.NoError(t, err)

	mine, err := feedback.ListStudentFeedbacks(context.Background(), first.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, resolvedFirst.ID, mine[0].ComplaintID)
}
