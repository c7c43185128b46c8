package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/events"
)

func TestStatsOverviewCountsByStatusAndFacility(t *testing.T) {
	complaints := newComplaintRepoStub()
	staffRepo := newStaffRepoStub()
	lifecycle := NewComplaintService(ComplaintDependencies{
		ComplaintRepo: complaints,
		StaffRepo:     staffRepo,
		Dispatcher:    events.NewInMemoryDispatcher(),
	})
	admin := seedAdmin(staffRepo)
	stats := NewStatsService(complaints, nil, zap.NewNop())

	submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)
	submitTestComplaint(t, lifecycle, testStudent("u-001"), domain.FacilityPlumbing)
	resolved := submitTestComplaint(t, lifecycle, testStudent("u-002"), domain.FacilityLighting)
	remarks := "fixed the wiring"
	_, err := lifecycle.UpdateStatus(context.Background(), admin, resolved.ID, domain.ComplaintStatusResolved, &remarks)
	require.NoError(t, err)

	overview, err := stats.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.Total)
	assert.Equal(t, 2, overview.ByStatus[domain.ComplaintStatusPending])
	assert.Equal(t, 1, overview.ByStatus[domain.ComplaintStatusResolved])
	assert.Equal(t, 2, overview.ByFacility[domain.FacilityPlumbing])
	assert.Equal(t, 1, overview.ByFacility[domain.FacilityLighting])
}

func TestStatsOverviewEmptyStore(t *testing.T) {
	stats := NewStatsService(newComplaintRepoStub(), nil, zap.NewNop())

	overview, err := stats.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, overview.Total)
	assert.Empty(t, overview.ByStatus)
	assert.Empty(t, overview.ByFacility)
}
