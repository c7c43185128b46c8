package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hostel-complaint-service/internal/api/dto"
	"github.com/spec-kit/hostel-complaint-service/internal/auth"
	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/service"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint endpoints for students and staff.
type ComplaintsHandler struct {
	complaints  *service.ComplaintService
	assignments *service.AssignmentService
	stats       *service.StatsService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, assignments *service.AssignmentService, stats *service.StatsService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints, assignments: assignments, stats: stats}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.Submit(c.UserContext(), principal.User, service.SubmitInput{
		HostelName:       req.HostelName,
		RoomNumber:       req.RoomNumber,
		FacilityType:     req.FacilityType,
		IssueDescription: req.IssueDescription,
		Urgency:          req.Urgency,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// ListMine GET /complaints/my-complaints.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("student required")
	}
	limit, offset := parsePagination(c)
	complaints, err := h.complaints.ListStudentComplaints(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// List GET /complaints (staff view).
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	filter := parseStaffComplaintQuery(c)
	complaints, err := h.complaints.ListStaffComplaints(c.UserContext(), principal.Staff, filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(complaints)})
}

// Get GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var complaint *domain.Complaint
	var err error
	switch {
	case principal.User != nil:
		complaint, err = h.complaints.GetForStudent(c.UserContext(), principal.User.ID, c.Params("id"))
	case principal.Staff != nil:
		complaint, err = h.complaints.GetForStaff(c.UserContext(), principal.Staff, c.Params("id"))
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateStatus PATCH /complaints/:id.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	complaint, err := h.complaints.UpdateStatus(c.UserContext(), principal.Staff, c.Params("id"), req.Status, req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// Assign PATCH /complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}
	complaint, err := h.complaints.Assign(c.UserContext(), principal.Staff, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// RecommendedStaff GET /complaints/:id/recommended-staff.
func (h *ComplaintsHandler) RecommendedStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	recommendations, err := h.assignments.RecommendStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.StaffRecommendationResponse, 0, len(recommendations))
	for i := range recommendations {
		items = append(items, dto.StaffRecommendationResponse{
			Staff:    *dto.NewStaffProfile(&recommendations[i].Staff),
			OpenLoad: recommendations[i].OpenLoad,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Stats GET /complaints/stats.
func (h *ComplaintsHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

func parseStaffComplaintQuery(c *fiber.Ctx) service.StaffComplaintFilter {
	filter := service.StaffComplaintFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ComplaintStatus(strings.TrimSpace(part)))
		}
	}
	if facilityStr := c.Query("facility_type"); facilityStr != "" {
		for _, part := range strings.Split(facilityStr, ",") {
			filter.FacilityTypes = append(filter.FacilityTypes, domain.FacilityType(strings.TrimSpace(part)))
		}
	}
	if urgencyStr := c.Query("urgency"); urgencyStr != "" {
		for _, part := range strings.Split(urgencyStr, ",") {
			filter.Urgencies = append(filter.Urgencies, domain.UrgencyLevel(strings.TrimSpace(part)))
		}
	}
	if hostel := c.Query("hostel_name"); hostel != "" {
		filter.HostelName = &hostel
	}
	if assignee := c.Query("assigned_staff_id"); assignee != "" {
		filter.AssigneeID = &assignee
	}
	if from := parseTime(c.Query("submitted_from")); from != nil {
		filter.SubmittedFrom = from
	}
	if to := parseTime(c.Query("submitted_to")); to != nil {
		filter.SubmittedTo = to
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func complaintResponses(complaints []domain.Complaint) []dto.ComplaintResponse {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.NewComplaintResponse(&complaints[i]))
	}
	return items
}
