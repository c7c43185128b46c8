package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hostel-complaint-service/internal/api/dto"
	"github.com/spec-kit/hostel-complaint-service/internal/auth"
	"github.com/spec-kit/hostel-complaint-service/internal/service"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// FeedbacksHandler manages student feedback endpoints.
type FeedbacksHandler struct {
	service *service.FeedbackService
}

// NewFeedbacksHandler constructs handler.
func NewFeedbacksHandler(feedbackService *service.FeedbackService) *FeedbacksHandler {
	return &FeedbacksHandler{service: feedbackService}
}

// Create POST /feedbacks.
func (h *FeedbacksHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("student required")
	}
	var req dto.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ComplaintID == "" {
		return apperrors.NewValidationError("complaint_id required", nil)
	}
	feedback, err := h.service.Submit(c.UserContext(), principal.User, req.ComplaintID, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewFeedbackResponse(feedback)})
}

// ListMine GET /feedbacks/my-feedbacks.
func (h *FeedbacksHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("student required")
	}
	limit, offset := parsePagination(c)
	feedbacks, err := h.service.ListStudentFeedbacks(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		items = append(items, dto.NewFeedbackResponse(&feedbacks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
