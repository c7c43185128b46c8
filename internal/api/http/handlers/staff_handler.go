package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hostel-complaint-service/internal/api/dto"
	"github.com/spec-kit/hostel-complaint-service/internal/domain"
	"github.com/spec-kit/hostel-complaint-service/internal/repository"
	"github.com/spec-kit/hostel-complaint-service/internal/service"
	apperrors "github.com/spec-kit/hostel-complaint-service/pkg/util/errorutil"
)

// StaffHandler manages the staff directory (admin only; routes enforce it).
type StaffHandler struct {
	service *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{service: authService}
}

// Provision POST /staff.
func (h *StaffHandler) Provision(c *fiber.Ctx) error {
	var req dto.ProvisionStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.service.ProvisionStaff(c.UserContext(), service.ProvisionStaffInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		Phone:                req.Phone,
		Role:                 req.Role,
		FacilityCapabilities: req.FacilityCapabilities,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffProfile(staff)})
}

// List GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	filter := repository.StaffFilter{}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(roleStr)
		filter.Role = &role
	}
	if facilityStr := c.Query("facility_type"); facilityStr != "" {
		facility := domain.FacilityType(facilityStr)
		filter.Capability = &facility
	}
	filter.Limit, filter.Offset = parsePagination(c)

	staff, err := h.service.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffProfile, 0, len(staff))
	for i := range staff {
		items = append(items, *dto.NewStaffProfile(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
