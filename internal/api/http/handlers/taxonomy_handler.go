package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/api/dto"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/service"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// TaxonomyHandler serves building and category endpoints. Reads are open to
// any authenticated caller, writes are admin routes.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: taxonomyService}
}

// ListBuildings GET /buildings.
func (h *TaxonomyHandler) ListBuildings(c *fiber.Ctx) error {
	activeOnly := queryBool(c, "active_only", true)
	buildings, err := h.service.ListBuildings(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBuildingResponses(buildings)})
}

// ListCategories GET /categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	activeOnly := queryBool(c, "active_only", true)
	categories, err := h.service.ListCategories(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(categories)})
}

// ListSubCategories GET /categories/:id/sub-categories.
func (h *TaxonomyHandler) ListSubCategories(c *fiber.Ctx) error {
	subCategories, err := h.service.ListSubCategories(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubCategoryResponses(subCategories)})
}

// CreateBuilding POST /admin/buildings.
func (h *TaxonomyHandler) CreateBuilding(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("code and name required", nil)
	}
	building, err := h.service.CreateBuilding(c.Context(), principal.Actor, service.BuildingInput{
		Code:   req.Code,
		Name:   req.Name,
		Type:   req.Type,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBuildingResponse(building)})
}

// UpdateBuilding PATCH /admin/buildings/:id.
func (h *TaxonomyHandler) UpdateBuilding(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.BuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	building, err := h.service.UpdateBuilding(c.Context(), principal.Actor, c.Params("id"), service.BuildingInput{
		Code:   req.Code,
		Name:   req.Name,
		Type:   req.Type,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBuildingResponse(building)})
}

// SetBuildingSupervisors PUT /admin/buildings/:id/supervisors.
func (h *TaxonomyHandler) SetBuildingSupervisors(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.SetSupervisorsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SetBuildingSupervisors(c.Context(), principal.Actor, c.Params("id"), req.StaffIDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateCategory POST /admin/categories.
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	category, err := h.service.CreateCategory(c.Context(), principal.Actor, service.CategoryInput{
		Name:         req.Name,
		Active:       req.Active,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// UpdateCategory PATCH /admin/categories/:id.
func (h *TaxonomyHandler) UpdateCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.UpdateCategory(c.Context(), principal.Actor, c.Params("id"), service.CategoryInput{
		Name:         req.Name,
		Active:       req.Active,
		SupervisorID: req.SupervisorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// CreateSubCategory POST /admin/sub-categories.
func (h *TaxonomyHandler) CreateSubCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.SubCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.CategoryID) == "" || strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("category_id and name required", nil)
	}
	subCategory, err := h.service.CreateSubCategory(c.Context(), principal.Actor, service.SubCategoryInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSubCategoryResponse(subCategory)})
}

func queryBool(c *fiber.Ctx, key string, fallback bool) bool {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
