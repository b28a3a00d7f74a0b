package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/facilityhub/helpdesk/internal/cache"
	"github.com/facilityhub/helpdesk/internal/domain"
	"github.com/facilityhub/helpdesk/internal/repository"
	apperrors "github.com/facilityhub/helpdesk/pkg/util"
)

// TaxonomyService manages buildings, categories and sub-categories. Writes
// are admin-only; reads serve every ticket form and go through the Redis
// cache.
type TaxonomyService struct {
	buildings  repository.BuildingRepository
	categories repository.CategoryRepository
	staff      repository.StaffRepository
	cache      *cache.TaxonomyCache
}

// TaxonomyDependencies bundles collaborators for the taxonomy service.
type TaxonomyDependencies struct {
	BuildingRepo repository.BuildingRepository
	CategoryRepo repository.CategoryRepository
	StaffRepo    repository.StaffRepository
	Cache        *cache.TaxonomyCache
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(deps TaxonomyDependencies) *TaxonomyService {
	return &TaxonomyService{
		buildings:  deps.BuildingRepo,
		categories: deps.CategoryRepo,
		staff:      deps.StaffRepo,
		cache:      deps.Cache,
	}
}

// BuildingInput describes the admin building form.
type BuildingInput struct {
	Code   string
	Name   string
	Type   domain.BuildingType
	Active bool
}

// CategoryInput describes the admin category form.
type CategoryInput struct {
	Name         string
	Active       bool
	SupervisorID *string
}

// SubCategoryInput describes the admin sub-category form.
type SubCategoryInput struct {
	CategoryID string
	Name       string
	Active     bool
}

// ListBuildings returns buildings, cache-first.
func (s *TaxonomyService) ListBuildings(ctx context.Context, activeOnly bool) ([]domain.Building, error) {
	if !activeOnly {
		if cached := s.cache.GetBuildings(ctx); cached != nil {
			return cached, nil
		}
	}
	buildings, err := s.buildings.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !activeOnly {
		s.cache.SetBuildings(ctx, buildings)
	}
	return buildings, nil
}

// CreateBuilding creates a building (admin only).
func (s *TaxonomyService) CreateBuilding(ctx context.Context, actor domain.Actor, input BuildingInput) (*domain.Building, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if code == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("code and name required", nil)
	}
	if existing, err := s.buildings.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, apperrors.NewConflict("building code already in use", map[string]any{"code": code})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	building := &domain.Building{
		Code:   code,
		Name:   strings.TrimSpace(input.Name),
		Type:   input.Type,
		Active: input.Active,
	}
	if building.Type == "" {
		building.Type = domain.BuildingTypeOther
	}
	if err := s.buildings.Create(ctx, building); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return building, nil
}

// UpdateBuilding updates building attributes (admin only).
func (s *TaxonomyService) UpdateBuilding(ctx context.Context, actor domain.Actor, buildingID string, input BuildingInput) (*domain.Building, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, notFoundOr(err, "building")
	}
	building.Code = strings.TrimSpace(strings.ToUpper(input.Code))
	building.Name = strings.TrimSpace(input.Name)
	if input.Type != "" {
		building.Type = input.Type
	}
	building.Active = input.Active
	if err := s.buildings.Update(ctx, building); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return building, nil
}

// SetBuildingSupervisors replaces the supervising staff set for a building
// (admin only). Every referenced staff user must hold the building
// supervisor role.
func (s *TaxonomyService) SetBuildingSupervisors(ctx context.Context, actor domain.Actor, buildingID string, staffIDs []string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.buildings.GetByID(ctx, buildingID); err != nil {
		return notFoundOr(err, "building")
	}
	for _, staffID := range staffIDs {
		staff, err := s.staff.GetByID(ctx, staffID)
		if err != nil {
			return notFoundOr(err, "staff user")
		}
		if staff.Role != domain.StaffRoleBuildingSupervisor {
			return apperrors.NewValidationError("staff user is not a building supervisor", map[string]any{"staff_id": staffID})
		}
	}
	if err := s.buildings.SetSupervisors(ctx, buildingID, staffIDs); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListCategories returns categories, cache-first.
func (s *TaxonomyService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	if !activeOnly {
		if cached := s.cache.GetCategories(ctx); cached != nil {
			return cached, nil
		}
	}
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !activeOnly {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

// CreateCategory creates a category (admin only).
func (s *TaxonomyService) CreateCategory(ctx context.Context, actor domain.Actor, input CategoryInput) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := s.validateCategorySupervisor(ctx, input.SupervisorID); err != nil {
		return nil, err
	}
	category := &domain.Category{
		Name:         strings.TrimSpace(input.Name),
		Active:       input.Active,
		SupervisorID: input.SupervisorID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return category, nil
}

// UpdateCategory updates category attributes (admin only).
func (s *TaxonomyService) UpdateCategory(ctx context.Context, actor domain.Actor, categoryID string, input CategoryInput) (*domain.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	if err := s.validateCategorySupervisor(ctx, input.SupervisorID); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(input.Name)
	category.Active = input.Active
	category.SupervisorID = input.SupervisorID
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return category, nil
}

func (s *TaxonomyService) validateCategorySupervisor(ctx context.Context, supervisorID *string) error {
	if supervisorID == nil {
		return nil
	}
	staff, err := s.staff.GetByID(ctx, *supervisorID)
	if err != nil {
		return notFoundOr(err, "staff user")
	}
	if staff.Role != domain.StaffRoleCategorySupervisor {
		return apperrors.NewValidationError("staff user is not a category supervisor", nil)
	}
	return nil
}

// CreateSubCategory creates a sub-category under a category (admin only).
func (s *TaxonomyService) CreateSubCategory(ctx context.Context, actor domain.Actor, input SubCategoryInput) (*domain.SubCategory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundOr(err, "category")
	}
	sub := &domain.SubCategory{
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Active:     input.Active,
	}
	if err := s.categories.CreateSubCategory(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx)
	return sub, nil
}

// ListSubCategories lists a category's sub-categories.
func (s *TaxonomyService) ListSubCategories(ctx context.Context, categoryID string) ([]domain.SubCategory, error) {
	subs, err := s.categories.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return subs, nil
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin required")
	}
	return nil
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}
