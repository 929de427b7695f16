package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aras-services/weave/internal/domain"
)

type AuthzUseCase struct {
	roleRepo       domain.RoleRepository
	permissionRepo domain.PermissionRepository
}

func NewAuthzUseCase(roleRepo domain.RoleRepository, permissionRepo domain.PermissionRepository) *AuthzUseCase {
	return &AuthzUseCase{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

type ListRolesResponse struct {
	Roles []*domain.Role `json:"roles"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type ListPermissionsResponse struct {
	Permissions []*domain.Permission `json:"permissions"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

type CheckPermissionResponse struct {
	HasPermission bool `json:"has_permission"`
}

// Role management

func (uc *AuthzUseCase) CreateRole(ctx context.Context, req *domain.CreateRoleRequest) (*domain.Role, error) {
	role := &domain.Role{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uc.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

func (uc *AuthzUseCase) GetRole(ctx context.Context, roleID uuid.UUID) (*domain.Role, error) {
	return uc.roleRepo.GetByID(ctx, roleID)
}

func (uc *AuthzUseCase) ListRoles(ctx context.Context, page, limit int) (*ListRolesResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	roles, err := uc.roleRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.roleRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ListRolesResponse{
		Roles: roles,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (uc *AuthzUseCase) UpdateRole(ctx context.Context, roleID uuid.UUID, req *domain.UpdateRoleRequest) (*domain.Role, error) {
	role, err := uc.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}

	if err := uc.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	return role, nil
}

func (uc *AuthzUseCase) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	if _, err := uc.roleRepo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return uc.roleRepo.Delete(ctx, roleID)
}

func (uc *AuthzUseCase) AssignRoleToUser(ctx context.Context, userID uuid.UUID, req *domain.AssignRoleRequest) error {
	return uc.roleRepo.AssignToUser(ctx, userID, req.RoleID)
}

func (uc *AuthzUseCase) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	return uc.roleRepo.RemoveFromUser(ctx, userID, roleID)
}

func (uc *AuthzUseCase) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*domain.Role, error) {
	return uc.roleRepo.GetUserRoles(ctx, userID)
}

// Permission management

func (uc *AuthzUseCase) CreatePermission(ctx context.Context, req *domain.CreatePermissionRequest) (*domain.Permission, error) {
	permission := &domain.Permission{
		ID:          uuid.New(),
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := uc.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (uc *AuthzUseCase) GetPermission(ctx context.Context, permissionID uuid.UUID) (*domain.Permission, error) {
	return uc.permissionRepo.GetByID(ctx, permissionID)
}

func (uc *AuthzUseCase) ListPermissions(ctx context.Context, page, limit int) (*ListPermissionsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	permissions, err := uc.permissionRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := uc.permissionRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ListPermissionsResponse{
		Permissions: permissions,
		Total:       total,
		Page:        page,
		Limit:       limit,
	}, nil
}

func (uc *AuthzUseCase) UpdatePermission(ctx context.Context, permissionID uuid.UUID, req *domain.UpdatePermissionRequest) (*domain.Permission, error) {
	permission, err := uc.permissionRepo.GetByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	if req.Resource != nil {
		permission.Resource = *req.Resource
	}
	if req.Action != nil {
		permission.Action = *req.Action
	}
	if req.Description != nil {
		permission.Description = *req.Description
	}

	if err := uc.permissionRepo.Update(ctx, permission); err != nil {
		return nil, err
	}

	return permission, nil
}

func (uc *AuthzUseCase) DeletePermission(ctx context.Context, permissionID uuid.UUID) error {
	if _, err := uc.permissionRepo.GetByID(ctx, permissionID); err != nil {
		return err
	}
	return uc.permissionRepo.Delete(ctx, permissionID)
}

func (uc *AuthzUseCase) AssignPermissionToRole(ctx context.Context, roleID uuid.UUID, req *domain.AssignPermissionRequest) error {
	return uc.permissionRepo.AssignToRole(ctx, roleID, req.PermissionID)
}

func (uc *AuthzUseCase) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error {
	return uc.permissionRepo.RemoveFromRole(ctx, roleID, permissionID)
}

func (uc *AuthzUseCase) GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*domain.Permission, error) {
	return uc.permissionRepo.GetRolePermissions(ctx, roleID)
}

// Authorization checks

func (uc *AuthzUseCase) CheckPermission(ctx context.Context, req *domain.CheckPermissionRequest) (*CheckPermissionResponse, error) {
	hasPermission, err := uc.permissionRepo.CheckUserPermission(ctx, req.UserID, req.Resource, req.Action)
	if err != nil {
		return nil, err
	}

	return &CheckPermissionResponse{
		HasPermission: hasPermission,
	}, nil
}
