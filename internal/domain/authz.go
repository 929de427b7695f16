package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role groups a set of permissions that can be assigned to a user.
// Groups are out of scope for this service: assignment runs straight
// from user to role, the smallest graph that still exercises the
// PermissionGuard chain (spec §4.5).
type Role struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Permission is a single resource:action pair a Role can carry.
type Permission struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Resource    string     `json:"resource" db:"resource" validate:"required,min=1,max=100"`
	Action      string     `json:"action" db:"action" validate:"required,min=1,max=100"`
	Description string     `json:"description" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

type AssignRoleRequest struct {
	RoleID uuid.UUID `json:"role_id" validate:"required"`
}

type CreatePermissionRequest struct {
	Resource    string `json:"resource" validate:"required,min=1,max=100"`
	Action      string `json:"action" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

type UpdatePermissionRequest struct {
	Resource    *string `json:"resource,omitempty" validate:"omitempty,min=1,max=100"`
	Action      *string `json:"action,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

type AssignPermissionRequest struct {
	PermissionID uuid.UUID `json:"permission_id" validate:"required"`
}

type CheckPermissionRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	Resource string    `json:"resource" validate:"required"`
	Action   string    `json:"action" validate:"required"`
}

// RoleRepository persists roles and their assignment to users.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Role, error)
	Count(ctx context.Context) (int, error)
	AssignToUser(ctx context.Context, userID, roleID uuid.UUID) error
	RemoveFromUser(ctx context.Context, userID, roleID uuid.UUID) error
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*Role, error)
}

// PermissionRepository persists permissions, their assignment to
// roles, and the derived user-holds-permission check RBAC guards run.
type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Permission, error)
	GetByResourceAndAction(ctx context.Context, resource, action string) (*Permission, error)
	Update(ctx context.Context, permission *Permission) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Permission, error)
	Count(ctx context.Context) (int, error)
	AssignToRole(ctx context.Context, roleID, permissionID uuid.UUID) error
	RemoveFromRole(ctx context.Context, roleID, permissionID uuid.UUID) error
	GetRolePermissions(ctx context.Context, roleID uuid.UUID) ([]*Permission, error)
	CheckUserPermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error)
}
