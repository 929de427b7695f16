package middleware

import (
	"context"
	"strings"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

// PermissionGuard requires the authenticated user (stashed by AuthGuard)
// to hold a given resource:action permission. It must be registered
// after AuthGuard on a route so claims are already available.
type PermissionGuard struct {
	permissionRepo domain.PermissionRepository
	resource       string
	action         string
}

// RequirePermission builds a guard for a single resource/action pair,
// mirroring the teacher's RBACMiddleware.RequirePermission.
func RequirePermission(permissionRepo domain.PermissionRepository, resource, action string) *PermissionGuard {
	return &PermissionGuard{permissionRepo: permissionRepo, resource: resource, action: action}
}

func (g *PermissionGuard) CanActivate(ctx *httpctx.Context) bool {
	claims, ok := CurrentClaims(ctx)
	if !ok {
		return false
	}
	allowed, err := g.permissionRepo.CheckUserPermission(context.Background(), claims.UserID, g.resource, g.action)
	return err == nil && allowed
}

func (g *PermissionGuard) RejectionResponse() response.Response {
	return response.FromError(apperror.Forbidden("Insufficient permissions"))
}

// AnyPermissionGuard requires at least one of the given "resource:action"
// permissions, mirroring RBACMiddleware.RequireAnyPermission.
type AnyPermissionGuard struct {
	permissionRepo domain.PermissionRepository
	permissions    []string
}

// RequireAnyPermission builds a guard satisfied by any one of permissions.
func RequireAnyPermission(permissionRepo domain.PermissionRepository, permissions ...string) *AnyPermissionGuard {
	return &AnyPermissionGuard{permissionRepo: permissionRepo, permissions: permissions}
}

func (g *AnyPermissionGuard) CanActivate(ctx *httpctx.Context) bool {
	claims, ok := CurrentClaims(ctx)
	if !ok {
		return false
	}
	for _, permission := range g.permissions {
		resource, action, ok := strings.Cut(permission, ":")
		if !ok {
			continue
		}
		if allowed, err := g.permissionRepo.CheckUserPermission(context.Background(), claims.UserID, resource, action); err == nil && allowed {
			return true
		}
	}
	return false
}

func (g *AnyPermissionGuard) RejectionResponse() response.Response {
	return response.FromError(apperror.Forbidden("Insufficient permissions"))
}

// AllPermissionsGuard requires every given "resource:action" permission,
// mirroring RBACMiddleware.RequireAllPermissions.
type AllPermissionsGuard struct {
	permissionRepo domain.PermissionRepository
	permissions    []string
}

// RequireAllPermissions builds a guard satisfied only when every listed
// permission is held.
func RequireAllPermissions(permissionRepo domain.PermissionRepository, permissions ...string) *AllPermissionsGuard {
	return &AllPermissionsGuard{permissionRepo: permissionRepo, permissions: permissions}
}

func (g *AllPermissionsGuard) CanActivate(ctx *httpctx.Context) bool {
	claims, ok := CurrentClaims(ctx)
	if !ok {
		return false
	}
	for _, permission := range g.permissions {
		resource, action, ok := strings.Cut(permission, ":")
		if !ok {
			return false
		}
		allowed, err := g.permissionRepo.CheckUserPermission(context.Background(), claims.UserID, resource, action)
		if err != nil || !allowed {
			return false
		}
	}
	return true
}

func (g *AllPermissionsGuard) RejectionResponse() response.Response {
	return response.FromError(apperror.Forbidden("Insufficient permissions"))
}
