package http

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/internal/middleware"
	"github.com/aras-services/weave/internal/usecase"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/response"
	"github.com/aras-services/weave/pkg/weave/router"
)

// AuthzController exposes role, permission, and assignment management
// under /api/v1/{roles,permissions,users/:userId/roles,authz}. Every route
// additionally requires the roles:read permission, mirroring the
// teacher's RequirePermission group wrapping AuthzHandler.RegisterRoutes.
type AuthzController struct {
	authzUseCase    *usecase.AuthzUseCase
	authGuard       *middleware.AuthGuard
	permissionGuard *middleware.PermissionGuard
	validate        *validator.Validate
}

// NewAuthzController builds the controller.
func NewAuthzController(authzUseCase *usecase.AuthzUseCase, authGuard *middleware.AuthGuard, permissionGuard *middleware.PermissionGuard) *AuthzController {
	return &AuthzController{authzUseCase: authzUseCase, authGuard: authGuard, permissionGuard: permissionGuard, validate: validator.New()}
}

func (h *AuthzController) Routes() []module.RouteDefinition {
	guards := []any{h.authGuard, h.permissionGuard}
	return []module.RouteDefinition{
		{Method: "POST", Path: "/api/v1/roles", Handler: router.Handler(h.createRole), Guards: guards},
		{Method: "GET", Path: "/api/v1/roles", Handler: router.Handler(h.listRoles), Guards: guards},
		{Method: "GET", Path: "/api/v1/roles/:id", Handler: router.Handler(h.getRole), Guards: guards},
		{Method: "PUT", Path: "/api/v1/roles/:id", Handler: router.Handler(h.updateRole), Guards: guards},
		{Method: "DELETE", Path: "/api/v1/roles/:id", Handler: router.Handler(h.deleteRole), Guards: guards},
		{Method: "POST", Path: "/api/v1/roles/:id/permissions", Handler: router.Handler(h.assignPermissionToRole), Guards: guards},
		{Method: "DELETE", Path: "/api/v1/roles/:id/permissions/:permissionId", Handler: router.Handler(h.removePermissionFromRole), Guards: guards},
		{Method: "GET", Path: "/api/v1/roles/:id/permissions", Handler: router.Handler(h.getRolePermissions), Guards: guards},

		{Method: "POST", Path: "/api/v1/permissions", Handler: router.Handler(h.createPermission), Guards: guards},
		{Method: "GET", Path: "/api/v1/permissions", Handler: router.Handler(h.listPermissions), Guards: guards},
		{Method: "GET", Path: "/api/v1/permissions/:id", Handler: router.Handler(h.getPermission), Guards: guards},
		{Method: "PUT", Path: "/api/v1/permissions/:id", Handler: router.Handler(h.updatePermission), Guards: guards},
		{Method: "DELETE", Path: "/api/v1/permissions/:id", Handler: router.Handler(h.deletePermission), Guards: guards},

		{Method: "POST", Path: "/api/v1/users/:userId/roles", Handler: router.Handler(h.assignRoleToUser), Guards: guards},
		{Method: "DELETE", Path: "/api/v1/users/:userId/roles/:roleId", Handler: router.Handler(h.removeRoleFromUser), Guards: guards},
		{Method: "GET", Path: "/api/v1/users/:userId/roles", Handler: router.Handler(h.getUserRoles), Guards: guards},

		{Method: "POST", Path: "/api/v1/authz/check", Handler: router.Handler(h.checkPermission), Guards: guards},
	}
}

func (h *AuthzController) createRole(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[domain.CreateRoleRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	role, err := h.authzUseCase.CreateRole(context.Background(), &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(role, "Role created successfully"), nil
}

func (h *AuthzController) listRoles(ctx *httpctx.Context) (response.Response, error) {
	page, ok := httpctx.QueryParamAs[int](ctx, "page")
	if !ok || page < 1 {
		page = 1
	}
	limit, ok := httpctx.QueryParamAs[int](ctx, "limit")
	if !ok || limit < 1 || limit > 100 {
		limit = 20
	}

	out, err := h.authzUseCase.ListRoles(context.Background(), page, limit)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Roles retrieved successfully"), nil
}

func (h *AuthzController) getRole(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	role, err := h.authzUseCase.GetRole(context.Background(), roleID)
	if err != nil {
		return fromError(err), nil
	}
	return success(role, "Role retrieved successfully"), nil
}

func (h *AuthzController) updateRole(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	req, err := httpctx.JSON[domain.UpdateRoleRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	role, err := h.authzUseCase.UpdateRole(context.Background(), roleID, &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(role, "Role updated successfully"), nil
}

func (h *AuthzController) deleteRole(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	if err := h.authzUseCase.DeleteRole(context.Background(), roleID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Role deleted successfully"), nil
}

func (h *AuthzController) assignPermissionToRole(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	req, err := httpctx.JSON[domain.AssignPermissionRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	if err := h.authzUseCase.AssignPermissionToRole(context.Background(), roleID, &req); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Permission assigned to role successfully"), nil
}

func (h *AuthzController) removePermissionFromRole(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}
	permissionID, err := pathID(ctx, "permissionId")
	if err != nil {
		return validationError("Invalid permission ID"), nil
	}

	if err := h.authzUseCase.RemovePermissionFromRole(context.Background(), roleID, permissionID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Permission removed from role successfully"), nil
}

func (h *AuthzController) getRolePermissions(ctx *httpctx.Context) (response.Response, error) {
	roleID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	permissions, err := h.authzUseCase.GetRolePermissions(context.Background(), roleID)
	if err != nil {
		return fromError(err), nil
	}
	return success(permissions, "Role permissions retrieved successfully"), nil
}

func (h *AuthzController) createPermission(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[domain.CreatePermissionRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	permission, err := h.authzUseCase.CreatePermission(context.Background(), &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(permission, "Permission created successfully"), nil
}

func (h *AuthzController) listPermissions(ctx *httpctx.Context) (response.Response, error) {
	page, ok := httpctx.QueryParamAs[int](ctx, "page")
	if !ok || page < 1 {
		page = 1
	}
	limit, ok := httpctx.QueryParamAs[int](ctx, "limit")
	if !ok || limit < 1 || limit > 100 {
		limit = 20
	}

	out, err := h.authzUseCase.ListPermissions(context.Background(), page, limit)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Permissions retrieved successfully"), nil
}

func (h *AuthzController) getPermission(ctx *httpctx.Context) (response.Response, error) {
	permissionID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid permission ID"), nil
	}

	permission, err := h.authzUseCase.GetPermission(context.Background(), permissionID)
	if err != nil {
		return fromError(err), nil
	}
	return success(permission, "Permission retrieved successfully"), nil
}

func (h *AuthzController) updatePermission(ctx *httpctx.Context) (response.Response, error) {
	permissionID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid permission ID"), nil
	}

	req, err := httpctx.JSON[domain.UpdatePermissionRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	permission, err := h.authzUseCase.UpdatePermission(context.Background(), permissionID, &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(permission, "Permission updated successfully"), nil
}

func (h *AuthzController) deletePermission(ctx *httpctx.Context) (response.Response, error) {
	permissionID, err := pathID(ctx, "id")
	if err != nil {
		return validationError("Invalid permission ID"), nil
	}

	if err := h.authzUseCase.DeletePermission(context.Background(), permissionID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Permission deleted successfully"), nil
}

func (h *AuthzController) assignRoleToUser(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	req, err := httpctx.JSON[domain.AssignRoleRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	if err := h.authzUseCase.AssignRoleToUser(context.Background(), userID, &req); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Role assigned to user successfully"), nil
}

func (h *AuthzController) removeRoleFromUser(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return validationError("Invalid user ID"), nil
	}
	roleID, err := pathID(ctx, "roleId")
	if err != nil {
		return validationError("Invalid role ID"), nil
	}

	if err := h.authzUseCase.RemoveRoleFromUser(context.Background(), userID, roleID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Role removed from user successfully"), nil
}

func (h *AuthzController) getUserRoles(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	roles, err := h.authzUseCase.GetUserRoles(context.Background(), userID)
	if err != nil {
		return fromError(err), nil
	}
	return success(roles, "User roles retrieved successfully"), nil
}

func (h *AuthzController) checkPermission(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[domain.CheckPermissionRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	out, err := h.authzUseCase.CheckPermission(context.Background(), &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Permission check completed"), nil
}

func pathID(ctx *httpctx.Context, name string) (uuid.UUID, error) {
	raw, err := httpctx.Path(ctx, name)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(raw)
}
