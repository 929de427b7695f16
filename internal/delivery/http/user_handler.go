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

// UserController exposes the authenticated /users/* routes: listing,
// self-lookup, by-id lookup, update and delete.
type UserController struct {
	userUseCase *usecase.UserUseCase
	authGuard   *middleware.AuthGuard
	validate    *validator.Validate
}

// NewUserController builds the controller, binding every route behind
// authGuard the way the teacher's router mounted AuthMiddleware ahead
// of the whole /users group.
func NewUserController(userUseCase *usecase.UserUseCase, authGuard *middleware.AuthGuard) *UserController {
	return &UserController{userUseCase: userUseCase, authGuard: authGuard, validate: validator.New()}
}

func (h *UserController) Routes() []module.RouteDefinition {
	guards := []any{h.authGuard}
	return []module.RouteDefinition{
		{Method: "GET", Path: "/api/v1/users", Handler: router.Handler(h.listUsers), Guards: guards},
		{Method: "GET", Path: "/api/v1/users/me", Handler: router.Handler(h.getCurrentUser), Guards: guards},
		{Method: "GET", Path: "/api/v1/users/:id", Handler: router.Handler(h.getUser), Guards: guards},
		{Method: "PUT", Path: "/api/v1/users/:id", Handler: router.Handler(h.updateUser), Guards: guards},
		{Method: "DELETE", Path: "/api/v1/users/:id", Handler: router.Handler(h.deleteUser), Guards: guards},
	}
}

func (h *UserController) listUsers(ctx *httpctx.Context) (response.Response, error) {
	page, ok := httpctx.QueryParamAs[int](ctx, "page")
	if !ok || page < 1 {
		page = 1
	}
	limit, ok := httpctx.QueryParamAs[int](ctx, "limit")
	if !ok || limit < 1 || limit > 100 {
		limit = 20
	}

	out, err := h.userUseCase.ListUsers(context.Background(), page, limit)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Users retrieved successfully"), nil
}

func (h *UserController) getCurrentUser(ctx *httpctx.Context) (response.Response, error) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		return unauthorizedResponse("User not authenticated"), nil
	}

	user, err := h.userUseCase.GetCurrentUser(context.Background(), claims.UserID)
	if err != nil {
		return fromError(err), nil
	}
	return success(user, "User retrieved successfully"), nil
}

func (h *UserController) getUser(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathUUID(ctx)
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	user, err := h.userUseCase.GetUser(context.Background(), userID)
	if err != nil {
		return fromError(err), nil
	}
	return success(user, "User retrieved successfully"), nil
}

func (h *UserController) updateUser(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathUUID(ctx)
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	req, err := httpctx.JSON[domain.UpdateUserRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	user, err := h.userUseCase.UpdateUser(context.Background(), userID, &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(user, "User updated successfully"), nil
}

func (h *UserController) deleteUser(ctx *httpctx.Context) (response.Response, error) {
	userID, err := pathUUID(ctx)
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	if err := h.userUseCase.DeleteUser(context.Background(), userID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "User deleted successfully"), nil
}

// pathUUID extracts and parses the "id" path parameter shared by
// every single-resource /users/:id route.
func pathUUID(ctx *httpctx.Context) (uuid.UUID, error) {
	raw, err := httpctx.Path(ctx, "id")
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.Parse(raw)
}
