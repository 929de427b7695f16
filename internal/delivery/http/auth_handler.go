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

// AuthController exposes the public /auth/* routes: registration,
// login, and token lifecycle.
type AuthController struct {
	authUseCase *usecase.AuthUseCase
	validate    *validator.Validate
}

// NewAuthController builds the controller, constructing its own
// validator.Validate the same way the teacher's NewAuthHandler does.
func NewAuthController(authUseCase *usecase.AuthUseCase) *AuthController {
	return &AuthController{authUseCase: authUseCase, validate: validator.New()}
}

func (h *AuthController) Routes() []module.RouteDefinition {
	public := module.AccessControl{IsPublic: true}
	return []module.RouteDefinition{
		{Method: "POST", Path: "/api/v1/auth/register", Handler: router.Handler(h.register), Access: public},
		{Method: "POST", Path: "/api/v1/auth/login", Handler: router.Handler(h.login), Access: public},
		{Method: "POST", Path: "/api/v1/auth/refresh", Handler: router.Handler(h.refreshToken), Access: public},
		{Method: "POST", Path: "/api/v1/auth/logout", Handler: router.Handler(h.logout), Access: public},
		{Method: "POST", Path: "/api/v1/auth/verify-email", Handler: router.Handler(h.verifyEmail), Access: public},
		{Method: "POST", Path: "/api/v1/auth/change-password", Handler: router.Handler(h.changePassword)},
		{Method: "POST", Path: "/api/v1/auth/introspect", Handler: router.Handler(h.introspectToken), Access: public},
	}
}

func (h *AuthController) register(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[domain.CreateUserRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	out, err := h.authUseCase.Register(context.Background(), &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "User registered successfully"), nil
}

func (h *AuthController) login(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[domain.LoginRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	out, err := h.authUseCase.Login(context.Background(), &req)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Login successful"), nil
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthController) refreshToken(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[refreshTokenRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	out, err := h.authUseCase.RefreshToken(context.Background(), req.RefreshToken)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Token refreshed successfully"), nil
}

func (h *AuthController) logout(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[refreshTokenRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	if err := h.authUseCase.Logout(context.Background(), req.RefreshToken); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Logout successful"), nil
}

type verifyEmailRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

func (h *AuthController) verifyEmail(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[verifyEmailRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return validationError("Invalid user ID"), nil
	}

	if err := h.authUseCase.VerifyEmail(context.Background(), userID); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Email verified successfully"), nil
}

func (h *AuthController) changePassword(ctx *httpctx.Context) (response.Response, error) {
	claims, ok := middleware.CurrentClaims(ctx)
	if !ok {
		return unauthorizedResponse("User not authenticated"), nil
	}

	req, err := httpctx.JSON[domain.ChangePasswordRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	if err := h.authUseCase.ChangePassword(context.Background(), claims.UserID, &req); err != nil {
		return fromError(err), nil
	}
	return success(nil, "Password changed successfully"), nil
}

type introspectRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AuthController) introspectToken(ctx *httpctx.Context) (response.Response, error) {
	req, err := httpctx.JSON[introspectRequest](ctx)
	if err != nil {
		return validationError("Invalid request body"), nil
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(err.Error()), nil
	}

	out, err := h.authUseCase.IntrospectToken(context.Background(), req.Token)
	if err != nil {
		return fromError(err), nil
	}
	return success(out, "Token introspection successful"), nil
}
