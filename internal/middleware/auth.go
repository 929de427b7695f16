// Package middleware holds the weave guards that gate the auth
// service's routes: bearer-token authentication and RBAC permission
// checks. These were chi http.Handler-wrapping middlewares in the
// teacher; here they are router.Guard implementations, since guards are
// the framework's contract for "may reject before the handler runs"
// (spec §4.5) and carry no next-handler responsibility of their own.
package middleware

import (
	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/weave/apperror"
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

// AuthGuard validates the Authorization bearer token and, on success,
// stashes the resulting claims into the request's scoped container so
// downstream guards and handlers can retrieve them via CurrentClaims.
type AuthGuard struct {
	tokenService domain.TokenService
}

// NewAuthGuard builds a guard bound to the token service used for
// validation.
func NewAuthGuard(tokenService domain.TokenService) *AuthGuard {
	return &AuthGuard{tokenService: tokenService}
}

func (g *AuthGuard) CanActivate(ctx *httpctx.Context) bool {
	token, ok := ctx.BearerToken()
	if !ok {
		return false
	}
	claims, err := g.tokenService.ValidateAccessToken(token)
	if err != nil {
		return false
	}
	container.SetRequestService[*domain.TokenClaims](ctx.Container, claims)
	return true
}

func (g *AuthGuard) RejectionResponse() response.Response {
	return response.FromError(apperror.Unauthorized("Missing or invalid bearer token"))
}

// CurrentClaims retrieves the claims AuthGuard stored for the current
// request. Handlers behind AuthGuard may call this unconditionally;
// guards that might run without AuthGuard first (e.g. OptionalAuthGuard)
// should check the ok return.
func CurrentClaims(ctx *httpctx.Context) (*domain.TokenClaims, bool) {
	return httpctx.Service[*domain.TokenClaims](ctx)
}

// OptionalAuthGuard behaves like AuthGuard but never rejects: it stashes
// claims when a valid bearer token is present and otherwise lets the
// request through unauthenticated, mirroring the teacher's
// AuthMiddleware.OptionalAuth.
type OptionalAuthGuard struct {
	tokenService domain.TokenService
}

// NewOptionalAuthGuard builds an optional-auth guard.
func NewOptionalAuthGuard(tokenService domain.TokenService) *OptionalAuthGuard {
	return &OptionalAuthGuard{tokenService: tokenService}
}

func (g *OptionalAuthGuard) CanActivate(ctx *httpctx.Context) bool {
	if token, ok := ctx.BearerToken(); ok {
		if claims, err := g.tokenService.ValidateAccessToken(token); err == nil {
			container.SetRequestService[*domain.TokenClaims](ctx.Container, claims)
		}
	}
	return true
}

// RejectionResponse is never invoked since CanActivate always returns
// true; it exists only to satisfy router.Guard.
func (g *OptionalAuthGuard) RejectionResponse() response.Response {
	return response.New()
}
