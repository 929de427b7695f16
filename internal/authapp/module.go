// Package authapp wires the auth service's repositories, services,
// use cases and controllers into a single weave module. It replaces
// cmd/server/main.go's manual phase-by-phase construction (teacher's
// "Repository Layer", "Service Layer", "Use Case Layer", "Handler
// Layer" comments) with the ServiceProvider/ControllerProvider graph
// module.Boot walks at startup.
package authapp

import (
	"context"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	httphandler "github.com/aras-services/weave/internal/delivery/http"
	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/internal/middleware"
	"github.com/aras-services/weave/internal/provider"
	"github.com/aras-services/weave/internal/provider/local"
	"github.com/aras-services/weave/internal/repository/postgres"
	"github.com/aras-services/weave/internal/service"
	"github.com/aras-services/weave/internal/usecase"
	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/injects"
	"github.com/aras-services/weave/pkg/weave/middleware/healthcheck"
	"github.com/aras-services/weave/pkg/weave/module"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// JWTSettings is the slice of config.JWTConfig the module needs; kept
// narrow so authapp doesn't import the application's config package
// and pull in SMTP/Admin concerns it has no use for.
type JWTSettings struct {
	SecretKey     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// Module is the auth service's single module: every repository, the
// JWT token service, the provider registry, every use case and every
// HTTP controller. A real multi-team deployment might split this
// along bounded contexts (spec §3's Imports/Exports exist for exactly
// that); this service is small enough for one.
type Module struct {
	db  *pgxpool.Pool
	jwt JWTSettings
}

// New builds the module bound to an already-connected pool and the
// JWT settings read from config.Load().
func New(db *pgxpool.Pool, jwt JWTSettings) *Module {
	return &Module{db: db, jwt: jwt}
}

func (m *Module) Name() string            { return "auth" }
func (m *Module) Imports() []module.Module { return nil }

func (m *Module) Exports() []reflect.Type {
	return []reflect.Type{
		typeOf[domain.UserRepository](),
		typeOf[domain.TokenService](),
	}
}

func (m *Module) Services() []module.ServiceProvider {
	db := m.db
	jwt := m.jwt

	return []module.ServiceProvider{
		{
			TypeID: typeOf[domain.UserRepository](),
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return postgres.NewUserRepository(db)
			},
		},
		{
			TypeID: typeOf[domain.RoleRepository](),
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return postgres.NewRoleRepository(db)
			},
		},
		{
			TypeID: typeOf[domain.PermissionRepository](),
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return postgres.NewPermissionRepository(db)
			},
		},
		{
			TypeID: typeOf[domain.RefreshTokenRepository](),
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return postgres.NewTokenRepository(db)
			},
		},
		{
			TypeID:       typeOf[domain.TokenService](),
			Dependencies: []reflect.Type{typeOf[domain.RefreshTokenRepository]()},
			Construct: func(c *container.Container, inj *injects.Injects) any {
				tokenRepo := container.MustGet[domain.RefreshTokenRepository](c)
				return service.NewJWTService(jwt.SecretKey, jwt.AccessExpiry, jwt.RefreshExpiry, tokenRepo)
			},
		},
		{
			TypeID:       typeOf[domain.ProviderRegistry](),
			Dependencies: []reflect.Type{typeOf[domain.UserRepository]()},
			Construct: func(c *container.Container, inj *injects.Injects) any {
				userRepo := container.MustGet[domain.UserRepository](c)
				registry := provider.NewProviderRegistry()
				if err := registry.RegisterProvider(local.NewLocalProvider(userRepo)); err != nil {
					panic("authapp: failed to register local identity provider: " + err.Error())
				}
				return registry
			},
		},
		{
			TypeID: typeOf[*usecase.AuthUseCase](),
			Dependencies: []reflect.Type{
				typeOf[domain.ProviderRegistry](),
				typeOf[domain.TokenService](),
				typeOf[domain.UserRepository](),
			},
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return usecase.NewAuthUseCase(
					container.MustGet[domain.ProviderRegistry](c),
					container.MustGet[domain.TokenService](c),
					container.MustGet[domain.UserRepository](c),
				)
			},
		},
		{
			TypeID:       typeOf[*usecase.UserUseCase](),
			Dependencies: []reflect.Type{typeOf[domain.UserRepository]()},
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return usecase.NewUserUseCase(container.MustGet[domain.UserRepository](c))
			},
		},
		{
			TypeID: typeOf[*usecase.AuthzUseCase](),
			Dependencies: []reflect.Type{
				typeOf[domain.RoleRepository](),
				typeOf[domain.PermissionRepository](),
			},
			Construct: func(c *container.Container, inj *injects.Injects) any {
				return usecase.NewAuthzUseCase(
					container.MustGet[domain.RoleRepository](c),
					container.MustGet[domain.PermissionRepository](c),
				)
			},
		},
	}
}

func (m *Module) Controllers() []module.ControllerProvider {
	return []module.ControllerProvider{
		{
			Dependencies: []reflect.Type{typeOf[*usecase.AuthUseCase]()},
			Construct: func(c *container.Container, inj *injects.Injects) module.Controller {
				return httphandler.NewAuthController(container.MustGet[*usecase.AuthUseCase](c))
			},
		},
		{
			Dependencies: []reflect.Type{typeOf[*usecase.UserUseCase](), typeOf[domain.TokenService]()},
			Construct: func(c *container.Container, inj *injects.Injects) module.Controller {
				authGuard := middleware.NewAuthGuard(container.MustGet[domain.TokenService](c))
				return httphandler.NewUserController(container.MustGet[*usecase.UserUseCase](c), authGuard)
			},
		},
		{
			Dependencies: []reflect.Type{
				typeOf[*usecase.AuthzUseCase](),
				typeOf[domain.TokenService](),
				typeOf[domain.PermissionRepository](),
			},
			Construct: func(c *container.Container, inj *injects.Injects) module.Controller {
				authGuard := middleware.NewAuthGuard(container.MustGet[domain.TokenService](c))
				permissionGuard := middleware.RequirePermission(container.MustGet[domain.PermissionRepository](c), "roles", "read")
				return httphandler.NewAuthzController(container.MustGet[*usecase.AuthzUseCase](c), authGuard, permissionGuard)
			},
		},
		{
			Construct: func(c *container.Container, inj *injects.Injects) module.Controller {
				db := m.db
				checker := healthcheck.NewBuilder().
					Indicator("disk", healthcheck.NewDiskIndicator()).
					Indicator("memory", healthcheck.NewMemoryIndicator()).
					ReadinessIndicator("database", healthcheck.NewCustomIndicator("database", func(ctx context.Context) healthcheck.Result {
						if err := db.Ping(ctx); err != nil {
							return healthcheck.WithError(err.Error())
						}
						return healthcheck.Healthy()
					})).
					Build()
				return httphandler.NewHealthController(checker)
			},
		},
	}
}
