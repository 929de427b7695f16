package module

import (
	"reflect"
	"testing"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/injects"
)

type configService struct{ dsn string }
type repoService struct{ cfg *configService }
type stubController struct{ routes []RouteDefinition }

func (c *stubController) Routes() []RouteDefinition { return c.routes }

type baseModule struct {
	imports     []Module
	exports     []reflect.Type
	services    []ServiceProvider
	controllers []ControllerProvider
}

func (m *baseModule) Name() string                       { return "base" }
func (m *baseModule) Imports() []Module                  { return m.imports }
func (m *baseModule) Exports() []reflect.Type             { return m.exports }
func (m *baseModule) Services() []ServiceProvider          { return m.services }
func (m *baseModule) Controllers() []ControllerProvider    { return m.controllers }

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func TestBootConstructsServicesInDependencyOrder(t *testing.T) {
	configType := typeOf[*configService]()
	repoType := typeOf[*repoService]()

	m := &baseModule{
		exports: []reflect.Type{configType, repoType},
		services: []ServiceProvider{
			{
				TypeID:       repoType,
				Dependencies: []reflect.Type{configType},
				Construct: func(c *container.Container, inj *injects.Injects) any {
					if !c.HasType(configType) {
						t.Fatal("expected config to be constructed before repo")
					}
					return &repoService{}
				},
			},
			{
				TypeID: configType,
				Construct: func(c *container.Container, inj *injects.Injects) any {
					return &configService{dsn: "postgres://"}
				},
			},
		},
	}

	globalContainer := container.New()
	inj := injects.New()

	result, constructed, err := Boot([]Module{m}, globalContainer, inj)
	if err != nil {
		t.Fatalf("unexpected boot error: %v", err)
	}
	if len(constructed) != 2 {
		t.Fatalf("expected 2 constructed services, got %d", len(constructed))
	}
	if len(result.Routes) != 0 {
		t.Fatalf("expected no routes, got %d", len(result.Routes))
	}
}

func TestBootDetectsUnresolvedDependency(t *testing.T) {
	missingType := typeOf[*configService]()
	repoType := typeOf[*repoService]()

	m := &baseModule{
		services: []ServiceProvider{
			{
				TypeID:       repoType,
				Dependencies: []reflect.Type{missingType},
				Construct: func(c *container.Container, inj *injects.Injects) any {
					return &repoService{}
				},
			},
		},
	}

	_, _, err := Boot([]Module{m}, container.New(), injects.New())
	if err == nil {
		t.Fatal("expected boot error for unresolved dependency")
	}
}

func TestBootRegistersControllerRoutes(t *testing.T) {
	m := &baseModule{
		controllers: []ControllerProvider{
			{
				Construct: func(c *container.Container, inj *injects.Injects) Controller {
					return &stubController{routes: []RouteDefinition{
						{Method: "GET", Path: "/health"},
					}}
				},
			},
		},
	}

	result, _, err := Boot([]Module{m}, container.New(), injects.New())
	if err != nil {
		t.Fatalf("unexpected boot error: %v", err)
	}
	if len(result.Routes) != 1 || result.Routes[0].Definition.Path != "/health" {
		t.Fatalf("expected one /health route, got %+v", result.Routes)
	}
}

func TestBootImportsExposeExportedServices(t *testing.T) {
	configType := typeOf[*configService]()

	child := &baseModule{
		exports: []reflect.Type{configType},
		services: []ServiceProvider{
			{
				TypeID: configType,
				Construct: func(c *container.Container, inj *injects.Injects) any {
					return &configService{dsn: "child"}
				},
			},
		},
	}

	repoType := typeOf[*repoService]()
	parent := &baseModule{
		imports: []Module{child},
		services: []ServiceProvider{
			{
				TypeID:       repoType,
				Dependencies: []reflect.Type{configType},
				Construct: func(c *container.Container, inj *injects.Injects) any {
					if !c.HasType(configType) {
						t.Fatal("expected imported config to be visible")
					}
					return &repoService{}
				},
			},
		},
	}

	_, constructed, err := Boot([]Module{parent}, container.New(), injects.New())
	if err != nil {
		t.Fatalf("unexpected boot error: %v", err)
	}
	if len(constructed) != 2 {
		t.Fatalf("expected config + repo constructed, got %d", len(constructed))
	}
}
