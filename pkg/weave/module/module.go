// Package module implements the module contract and the boot sequence
// that wires modules, services and controllers into a running server:
// graph walk, per-module visible container construction, topological
// service construction, controller construction and route registration.
package module

import (
	"fmt"
	"reflect"

	"github.com/aras-services/weave/pkg/weave/container"
	"github.com/aras-services/weave/pkg/weave/injects"
)

// AccessControl carries a route's public/role-gated status, consumed by
// auth guards registered on the server.
type AccessControl struct {
	IsPublic     bool
	AllowedRoles []string
}

// RouteDefinition is the (method, pattern, handler, guards, interceptors,
// access-control) tuple a controller contributes to the router.
type RouteDefinition struct {
	Method       string
	Path         string
	Handler      any // router.Handler; left as any to avoid an import cycle
	Guards       []any
	Interceptors []any
	Access       AccessControl
}

// Controller bundles the route definitions owned by a constructed object.
type Controller interface {
	Routes() []RouteDefinition
}

// ServiceProvider constructs a single service within a module. TypeID
// identifies what it produces; Dependencies lists the type-ids it needs
// from the container at construction time.
type ServiceProvider struct {
	TypeID       reflect.Type
	Dependencies []reflect.Type
	Construct    func(c *container.Container, inj *injects.Injects) any
}

// ControllerProvider constructs a controller the same way a
// ServiceProvider constructs a service.
type ControllerProvider struct {
	Dependencies []reflect.Type
	Construct    func(c *container.Container, inj *injects.Injects) Controller
}

// Module is a value with four sets: imports, exports, services and
// controllers (spec §3).
type Module interface {
	Name() string
	Imports() []Module
	Exports() []reflect.Type
	Services() []ServiceProvider
	Controllers() []ControllerProvider
}

// Initializable and Shutdownable mirror injects' optional lifecycle hooks,
// implemented by modules that need boot/teardown behavior.
type Initializable interface {
	OnInit()
}

type Shutdownable interface {
	OnShutdown()
}

// RegisteredRoute is a fully-resolved route ready for the router, carrying
// the owning module's name for diagnostics/logging.
type RegisteredRoute struct {
	Module     string
	Definition RouteDefinition
}

// visibleContainer builds the merged container a module may consume: the
// whole local container of each direct import, so every service an
// imported module constructed is visible, whether or not it is in that
// module's Exports list. Services of modules imported only indirectly are
// not included, and the app-global container is merged in by Boot, not
// here.
func visibleContainer(m Module, visited map[Module]bool, localContainers map[Module]*container.Container) *container.Container {
	visible := container.New()
	if visited[m] {
		return visible
	}
	visited[m] = true

	for _, imported := range m.Imports() {
		visibleContainer(imported, visited, localContainers)
		local, ok := localContainers[imported]
		if !ok {
			continue
		}
		exportSet := make(map[reflect.Type]bool, len(imported.Exports()))
		for _, t := range imported.Exports() {
			exportSet[t] = true
		}
		_ = exportSet
		visible.Merge(local)
	}

	return visible
}

// dependenciesReady reports whether every type in deps is already present
// in ready (constructed-so-far) or in the base visible container.
func dependenciesReady(deps []reflect.Type, constructed map[reflect.Type]bool, baseHas func(reflect.Type) bool) bool {
	for _, d := range deps {
		if constructed[d] || baseHas(d) {
			continue
		}
		return false
	}
	return true
}

// sortServices topologically orders a module's services by declared
// dependencies, resolving dependencies supplied by the module's visible
// (imported) container immediately. Returns an error naming the pending
// type-ids if no progress can be made in a full pass.
func sortServices(services []ServiceProvider, visibleHas func(reflect.Type) bool) ([]ServiceProvider, error) {
	pending := make([]ServiceProvider, len(services))
	copy(pending, services)
	constructed := make(map[reflect.Type]bool, len(services))
	ordered := make([]ServiceProvider, 0, len(services))

	for len(pending) > 0 {
		progressed := false
		next := pending[:0:0]

		for _, svc := range pending {
			if dependenciesReady(svc.Dependencies, constructed, visibleHas) {
				ordered = append(ordered, svc)
				constructed[svc.TypeID] = true
				progressed = true
			} else {
				next = append(next, svc)
			}
		}

		pending = next
		if !progressed {
			pendingIDs := make([]string, 0, len(pending))
			for _, svc := range pending {
				pendingIDs = append(pendingIDs, svc.TypeID.String())
			}
			return nil, fmt.Errorf("unresolved dependency cycle or missing provider: %v", pendingIDs)
		}
	}

	return ordered, nil
}

// BootResult is what Boot hands back to the server builder: the fully
// constructed, flattened route list.
type BootResult struct {
	Routes []RegisteredRoute
}

// Boot runs the full module composition sequence of spec §4.3, steps 2-6.
// Step 1 (injects.OnInit) and step 7 (service on_init) are the caller's
// responsibility so it can interleave them with non-module root injects.
func Boot(roots []Module, globalContainer *container.Container, inj *injects.Injects) (*BootResult, []any, error) {
	localContainers := make(map[Module]*container.Container)
	var constructedServices []any
	result := &BootResult{}

	var bootModule func(m Module) error
	booted := make(map[Module]bool)

	bootModule = func(m Module) error {
		if booted[m] {
			return nil
		}
		booted[m] = true

		for _, imported := range m.Imports() {
			if err := bootModule(imported); err != nil {
				return err
			}
		}

		visited := make(map[Module]bool)
		visible := visibleContainer(m, visited, localContainers)
		visible.Merge(globalContainer)

		ordered, err := sortServices(m.Services(), func(t reflect.Type) bool {
			return hasType(visible, t)
		})
		if err != nil {
			return fmt.Errorf("module %q: %w", m.Name(), err)
		}

		local := container.New()
		for _, svc := range ordered {
			instance := svc.Construct(visible, inj)
			registerAny(local, svc.TypeID, instance)
			registerAny(visible, svc.TypeID, instance)
			constructedServices = append(constructedServices, instance)
		}
		localContainers[m] = local

		exportSet := make(map[reflect.Type]bool, len(m.Exports()))
		for _, t := range m.Exports() {
			exportSet[t] = true
		}

		for _, provider := range m.Controllers() {
			ctrl := provider.Construct(visible, inj)
			for _, route := range ctrl.Routes() {
				result.Routes = append(result.Routes, RegisteredRoute{Module: m.Name(), Definition: route})
			}
		}

		return nil
	}

	for _, root := range roots {
		if err := bootModule(root); err != nil {
			return nil, nil, err
		}
	}

	return result, constructedServices, nil
}

// hasType and registerAny bridge the generic container API (which is
// keyed by Go type parameters) with the reflect.Type-driven module graph.
// They operate through the container's untyped escape hatch so the boot
// sequence can work uniformly over heterogeneous service types.
func hasType(c *container.Container, t reflect.Type) bool {
	return c.HasType(t)
}

func registerAny(c *container.Container, t reflect.Type, v any) {
	c.RegisterType(t, v)
}
