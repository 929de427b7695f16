package http

import (
	"github.com/aras-services/weave/pkg/weave/middleware/healthcheck"
	"github.com/aras-services/weave/pkg/weave/module"
	"github.com/aras-services/weave/pkg/weave/router"
)

// HealthController exposes the checker's registered disk/memory/
// database indicators as public routes, replacing the teacher's inline
// r.Get("/health", ...) handler with one booted through the same
// module path as every other controller.
type HealthController struct {
	checker *healthcheck.Checker
}

// NewHealthController builds the controller bound to a checker.
func NewHealthController(checker *healthcheck.Checker) *HealthController {
	return &HealthController{checker: checker}
}

func (h *HealthController) Routes() []module.RouteDefinition {
	public := module.AccessControl{IsPublic: true}
	handler := router.Handler(h.checker.Handler())

	routes := []module.RouteDefinition{
		{Method: "GET", Path: h.checker.Path(), Handler: handler, Access: public},
	}
	if p := h.checker.LivenessPath(); p != "" {
		routes = append(routes, module.RouteDefinition{Method: "GET", Path: p, Handler: handler, Access: public})
	}
	if p := h.checker.ReadinessPath(); p != "" {
		routes = append(routes, module.RouteDefinition{Method: "GET", Path: p, Handler: handler, Access: public})
	}
	return routes
}
