package healthcheck

import (
	"context"

	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

// Handler returns the router.Handler-compatible function that serves all
// three endpoints (path/liveness/readiness) based on the request path.
func (c *Checker) Handler() func(ctx *httpctx.Context) (response.Response, error) {
	return func(ctx *httpctx.Context) (response.Response, error) {
		path := ctx.Path()

		var resp Response
		switch {
		case c.config.LivenessPath != "" && path == c.config.LivenessPath:
			resp = c.CheckLiveness(context.Background())
		case c.config.ReadinessPath != "" && path == c.config.ReadinessPath:
			resp = c.CheckReadiness(context.Background())
		default:
			resp = c.Check(context.Background())
		}

		return response.New().Status(resp.Status.HTTPStatusCode()).JSON(resp), nil
	}
}
