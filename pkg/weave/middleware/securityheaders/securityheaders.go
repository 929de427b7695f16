// Package securityheaders implements the security-response-header
// middleware contract: a fixed set of hardening headers applied to every
// response, each independently toggleable.
package securityheaders

import (
	"github.com/aras-services/weave/pkg/weave/httpctx"
	"github.com/aras-services/weave/pkg/weave/response"
)

// Config is a pointer-optional bag of header values: a nil/zero pointer
// field means "don't set this header".
type Config struct {
	ContentSecurityPolicy string // empty means unset

	XFrameOptions    *XFrameOptions
	XContentTypeOptions bool
	XXSSProtection   *XSSProtection
	HSTS             *HSTSConfig
	ReferrerPolicy   *ReferrerPolicy
	PermissionsPolicy string // empty means unset

	XDNSPrefetchControl *bool
	XPermittedCrossDomainPolicies *CrossDomainPolicy
	XDownloadOptions bool

	CrossOriginEmbedderPolicy *CrossOriginEmbedderPolicy
	CrossOriginOpenerPolicy   *CrossOriginOpenerPolicy
	CrossOriginResourcePolicy *CrossOriginResourcePolicy
	OriginAgentCluster        bool

	CustomHeaders map[string]string
	RemoveHeaders []string
}

func ptr[T any](v T) *T { return &v }

// DefaultConfig matches the original's hardened defaults: a same-origin
// CSP/frame policy, HSTS on, legacy XSS filter explicitly disabled
// (recommended practice; the header itself is deprecated and some older
// browsers mishandle it when enabled), and X-Powered-By/Server stripped.
func DefaultConfig() Config {
	return Config{
		ContentSecurityPolicy:         "default-src 'self'",
		XFrameOptions:                 ptr(FrameSameOrigin),
		XContentTypeOptions:           true,
		XXSSProtection:                ptr(XSSDisabled),
		HSTS:                          ptrHSTS(DefaultHSTSConfig()),
		ReferrerPolicy:                ptr(ReferrerStrictOriginWhenCrossOrigin),
		XDNSPrefetchControl:           ptr(false),
		XPermittedCrossDomainPolicies: ptr(CrossDomainNone),
		XDownloadOptions:              true,
		CrossOriginOpenerPolicy:       ptr(COOPSameOrigin),
		CrossOriginResourcePolicy:     ptr(CORPSameOrigin),
		OriginAgentCluster:            true,
		RemoveHeaders:                 []string{"X-Powered-By", "Server"},
	}
}

func ptrHSTS(v HSTSConfig) *HSTSConfig { return &v }

// Permissive disables every optional hardening header, leaving only the
// baseline X-Content-Type-Options sniffing protection on.
func Permissive() Config {
	return Config{XContentTypeOptions: true}
}

// New builds the middleware function.
func New(cfg Config) func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
	return func(ctx *httpctx.Context, next func(*httpctx.Context) response.Response) response.Response {
		resp := next(ctx)

		if cfg.ContentSecurityPolicy != "" {
			resp = resp.Header("Content-Security-Policy", cfg.ContentSecurityPolicy)
		}
		if cfg.XFrameOptions != nil {
			resp = resp.Header("X-Frame-Options", string(*cfg.XFrameOptions))
		}
		if cfg.XContentTypeOptions {
			resp = resp.Header("X-Content-Type-Options", "nosniff")
		}
		if cfg.XXSSProtection != nil {
			resp = resp.Header("X-XSS-Protection", string(*cfg.XXSSProtection))
		}
		if cfg.HSTS != nil {
			resp = resp.Header("Strict-Transport-Security", cfg.HSTS.headerValue())
		}
		if cfg.ReferrerPolicy != nil {
			resp = resp.Header("Referrer-Policy", string(*cfg.ReferrerPolicy))
		}
		if cfg.PermissionsPolicy != "" {
			resp = resp.Header("Permissions-Policy", cfg.PermissionsPolicy)
		}
		if cfg.XDNSPrefetchControl != nil {
			value := "off"
			if *cfg.XDNSPrefetchControl {
				value = "on"
			}
			resp = resp.Header("X-DNS-Prefetch-Control", value)
		}
		if cfg.XPermittedCrossDomainPolicies != nil {
			resp = resp.Header("X-Permitted-Cross-Domain-Policies", string(*cfg.XPermittedCrossDomainPolicies))
		}
		if cfg.XDownloadOptions {
			resp = resp.Header("X-Download-Options", "noopen")
		}
		if cfg.CrossOriginEmbedderPolicy != nil {
			resp = resp.Header("Cross-Origin-Embedder-Policy", string(*cfg.CrossOriginEmbedderPolicy))
		}
		if cfg.CrossOriginOpenerPolicy != nil {
			resp = resp.Header("Cross-Origin-Opener-Policy", string(*cfg.CrossOriginOpenerPolicy))
		}
		if cfg.CrossOriginResourcePolicy != nil {
			resp = resp.Header("Cross-Origin-Resource-Policy", string(*cfg.CrossOriginResourcePolicy))
		}
		if cfg.OriginAgentCluster {
			resp = resp.Header("Origin-Agent-Cluster", "?1")
		}
		for name, value := range cfg.CustomHeaders {
			resp = resp.Header(name, value)
		}
		for _, name := range cfg.RemoveHeaders {
			resp = resp.WithoutHeader(name)
		}

		return resp
	}
}
