// Package cors wires the CORS contract onto go-chi/cors. The allow-list
// shapes (origins/headers as Any, an explicit List, or Mirror-the-request)
// mirror the teacher's original CORS config; building the actual
// preflight/response headers is left to go-chi/cors rather than
// reimplemented by hand.
package cors

import (
	"net/http"

	chicors "github.com/go-chi/cors"
)

// OriginMode selects how the allowed-origins set is resolved.
type OriginMode int

const (
	// OriginAny allows every origin ("*").
	OriginAny OriginMode = iota
	// OriginList allows only the origins in Config.Origins.
	OriginList
	// OriginMirror reflects whatever origin the request sent.
	OriginMirror
)

// HeaderMode selects how the allowed-request-headers set is resolved.
type HeaderMode int

const (
	// HeaderAny allows any requested header.
	HeaderAny HeaderMode = iota
	// HeaderList allows only the headers in Config.Headers.
	HeaderList
	// HeaderMirror reflects whatever headers the preflight requested.
	HeaderMirror
)

// DefaultMethods are the seven standard HTTP methods the framework routes.
var DefaultMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions,
}

// Config is the CORS policy, independent of go-chi's Options shape so
// callers can express "mirror the origin" or "allow any header" without
// reaching into go-chi/cors directly.
type Config struct {
	OriginMode OriginMode
	Origins    []string // only consulted when OriginMode == OriginList

	AllowedMethods []string

	HeaderMode HeaderMode
	Headers    []string // only consulted when HeaderMode == HeaderList

	ExposedHeaders []string
	AllowCredentials bool
	MaxAgeSeconds    *int
	AllowPrivateNetwork bool

	// SendVary documents the original config's allowance to suppress the
	// Vary header; go-chi/cors always emits it, so this field is kept for
	// parity with the source config shape but is not wired to a switch.
	SendVary bool
}

// DefaultConfig matches the original defaults: any origin, all seven
// standard methods, any header, no credentials, a day-long max-age,
// private-network responses disabled, Vary sent.
func DefaultConfig() Config {
	maxAge := 86400
	return Config{
		OriginMode:          OriginAny,
		AllowedMethods:      DefaultMethods,
		HeaderMode:          HeaderAny,
		AllowCredentials:    false,
		MaxAgeSeconds:       &maxAge,
		AllowPrivateNetwork: false,
		SendVary:            true,
	}
}

// Permissive allows any origin/header, all standard methods, a day-long
// max-age, and opts into private-network responses.
func Permissive() Config {
	cfg := DefaultConfig()
	cfg.AllowPrivateNetwork = true
	return cfg
}

// Strict starts from an empty allow-list for everything: no origins, no
// methods, no headers, no max-age, private-network disabled. Callers build
// up from here with explicit allow-lists.
func Strict() Config {
	return Config{
		OriginMode:          OriginList,
		Origins:             nil,
		AllowedMethods:      nil,
		HeaderMode:          HeaderList,
		Headers:             nil,
		AllowCredentials:    false,
		MaxAgeSeconds:       nil,
		AllowPrivateNetwork: false,
		SendVary:            true,
	}
}

// Build translates Config into go-chi/cors' Options.
func Build(cfg Config) chicors.Options {
	opts := chicors.Options{
		AllowedMethods:      cfg.AllowedMethods,
		ExposedHeaders:      cfg.ExposedHeaders,
		AllowCredentials:    cfg.AllowCredentials,
		AllowPrivateNetwork: cfg.AllowPrivateNetwork,
	}

	switch cfg.OriginMode {
	case OriginAny:
		opts.AllowedOrigins = []string{"*"}
	case OriginMirror:
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	default: // OriginList
		opts.AllowedOrigins = cfg.Origins
	}

	switch cfg.HeaderMode {
	case HeaderAny, HeaderMirror:
		// go-chi/cors treats a literal "*" as "reflect whatever the
		// preflight asked for", which is exactly Mirror's semantics; Any
		// and Mirror therefore collapse to the same wildcard here.
		opts.AllowedHeaders = []string{"*"}
	default: // HeaderList
		opts.AllowedHeaders = cfg.Headers
	}

	if cfg.MaxAgeSeconds != nil {
		opts.MaxAge = *cfg.MaxAgeSeconds
	} else {
		opts.MaxAge = 0
	}

	return opts
}

// New builds the net/http middleware for the given policy. CORS binds at
// the transport layer, outside the ctx-based pipeline, because preflight
// requests must be answered before a route is even matched.
func New(cfg Config) func(http.Handler) http.Handler {
	return chicors.Handler(Build(cfg))
}
