package server

import (
	"net/http"

	"github.com/aras-services/weave/pkg/weave/router"
)

// httpHandler adapts a *router.Router to net/http.Handler: the only
// seam between the framework's ctx-based pipeline and the standard
// library's connection-handling machinery. Everything upstream of this
// (TLS termination, keep-alive, HTTP/1.1 vs h2 framing, graceful
// connection drain) is delegated to net/http.Server rather than
// reimplemented, matching how idiomatic Go services are built.
type httpHandler struct {
	router *router.Router
}

func (h httpHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	resp := h.router.Handle(req)
	resp.Write(w)
}
