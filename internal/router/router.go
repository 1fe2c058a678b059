package router

import (
	"strconv"

	"github.com/BuxoGabriel/http-server/internal/protocol"
)

// Middleware transforms an in-progress response for a request.
// Implementations must not keep per-request state between calls; one
// instance is shared by every worker.
type Middleware interface {
	Apply(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder
}

// MiddlewareFunc adapts a plain function to Middleware.
type MiddlewareFunc func(*protocol.Request, protocol.ResponseBuilder) protocol.ResponseBuilder

func (f MiddlewareFunc) Apply(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
	return f(req, b)
}

// Router dispatches on the exact path string and then the method.
// Routes are registered before serving starts and never change afterwards.
type Router struct {
	routes map[string]map[protocol.Method]Middleware
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[string]map[protocol.Method]Middleware),
	}
}

// Handle registers mw for method on path, replacing any earlier
// registration for the same pair. mw may itself be a *Router.
func (r *Router) Handle(path string, method protocol.Method, mw Middleware) *Router {
	methods, ok := r.routes[path]
	if !ok {
		methods = make(map[protocol.Method]Middleware)
		r.routes[path] = methods
	}
	methods[method] = mw
	return r
}

// Static registers an Endpoint serving content for method on path.
func (r *Router) Static(path string, method protocol.Method, content string) *Router {
	return r.Handle(path, method, NewEndpoint(content))
}

// Apply looks up req.Path and req.Method. A miss at either level is
// answered with StatusNotFound and nothing else is touched.
func (r *Router) Apply(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
	methods, ok := r.routes[req.Path]
	if !ok {
		return b.WithStatus(protocol.StatusNotFound)
	}
	mw, ok := methods[req.Method]
	if !ok {
		return b.WithStatus(protocol.StatusNotFound)
	}
	return mw.Apply(req, b)
}

// Endpoint answers with content fixed at registration time.
type Endpoint struct {
	content string
	length  string
}

func NewEndpoint(content string) *Endpoint {
	return &Endpoint{
		content: content,
		length:  strconv.Itoa(len(content)),
	}
}

func (e *Endpoint) Apply(_ *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
	return b.WithStatus(protocol.StatusOK).
		WithHeader("Content-Length", e.length).
		WithHTML(e.content)
}
