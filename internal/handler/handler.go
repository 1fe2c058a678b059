package handler

import (
	"fmt"

	"github.com/BuxoGabriel/http-server/internal/content"
	"github.com/BuxoGabriel/http-server/internal/protocol"
	"github.com/BuxoGabriel/http-server/internal/router"
)

// Options selects the optional middleware around the routes.
type Options struct {
	// ServerHeader is sent as the Server header when non-empty.
	ServerHeader string
	// Gzip enables Compress around the router.
	Gzip bool
}

// HTTPHandler turns a parsed request into a response. It is built once at
// startup and shared by every worker.
type HTTPHandler struct {
	chain *router.Chain
}

// NewHTTPHandler renders the pages, registers the default routes and
// assembles the middleware chain.
func NewHTTPHandler(pages *content.Renderer, opts Options) (*HTTPHandler, error) {
	routes, err := NewRoutes(pages)
	if err != nil {
		return nil, err
	}

	var endpoint router.Middleware = routes
	if opts.Gzip {
		endpoint = Compress(endpoint)
	}

	chain := router.NewChain()
	if opts.ServerHeader != "" {
		chain.Use(ServerHeader(opts.ServerHeader))
	}
	chain.Use(AccessLog(endpoint))

	return &HTTPHandler{chain: chain}, nil
}

// Respond runs the chain for req.
func (h *HTTPHandler) Respond(req *protocol.Request) *protocol.Response {
	return h.chain.Respond(req)
}

// NewRoutes builds the route table. Every page is rendered here, once.
//
//	GET /             home page
//	GET /hello        greeting page
//	GET /api          api index  (api sub-router)
//	GET /api/version  version    (api sub-router)
func NewRoutes(pages *content.Renderer) (*router.Router, error) {
	home, err := pages.Render(content.Page{
		Title: "Home",
		Body:  "<h1>Hello World!</h1>",
	})
	if err != nil {
		return nil, err
	}
	hello, err := pages.Render(content.Page{
		Title: "Hello",
		Body:  "<p>Hello from the worker pool!</p>",
	})
	if err != nil {
		return nil, err
	}

	api := router.NewRouter().
		Static("/api", protocol.MethodGet, `{"routes":["/api/version"]}`).
		Static("/api/version", protocol.MethodGet, fmt.Sprintf(`{"protocol":%q}`, protocol.HTTP11))

	return router.NewRouter().
		Static("/", protocol.MethodGet, home).
		Static("/hello", protocol.MethodGet, hello).
		Handle("/api", protocol.MethodGet, api).
		Handle("/api/version", protocol.MethodGet, api), nil
}

// ServerHeader adds a Server header to every response.
func ServerHeader(value string) router.Middleware {
	return router.MiddlewareFunc(func(_ *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
		return b.WithHeader("Server", value)
	})
}

// AccessLog runs next and logs the outcome on the request's logger.
func AccessLog(next router.Middleware) router.Middleware {
	return router.MiddlewareFunc(func(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
		b = next.Apply(req, b)
		req.Logger.Info().
			Int("status", b.Status.Code()).
			Int("bytes", len(b.Body)).
			Msg("request handled")
		return b
	})
}
