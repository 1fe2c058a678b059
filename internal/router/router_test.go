package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BuxoGabriel/http-server/internal/protocol"
)

const homePage = "<h1>home</h1>"

func defaultRouter() *Router {
	return NewRouter().Static("/", protocol.MethodGet, homePage)
}

func TestRouter_RegisteredRoute(t *testing.T) {
	res := NewChain(defaultRouter()).Respond(protocol.NewRequest(protocol.MethodGet, "/"))

	assert.Equal(t, "HTTP/1.1 200 OK", res.StatusLine)
	assert.Equal(t, homePage, res.Body)
	assert.Equal(t, []protocol.HeaderField{{Name: "Content-Length", Value: "13"}}, res.Headers)
}

func TestRouter_Misses(t *testing.T) {
	tests := []struct {
		name   string
		method protocol.Method
		path   string
	}{
		{"unknown path", protocol.MethodGet, "/missing"},
		{"unregistered method", protocol.MethodPost, "/"},
		{"no trailing slash normalization", protocol.MethodGet, "/hello/"},
		{"no prefix matching", protocol.MethodGet, "/hello/world"},
		{"empty path", protocol.MethodGet, ""},
	}

	r := defaultRouter().Static("/hello", protocol.MethodGet, "hi")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewChain(r).Respond(protocol.NewRequest(tt.method, tt.path))
			assert.Equal(t, "HTTP/1.1 404 Not Found", res.StatusLine)
			assert.Empty(t, res.Headers)
			assert.Empty(t, res.Body)
		})
	}
}

func TestRouter_MethodsOnSamePath(t *testing.T) {
	r := NewRouter().
		Static("/item", protocol.MethodGet, "read").
		Static("/item", protocol.MethodPut, "write")

	get := NewChain(r).Respond(protocol.NewRequest(protocol.MethodGet, "/item"))
	put := NewChain(r).Respond(protocol.NewRequest(protocol.MethodPut, "/item"))
	del := NewChain(r).Respond(protocol.NewRequest(protocol.MethodDelete, "/item"))

	assert.Equal(t, "read", get.Body)
	assert.Equal(t, "write", put.Body)
	assert.Equal(t, "HTTP/1.1 404 Not Found", del.StatusLine)
}

func TestRouter_NestedRouter(t *testing.T) {
	api := NewRouter().
		Static("/api", protocol.MethodGet, "api index").
		Static("/api/version", protocol.MethodGet, "1.0")
	root := defaultRouter().
		Handle("/api", protocol.MethodGet, api).
		Handle("/api/version", protocol.MethodGet, api)

	assert.Equal(t, "api index", NewChain(root).Respond(protocol.NewRequest(protocol.MethodGet, "/api")).Body)
	assert.Equal(t, "1.0", NewChain(root).Respond(protocol.NewRequest(protocol.MethodGet, "/api/version")).Body)

	// The sub-router is only reachable through the exact paths it was
	// registered under.
	root2 := NewRouter().Handle("/api", protocol.MethodGet, api)
	res := NewChain(root2).Respond(protocol.NewRequest(protocol.MethodGet, "/api/version"))
	assert.Equal(t, "HTTP/1.1 404 Not Found", res.StatusLine)
}

func TestRouter_LaterRegistrationWins(t *testing.T) {
	r := NewRouter().
		Static("/", protocol.MethodGet, "old").
		Static("/", protocol.MethodGet, "new")

	assert.Equal(t, "new", NewChain(r).Respond(protocol.NewRequest(protocol.MethodGet, "/")).Body)
}

func TestEndpoint_ByteLength(t *testing.T) {
	res := NewChain(NewEndpoint("héllo")).Respond(protocol.NewRequest(protocol.MethodGet, "/"))

	v, _ := protocol.ResponseBuilder{Headers: res.Headers}.HeaderValue("Content-Length")
	assert.Equal(t, "6", v)
}

func TestChain_Order(t *testing.T) {
	tag := func(name string) Middleware {
		return MiddlewareFunc(func(_ *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
			return b.WithHeader("X-Stage", name)
		})
	}

	c := NewChain(tag("first"), tag("second"))
	c.Use(defaultRouter())
	assert.Equal(t, 3, c.Len())

	res := c.Respond(protocol.NewRequest(protocol.MethodGet, "/"))
	assert.Equal(t, []protocol.HeaderField{
		{Name: "X-Stage", Value: "first"},
		{Name: "X-Stage", Value: "second"},
		{Name: "Content-Length", Value: "13"},
	}, res.Headers)
}

func TestChain_StagesAfterMissStillRun(t *testing.T) {
	after := MiddlewareFunc(func(_ *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
		return b.WithHeader("X-After", "1")
	})

	res := NewChain(defaultRouter(), after).Respond(protocol.NewRequest(protocol.MethodGet, "/nope"))
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nX-After: 1\r\n\r\n", res.String())
}

func TestChain_Empty(t *testing.T) {
	res := NewChain().Respond(protocol.NewRequest(protocol.MethodGet, "/"))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", res.String())
}
