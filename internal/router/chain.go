package router

import "github.com/BuxoGabriel/http-server/internal/protocol"

// Chain runs middleware in registration order, each one receiving the
// builder returned by the previous one. The router is normally last.
type Chain struct {
	stages []Middleware
}

func NewChain(stages ...Middleware) *Chain {
	return &Chain{stages: append([]Middleware(nil), stages...)}
}

// Use appends a stage. Call it only while building the chain.
func (c *Chain) Use(mw Middleware) *Chain {
	c.stages = append(c.stages, mw)
	return c
}

func (c *Chain) Len() int {
	return len(c.stages)
}

func (c *Chain) Apply(req *protocol.Request, b protocol.ResponseBuilder) protocol.ResponseBuilder {
	for _, mw := range c.stages {
		b = mw.Apply(req, b)
	}
	return b
}

// Respond runs the chain from a fresh builder and finalizes the result.
func (c *Chain) Respond(req *protocol.Request) *protocol.Response {
	return c.Apply(req, protocol.NewResponseBuilder()).Build()
}
