package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BuxoGabriel/http-server/internal/config"
	"github.com/BuxoGabriel/http-server/internal/pool"
	"github.com/BuxoGabriel/http-server/internal/protocol"
	"github.com/BuxoGabriel/http-server/internal/tcp"
)

// ErrServerClosed is returned by Serve after Shutdown.
var ErrServerClosed = errors.New("server: closed")

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Responder produces the response for a parsed request. It is called
// concurrently from every worker.
type Responder interface {
	Respond(req *protocol.Request) *protocol.Response
}

// Server accepts connections and runs each one as a single job on its
// worker pool: parse one request, respond, close.
type Server struct {
	addr        string
	handler     Responder
	parser      protocol.Parser
	readTimeout time.Duration
	pool        *pool.Pool
	log         zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServer starts the worker pool; connections are only accepted once
// Serve or ListenAndServe is called.
func NewServer(cfg *config.Config, handler Responder, logger zerolog.Logger) *Server {
	return &Server{
		addr:        cfg.Addr(),
		handler:     handler,
		parser:      protocol.Parser{MaxBodyBytes: cfg.MaxBodyBytes},
		readTimeout: cfg.ReadTimeout,
		pool:        pool.New(cfg.Workers, logger),
		log:         logger.With().Str("component", "server").Logger(),
	}
}

func (s *Server) ListenAndServe() error {
	ln, err := tcp.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections from ln until Shutdown. Accept errors are
// logged and never stop the loop.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.log.Info().Stringer("addr", ln.Addr()).Int("workers", s.pool.Size()).Msg("listening")
	s.log.Warn().Msg("job queue is unbounded; a connection flood grows it without limit")
	if s.readTimeout == 0 {
		s.log.Warn().Msg("no read timeout; a stalled client holds its worker until it disconnects")
	}

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				if s.shuttingDown() {
					return ErrServerClosed
				}
				return err
			}
			delay = nextAcceptDelay(delay)
			s.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept failed")
			time.Sleep(delay)
			continue
		}
		delay = 0

		if err := s.pool.Submit(func() { s.ServeConn(conn) }); err != nil {
			s.log.Debug().Err(err).Msg("dropping connection during shutdown")
			conn.Close()
		}
	}
}

// nextAcceptDelay doubles the pause after each consecutive accept error,
// starting at 5ms and capped at one second.
func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}

// ServeConn handles exactly one request on conn and closes it. A request
// that fails to parse is dropped without writing anything.
func (s *Server) ServeConn(conn net.Conn) {
	defer conn.Close()
	log := s.log.With().Stringer("remote", conn.RemoteAddr()).Logger()

	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			log.Warn().Err(err).Msg("failed to set read deadline")
		}
	}

	req, err := s.parser.Parse(conn)
	if err != nil {
		log.Debug().Err(err).Msg("dropping connection: unparsable request")
		return
	}
	req.RemoteAddr = conn.RemoteAddr()
	req.Logger = log.With().Str("method", req.Method.String()).Str("path", req.Path).Logger()
	if e := log.Debug(); e.Enabled() {
		e.Str("request", req.String()).Msg("received request")
	}

	res := s.handler.Respond(req)
	if _, err := res.WriteTo(conn); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// Shutdown closes the listener and drains the worker pool. Connections
// already queued are still served.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		ln.Close()
	}
	return s.pool.Shutdown(ctx)
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
