// Package monitor implements the counter/telemetry service: a request/reply
// loop over a REP socket, with every state change broadcast on a PUB socket.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-zeromq/zmq4"
	"go.uber.org/zap"

	"github.com/joe-el-khoury/fbzmq/internal/domain"
	"github.com/joe-el-khoury/fbzmq/internal/ports"
	"github.com/joe-el-khoury/fbzmq/pkg/observer"
)

// State is the lifecycle phase of the server loop.
type State int32

const (
	// StateCreated means endpoints are configured but not yet bound.
	StateCreated State = iota
	// StateRunning means both endpoints are bound and the loop is serving.
	StateRunning
	// StateStopping means Stop was called and the loop is winding down.
	StateStopping
	// StateStopped means the loop has exited and the sockets are closed.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Server owns the request/reply and publish endpoints and drives the
// dispatch cycle. Exactly one goroutine may call Run; Stop and
// WaitUntilRunning are the only methods safe to call concurrently with it.
type Server struct {
	repAddr string
	pubAddr string
	logger  *zap.Logger

	router  *Router
	subject *observer.Subject[domain.Publication]

	ctx    context.Context
	cancel context.CancelFunc
	rep    zmq4.Socket
	pub    zmq4.Socket

	state     atomic.Int32
	runCalled atomic.Bool
	stopOnce  sync.Once
	running   chan struct{}
	quit      chan struct{}
	stopped   chan struct{}

	boundMu  sync.Mutex
	boundRep string
	boundPub string
}

// New configures a server for the given endpoints. Nothing is bound until
// Run.
func New(repAddr, pubAddr string, reg ports.CounterRegistry, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		repAddr: repAddr,
		pubAddr: pubAddr,
		logger:  logger,
		router:  NewRouter(reg, logger),
		subject: observer.NewSubject[domain.Publication](),
		ctx:     ctx,
		cancel:  cancel,
		rep:     zmq4.NewRep(ctx),
		pub:     zmq4.NewPub(ctx),
		running: make(chan struct{}),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	s.subject.SetErrorHandler(func(err error) {
		logger.Warn("publication dropped", zap.Error(err))
	})
	s.subject.Attach(NewPublisher(s.pub, logger))
	s.state.Store(int32(StateCreated))
	return s
}

// Attach registers in-process observers that receive every publication in
// emission order, alongside the PUB socket.
func (s *Server) Attach(observers ...observer.Observer[domain.Publication]) {
	s.subject.Attach(observers...)
}

// State reports the current lifecycle phase.
func (s *Server) State() State {
	return State(s.state.Load())
}

// RequestAddr returns the bound request/reply endpoint once the server is
// running. Useful with port-0 binds.
func (s *Server) RequestAddr() string {
	s.boundMu.Lock()
	defer s.boundMu.Unlock()
	if s.boundRep != "" {
		return s.boundRep
	}
	return s.repAddr
}

// PublishAddr returns the bound publish endpoint once the server is running.
func (s *Server) PublishAddr() string {
	s.boundMu.Lock()
	defer s.boundMu.Unlock()
	if s.boundPub != "" {
		return s.boundPub
	}
	return s.pubAddr
}

// WaitUntilRunning blocks until the loop reaches RUNNING, or until the server
// shuts down without ever running (Stop before Run, or a failed bind).
func (s *Server) WaitUntilRunning() {
	select {
	case <-s.running:
	case <-s.quit:
	case <-s.stopped:
	}
}

// Stop asks the loop to exit. It is safe to call from any goroutine, any
// number of times, and is a no-op before Run. Run returns once the loop has
// observed the signal; a request already read off the wire is answered first.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.State() == StateRunning {
			s.state.Store(int32(StateStopping))
		}
		close(s.quit)
		s.cancel()
	})
}

// Run binds both endpoints, transitions to RUNNING, and serves requests until
// Stop. The returned error is non-nil only when a bind fails; every
// per-request failure is logged and recovered.
func (s *Server) Run() error {
	if !s.runCalled.CompareAndSwap(false, true) {
		return fmt.Errorf("monitor Run called twice (state %s)", s.State())
	}
	defer close(s.stopped)

	if s.stopRequested() {
		s.state.Store(int32(StateStopped))
		return nil
	}

	if err := s.rep.Listen(s.repAddr); err != nil {
		s.shutdown()
		return fmt.Errorf("bind request endpoint %s: %w", s.repAddr, err)
	}
	if err := s.pub.Listen(s.pubAddr); err != nil {
		s.shutdown()
		return fmt.Errorf("bind publish endpoint %s: %w", s.pubAddr, err)
	}

	s.boundMu.Lock()
	s.boundRep = boundEndpoint(s.repAddr, s.rep)
	s.boundPub = boundEndpoint(s.pubAddr, s.pub)
	s.boundMu.Unlock()

	defer func() {
		s.shutdown()
		s.logger.Info("monitor stopped")
	}()

	s.state.Store(int32(StateRunning))
	close(s.running)
	s.logger.Info("monitor running",
		zap.String("rep", s.RequestAddr()),
		zap.String("pub", s.PublishAddr()),
	)

	for {
		msg, err := s.rep.Recv()
		if err != nil {
			if s.stopRequested() || s.ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("receive request", zap.Error(err))
			continue
		}

		// Publications precede the reply so that every emitted delta
		// reflects already-committed state.
		reply, pub := s.router.Route(msg.Bytes())
		if pub != nil {
			s.subject.Publish(s.ctx, *pub)
		}
		if err := s.rep.Send(zmq4.NewMsg(reply)); err != nil {
			if s.stopRequested() {
				return nil
			}
			s.logger.Warn("send reply", zap.Error(err))
		}

		if s.stopRequested() {
			return nil
		}
	}
}

// shutdown releases both sockets and finalizes the lifecycle.
func (s *Server) shutdown() {
	s.cancel()
	s.pub.Close()
	s.rep.Close()
	s.state.Store(int32(StateStopped))
}

func (s *Server) stopRequested() bool {
	select {
	case <-s.quit:
		return true
	default:
		return false
	}
}

// boundEndpoint resolves the actual listen address for tcp endpoints bound
// with port 0.
func boundEndpoint(requested string, sock zmq4.Socket) string {
	if addr := sock.Addr(); addr != nil && strings.HasPrefix(requested, "tcp://") {
		return "tcp://" + addr.String()
	}
	return requested
}
