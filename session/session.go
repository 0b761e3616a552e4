// Copyright (c) 2024 Neomantra Corp

// Package session implements a single connection to the live gateway: the
// CRAM handshake, the line-oriented subscribe/start protocol, and the
// double-buffered binary record receive loop.
package session

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/quantfeed/lsg-go"
)

// state is the session's lifecycle per spec: FRESH -> CONNECTED ->
// AUTHENTICATED -> STREAMING -> CLOSED, with CLOSED reachable from any
// state via Close.
type state int32

const (
	stateFresh state = iota
	stateConnected
	stateAuthenticated
	stateStreaming
	stateClosed
)

// Handler receives decoded records and error notifications from a Session.
// Implementations must not retain record pointers past the call.
type Handler interface {
	lsg.Visitor
	// OnError is invoked for every Kind in §7. fatal mirrors Kind.Fatal();
	// a fatal error has already put the session into stateClosed by the
	// time this is called.
	OnError(err *lsg.Error, fatal bool)
}

// Session owns one TCP connection to the gateway. It is not safe for
// concurrent use: Connect, Start, and Get are expected to run on a single
// owning goroutine, matching the "strictly single-threaded" session engine
// of the concurrency model.
type Session struct {
	config  Config
	handler Handler
	logger  *slog.Logger

	gateway string
	port    uint16

	conn      net.Conn
	bufReader *bufio.Reader

	lsgVersion   string
	sessionID    string
	tsOutEnabled bool

	state state

	bufCapacity int
	buffers     [2][]byte
	carry       []byte
	completions chan ioCompletion
	closing     chan struct{}

	metrics *metrics
}

const gatewayPort = 13000
const gatewayHostSuffix = ".lsg.databento.com"

// Init creates a Session bound to config and handler. It performs no I/O.
func Init(config Config, handler Handler) (*Session, error) {
	if err := config.validate(); err != nil {
		return nil, newFatal(lsg.AuthDenied, "Init", err)
	}
	if handler == nil {
		return nil, newFatal(lsg.AuthDenied, "Init", errors.New("handler is nil"))
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.Client == "" {
		config.Client = "Go " + ClientVersion
	}
	rcvBuf := config.RcvBufBytes
	if rcvBuf <= 0 {
		rcvBuf = DefaultRcvBytes
	}
	config.RcvBufBytes = rcvBuf

	return &Session{
		config:      config,
		handler:     handler,
		logger:      logger,
		gateway:     datasetToHostname(config.Dataset) + gatewayHostSuffix,
		port:        gatewayPort,
		bufCapacity: rcvBuf,
		closing:     make(chan struct{}),
		state:       stateFresh,
		metrics:     newMetrics(),
	}, nil
}

// datasetToHostname forms the gateway hostname by replacing every '.' in
// the dataset name with '-'.
func datasetToHostname(dataset string) string {
	out := make([]byte, len(dataset))
	for i := 0; i < len(dataset); i++ {
		if dataset[i] == '.' {
			out[i] = '-'
		} else {
			out[i] = dataset[i]
		}
	}
	return string(out)
}

// Gateway returns the resolved gateway hostname.
func (s *Session) Gateway() string { return s.gateway }

// Port returns the gateway TCP port.
func (s *Session) Port() uint16 { return s.port }

// LsgVersion returns the gateway version string received during handshake.
func (s *Session) LsgVersion() string { return s.lsgVersion }

// SessionID returns the gateway-issued session ID from a successful auth.
func (s *Session) SessionID() string { return s.sessionID }

func (s *Session) currentState() state {
	return state(atomic.LoadInt32((*int32)(&s.state)))
}

func (s *Session) setState(v state) {
	atomic.StoreInt32((*int32)(&s.state), int32(v))
}

// Close terminates the connection and releases buffers. Safe to call from
// any state, including after a failed Connect. Per §4.2.4 it MUST NOT
// invoke callbacks.
func (s *Session) Close() error {
	prev := s.currentState()
	if prev == stateClosed {
		return nil
	}
	s.setState(stateClosed)

	select {
	case <-s.closing:
	default:
		close(s.closing)
	}

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	// drain any in-flight completions so the reader goroutines don't block
	// forever trying to deliver to a channel nobody will read again.
	if s.completions != nil {
		for {
			select {
			case <-s.completions:
			default:
				goto drained
			}
		}
	drained:
	}
	s.buffers[0] = nil
	s.buffers[1] = nil
	s.carry = nil
	return err
}

func newFatal(kind lsg.Kind, op string, err error) *lsg.Error {
	return lsg.NewError(kind, op, err)
}

// reportError builds an *lsg.Error for kind/op/err, notifies the handler,
// and (for a fatal Kind) transitions the session to stateClosed.
func (s *Session) reportError(kind lsg.Kind, op string, err error) *lsg.Error {
	e := newFatal(kind, op, err)
	fatal := kind.Fatal()
	if fatal {
		s.setState(stateClosed)
	}
	s.metrics.observeError(kind)
	s.handler.OnError(e, fatal)
	return e
}

// MaxControlLineLength bounds a single handshake/control line, mirroring
// the teacher's buffered-reader sizing for the line-oriented protocol.
const MaxControlLineLength = 24 * 1024

func newLineReader(conn net.Conn) *bufio.Reader {
	return bufio.NewReaderSize(conn, MaxControlLineLength)
}
