// Copyright (c) 2024 Neomantra Corp

// Package supervisor creates, runs, and tears down a growable set of
// independent session engines, each hidden behind its own worker goroutine,
// and exposes aggregate subscription progress and orderly shutdown.
package supervisor

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/session"
)

// Handler receives messages and errors forwarded from every session the
// supervisor owns. handle identifies which session produced the callback,
// letting one Handler implementation fan in N sessions.
type Handler interface {
	OnQuote(handle int, record *lsg.BboMsg) error
	OnCmbp1(handle int, record *lsg.Cmbp1Msg) error
	OnSymbolMapping(handle int, record *lsg.SymbolMappingMsg) error
	OnSecurityDefinition(handle int, record *lsg.SecurityDefinitionMsg) error
	OnErrorMsg(handle int, record *lsg.ErrorMsg) error
	OnSystemMsg(handle int, record *lsg.SystemMsg) error
	OnRawRecord(handle int, record *lsg.RawRecord) error
	OnStreamEnd(handle int) error
	OnError(handle int, err *lsg.Error, fatal bool)
}

// SubscribeRequest bundles the arguments a worker needs to start streaming
// after its session's handshake has already completed.
type SubscribeRequest struct {
	Schema  string
	StypeIn lsg.SType
	Symbols []string
	Suffix  string
	Replay  bool
}

// Supervisor owns an ordered collection of sessions and their worker
// goroutines. The zero value is not usable; construct with New.
type Supervisor struct {
	logger  *slog.Logger
	handler Handler
	metrics *metrics

	mu       sync.Mutex
	sessions []*session.Session
	corrIDs  []string

	numSubscribed int32
	stop          int32

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New constructs a Supervisor that forwards to handler.
func New(logger *slog.Logger, handler Handler) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		logger:  logger,
		handler: handler,
		metrics: newMetrics(),
	}
}

// NumSessions returns the number of sessions created so far.
func (sv *Supervisor) NumSessions() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return len(sv.sessions)
}

// IsFullySubscribed reports whether every session's subscribe call has
// returned successfully.
func (sv *Supervisor) IsFullySubscribed() bool {
	return atomic.LoadInt32(&sv.numSubscribed) == int32(sv.NumSessions())
}

// ConnectAndStart appends a new session, performs its handshake
// synchronously on the caller's goroutine, and spawns a worker goroutine
// that subscribes and then runs an unbounded Get loop. It returns the
// session's handle (a stable index into the supervisor's session list).
func (sv *Supervisor) ConnectAndStart(cfg session.Config, req SubscribeRequest) (int, error) {
	corrID := uuid.NewString()

	sv.mu.Lock()
	handle := len(sv.sessions)
	sv.mu.Unlock()

	adapter := &sessionAdapter{sv: sv, handle: handle}
	s, err := session.Init(cfg, adapter)
	if err != nil {
		return -1, fmt.Errorf("supervisor: init session %d: %w", handle, err)
	}

	sv.mu.Lock()
	sv.sessions = append(sv.sessions, s)
	sv.corrIDs = append(sv.corrIDs, corrID)
	sv.mu.Unlock()

	sv.metrics.sessionsCreated.Inc()

	if err := s.Connect(); err != nil {
		return handle, fmt.Errorf("supervisor: connect session %d: %w", handle, err)
	}
	sv.logger.Info("[supervisor.ConnectAndStart] connected", "handle", handle, "corr_id", corrID, "dataset", cfg.Dataset)

	sv.wg.Add(1)
	go sv.runWorker(handle, s, req, corrID)

	return handle, nil
}

// ConnectAndSubscribe is the typed, spec-shaped entry point:
// connect_and_start(api_key, dataset, ts_out, schema, symbology, symbols,
// suffix, replay).
func (sv *Supervisor) ConnectAndSubscribe(
	apiKey string, dataset string, tsOut bool,
	schema string, stypeIn lsg.SType, symbols []string, suffix string, replay bool,
) (int, error) {
	cfg := session.Config{
		ApiKey:    apiKey,
		Dataset:   dataset,
		SendTsOut: tsOut,
		Logger:    sv.logger,
	}
	return sv.ConnectAndStart(cfg, SubscribeRequest{
		Schema: schema, StypeIn: stypeIn, Symbols: symbols, Suffix: suffix, Replay: replay,
	})
}

// runWorker performs the subscribe call and then loops calling Get until
// the stop flag is observed or Get reports a fatal error.
func (sv *Supervisor) runWorker(handle int, s *session.Session, req SubscribeRequest, corrID string) {
	defer sv.wg.Done()

	if err := s.Start(req.Schema, req.StypeIn, req.Symbols, req.Suffix, req.Replay); err != nil {
		sv.logger.Error("[supervisor.runWorker] subscribe failed", "handle", handle, "corr_id", corrID, "err", err)
		return
	}
	atomic.AddInt32(&sv.numSubscribed, 1)
	sv.metrics.sessionsSubscribed.Inc()

	for {
		if atomic.LoadInt32(&sv.stop) != 0 {
			return
		}
		if err := s.Get(); err != nil {
			sv.metrics.getErrors.Inc()
			return
		}
		if atomic.LoadInt32(&sv.stop) != 0 {
			return
		}
	}
}

// CloseAll sets the stop flag, waits for every worker to exit its Get loop,
// then closes every underlying session. Idempotent.
func (sv *Supervisor) CloseAll() {
	sv.closeOnce.Do(func() {
		atomic.StoreInt32(&sv.stop, 1)
		sv.wg.Wait()

		sv.mu.Lock()
		defer sv.mu.Unlock()
		for i, s := range sv.sessions {
			if err := s.Close(); err != nil {
				sv.logger.Warn("[supervisor.CloseAll] close failed", "handle", i, "err", err)
			}
		}
	})
}

// sessionAdapter implements session.Handler for one session, forwarding
// every callback to the owning Supervisor's Handler with the session's
// handle substituted for the session reference, per §4.3.
type sessionAdapter struct {
	sv     *Supervisor
	handle int
}

func (a *sessionAdapter) OnQuote(r *lsg.BboMsg) error {
	a.sv.metrics.recordsDispatched.Inc()
	return a.sv.handler.OnQuote(a.handle, r)
}
func (a *sessionAdapter) OnCmbp1(r *lsg.Cmbp1Msg) error {
	a.sv.metrics.recordsDispatched.Inc()
	return a.sv.handler.OnCmbp1(a.handle, r)
}
func (a *sessionAdapter) OnSymbolMapping(r *lsg.SymbolMappingMsg) error {
	a.sv.metrics.recordsDispatched.Inc()
	return a.sv.handler.OnSymbolMapping(a.handle, r)
}
func (a *sessionAdapter) OnSecurityDefinition(r *lsg.SecurityDefinitionMsg) error {
	a.sv.metrics.recordsDispatched.Inc()
	return a.sv.handler.OnSecurityDefinition(a.handle, r)
}
func (a *sessionAdapter) OnErrorMsg(r *lsg.ErrorMsg) error {
	return a.sv.handler.OnErrorMsg(a.handle, r)
}
func (a *sessionAdapter) OnSystemMsg(r *lsg.SystemMsg) error {
	return a.sv.handler.OnSystemMsg(a.handle, r)
}
func (a *sessionAdapter) OnRawRecord(r *lsg.RawRecord) error {
	a.sv.metrics.recordsDispatched.Inc()
	return a.sv.handler.OnRawRecord(a.handle, r)
}
func (a *sessionAdapter) OnStreamEnd() error {
	return a.sv.handler.OnStreamEnd(a.handle)
}
func (a *sessionAdapter) OnError(err *lsg.Error, fatal bool) {
	if fatal {
		a.sv.metrics.fatalErrors.Inc()
	}
	a.sv.handler.OnError(a.handle, err, fatal)
}
