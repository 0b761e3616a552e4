// Copyright (c) 2024 Neomantra Corp
//
// Package discovery wraps a single session with stateful bookkeeping that
// turns a stream of symbol-mapping and security-definition messages into
// a sorted table of optionable roots cross-referenced to their
// definitions. The per-message logic is grounded on the reference
// client's option-discovery worker.
package discovery

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/session"
)

// State is the discovery context's monotone lifecycle variable.
type State int32

const (
	StateNotStarted State = iota
	StateConnected
	StateSubscribed
	StateXref
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateConnected:
		return "connected"
	case StateSubscribed:
		return "subscribed"
	case StateXref:
		return "xref"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// definitionSchema and definitionSType are the schema/symbology the
// reference client subscribes with: the whole-dataset definition replay,
// by parent symbol, requesting every symbol.
const definitionSchema = "definition"

const definitionSType = lsg.SType_Parent

// Discovery owns one session, the roots table, and the instrument ->
// definition index. It exclusively drives the session from its own
// worker goroutine once Start is called.
type Discovery struct {
	logger  *slog.Logger
	sess    *session.Session
	roots   *RootsTable
	defs    *DefinitionIndex
	metrics *metrics

	state int32 // State, atomic

	errMu sync.Mutex
	error string

	stop      int32
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New constructs a Discovery bound to cfg but performs no I/O; Dataset is
// typically "OPRA.PILLAR".
func New(logger *slog.Logger, cfg session.Config) (*Discovery, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Discovery{
		logger:  logger,
		roots:   NewRootsTable(),
		defs:    NewDefinitionIndex(),
		metrics: newMetrics(),
	}
	s, err := session.Init(cfg, &discoveryHandler{d: d})
	if err != nil {
		return nil, err
	}
	d.sess = s
	return d, nil
}

// State returns the current lifecycle state.
func (d *Discovery) State() State {
	return State(atomic.LoadInt32(&d.state))
}

func (d *Discovery) setState(v State) {
	atomic.StoreInt32(&d.state, int32(v))
}

// Error returns the captured error text, valid only once State is
// StateError.
func (d *Discovery) Error() string {
	d.errMu.Lock()
	defer d.errMu.Unlock()
	return d.error
}

func (d *Discovery) setError(msg string) {
	d.errMu.Lock()
	if d.error == "" {
		d.error = msg
	}
	d.errMu.Unlock()
	d.setState(StateError)
}

// Roots returns the roots table. Reading it is only safe once State is
// StateDone or after Destroy has joined the worker.
func (d *Discovery) Roots() *RootsTable {
	return d.roots
}

// Start connects the session synchronously, then spawns the worker
// goroutine that subscribes to the whole-dataset definition replay and
// processes messages until XREF, ERROR, or Destroy.
func (d *Discovery) Start(apiKey string) error {
	if err := d.sess.Connect(); err != nil {
		return err
	}
	d.setState(StateConnected)

	d.wg.Add(1)
	go d.worker()
	return nil
}

func (d *Discovery) worker() {
	defer d.wg.Done()

	if err := d.sess.Start(definitionSchema, definitionSType, nil, "", true); err != nil {
		return // session already reported the error via OnError
	}
	d.setState(StateSubscribed)

	for {
		if atomic.LoadInt32(&d.stop) != 0 {
			return
		}
		if d.State() != StateSubscribed {
			break
		}
		if err := d.sess.Get(); err != nil {
			return
		}
	}

	if d.State() != StateXref {
		return
	}
	d.crossReference()
	d.setState(StateDone)
}

// crossReference runs once, single-threaded, after every option and
// definition message that will arrive has arrived: for each discovered
// option it scans the matching bucket for an exact instrument_id match.
func (d *Discovery) crossReference() {
	for i := 0; i < d.roots.Len(); i++ {
		root := d.roots.Root(i)
		for j := range root.Options {
			opt := &root.Options[j]
			opt.Sdef = d.defs.Find(opt.InstrumentID)
		}
	}
	d.metrics.rootsDiscovered.Set(float64(d.roots.Len()))
	if d.roots.Len() > 0 {
		sample := d.roots.Root(0)
		venue := lsg.Venue(0)
		if len(sample.Options) > 0 {
			venue = sample.Options[0].Publisher.Venue()
		}
		d.logger.Info("[discovery.crossReference] complete", "roots", d.roots.Len(), "venue", venue.String())
	}
}

// Destroy sets the stop flag, joins the worker, closes the session, then
// releases the roots table and definition index. Safe to call from any
// state, idempotently.
func (d *Discovery) Destroy() {
	d.closeOnce.Do(func() {
		atomic.StoreInt32(&d.stop, 1)
		d.wg.Wait()
		d.sess.Close()
		d.roots.Release()
		d.defs.Release()
	})
}

// discoveryHandler adapts message delivery from session.Handler into the
// discovery context's per-message bookkeeping.
type discoveryHandler struct {
	lsg.NullVisitor
	d *Discovery
}

func (h *discoveryHandler) OnSymbolMapping(rec *lsg.SymbolMappingMsg) error {
	sym, ok := lsg.ParseOsiSymbol(rec.StypeOutSymbol)
	if !ok {
		return nil
	}
	h.d.roots.AddOption(sym.Root, Option{
		InstrumentID: rec.Header.InstrumentID,
		Publisher:    rec.Header.Publisher(),
		Symbol:       sym,
	})
	h.d.metrics.optionsDiscovered.Inc()
	return nil
}

func (h *discoveryHandler) OnSecurityDefinition(rec *lsg.SecurityDefinitionMsg) error {
	h.d.defs.Add(*rec)
	h.d.metrics.sdefsReceived.Inc()
	return nil
}

func (h *discoveryHandler) OnSystemMsg(rec *lsg.SystemMsg) error {
	if rec.Msg == lsg.FinishedDefinitionReplayText {
		h.d.setState(StateXref)
	}
	return nil
}

func (h *discoveryHandler) OnErrorMsg(rec *lsg.ErrorMsg) error {
	h.d.setError(rec.Msg)
	return nil
}

func (h *discoveryHandler) OnError(err *lsg.Error, fatal bool) {
	if fatal {
		h.d.setError(err.Error())
	}
}
