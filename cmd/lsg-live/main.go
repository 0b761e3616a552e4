// Copyright (c) 2024 Neomantra Corp
//
// NOTE: this incurs billing, handle with care!
//

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/relvacode/iso8601"
	"github.com/spf13/pflag"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/discovery"
	"github.com/quantfeed/lsg-go/session"
)

///////////////////////////////////////////////////////////////////////////////

type Config struct {
	ApiKey      string
	Dataset     string
	Schema      string
	StypeIn     string
	Symbols     []string
	ReplayStart time.Time
	Replay      bool
	Discover    bool
	MetricsAddr string
	Verbose     bool
}

///////////////////////////////////////////////////////////////////////////////

func main() {
	var config Config
	var startTimeArg string
	var showHelp bool

	pflag.StringVarP(&config.Dataset, "dataset", "d", "", "Dataset to subscribe to")
	pflag.StringVarP(&config.Schema, "schema", "s", "", "Schema to subscribe to")
	pflag.StringVarP(&config.StypeIn, "stype-in", "t", "raw_symbol", "Input symbology type")
	pflag.StringVarP(&config.ApiKey, "key", "k", "", "Databento API key (or set 'DATABENTO_API_KEY' envvar)")
	pflag.StringVarP(&startTimeArg, "replay-start", "r", "", "Any valid ISO 8601 time enables replay from the start of available data; the time itself is not sent (default: no replay)")
	pflag.StringVarP(&config.MetricsAddr, "metrics-addr", "m", "", "Address to serve Prometheus metrics on (e.g. ':9090'); empty disables")
	pflag.BoolVarP(&config.Discover, "discover", "x", false, "Run the option discovery engine instead of streaming a schema")
	pflag.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	config.Symbols = pflag.Args()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s -d <dataset> -s <schema> [opts] symbol1 symbol2 ...\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}

	if startTimeArg != "" {
		var err error
		config.ReplayStart, err = iso8601.ParseString(startTimeArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse --replay-start as ISO 8601 time: %s\n", err.Error())
			os.Exit(1)
		}
		config.Replay = true
	}

	if config.ApiKey == "" {
		config.ApiKey = os.Getenv(session.ApiKeyEnvVar)
		requireValOrExit(config.ApiKey, fmt.Sprintf("missing Databento API key, use --key or set %s envvar\n", session.ApiKeyEnvVar))
	}

	requireValOrExit(config.Dataset, "missing required --dataset")
	if !config.Discover {
		requireValOrExit(config.Schema, "missing required --schema")
		if len(config.Symbols) == 0 {
			fmt.Fprintf(os.Stderr, "requires at least one symbol argument (or --discover for the whole dataset)\n")
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	reg := prometheus.NewRegistry()
	if config.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(config.MetricsAddr, mux); err != nil {
				logger.Error("metrics server exited", "err", err)
			}
		}()
		logger.Info("serving metrics", "addr", config.MetricsAddr)
	}

	var err error
	if config.Discover {
		err = runDiscover(config, logger, reg)
	} else {
		err = runStream(config, logger, reg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

// requireValOrExit exits with an error message if `val` is empty.
func requireValOrExit(val string, errstr string) {
	if val == "" {
		fmt.Fprintf(os.Stderr, "%s\n", errstr)
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

// printingHandler logs quotes, CMBP-1 records, symbol mappings, gateway
// error and system messages, stream end and session errors at Info/Error
// level. Security definitions and passthrough RawRecords fall through to
// NullVisitor and are not logged. It is the CLI's lowest common denominator handler: real consumers are
// expected to implement session.Handler themselves.
type printingHandler struct {
	lsg.NullVisitor
	logger *slog.Logger
}

func (h *printingHandler) OnQuote(r *lsg.BboMsg) error {
	h.logger.Info("quote", "instrument_id", r.Header.InstrumentID, "venue", r.Header.Publisher().Venue().String(),
		"bid_px", r.BidPx, "ask_px", r.AskPx)
	return nil
}

func (h *printingHandler) OnCmbp1(r *lsg.Cmbp1Msg) error {
	h.logger.Info("cmbp1", "instrument_id", r.Header.InstrumentID, "venue", r.Header.Publisher().Venue().String(),
		"bid_px", r.BidPx, "ask_px", r.AskPx)
	return nil
}

func (h *printingHandler) OnSymbolMapping(r *lsg.SymbolMappingMsg) error {
	h.logger.Info("symbol_mapping", "instrument_id", r.Header.InstrumentID, "stype_out_symbol", r.StypeOutSymbol)
	return nil
}

func (h *printingHandler) OnErrorMsg(r *lsg.ErrorMsg) error {
	h.logger.Error("gateway error", "msg", r.Msg)
	return nil
}

func (h *printingHandler) OnSystemMsg(r *lsg.SystemMsg) error {
	h.logger.Info("system", "msg", r.Msg)
	return nil
}

func (h *printingHandler) OnStreamEnd() error {
	h.logger.Info("stream ended")
	return nil
}

func (h *printingHandler) OnError(err *lsg.Error, fatal bool) {
	h.logger.Error("session error", "kind", err.Kind.String(), "fatal", fatal, "err", err.Error())
}

///////////////////////////////////////////////////////////////////////////////

func runStream(config Config, logger *slog.Logger, reg prometheus.Registerer) error {
	stypeIn, err := lsg.ParseSType(config.StypeIn)
	if err != nil {
		return err
	}

	cfg := session.Config{
		Logger:    logger,
		ApiKey:    config.ApiKey,
		Dataset:   config.Dataset,
		SendTsOut: false,
		Verbose:   config.Verbose,
	}

	handler := &printingHandler{logger: logger}
	s, err := session.Init(cfg, handler)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	if reg != nil {
		if err := s.Register(reg); err != nil {
			logger.Warn("failed to register session metrics", "err", err)
		}
	}

	if err := s.Connect(); err != nil {
		return fmt.Errorf("failed to connect session: %w", err)
	}
	defer s.Close()

	if err := s.Start(config.Schema, stypeIn, config.Symbols, "", config.Replay); err != nil {
		return fmt.Errorf("failed to start streaming: %w", err)
	}

	for {
		if err := s.Get(); err != nil {
			return err
		}
	}
}

func runDiscover(config Config, logger *slog.Logger, reg prometheus.Registerer) error {
	cfg := session.Config{
		Logger:    logger,
		ApiKey:    config.ApiKey,
		Dataset:   config.Dataset,
		SendTsOut: false,
		Verbose:   config.Verbose,
	}

	d, err := discovery.New(logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to init discovery: %w", err)
	}
	if reg != nil {
		if err := d.Register(reg); err != nil {
			logger.Warn("failed to register discovery metrics", "err", err)
		}
	}
	defer d.Destroy()

	if err := d.Start(config.ApiKey); err != nil {
		return fmt.Errorf("failed to start discovery: %w", err)
	}

	for d.State() != discovery.StateDone && d.State() != discovery.StateError {
		time.Sleep(100 * time.Millisecond)
	}
	if d.State() == discovery.StateError {
		return fmt.Errorf("discovery failed: %s", d.Error())
	}

	roots := d.Roots()
	logger.Info("discovery complete", "roots", roots.Len())
	for i := 0; i < roots.Len(); i++ {
		root := roots.Root(i)
		logger.Info("root", "name", root.Root, "options", len(root.Options))
	}
	return nil
}
