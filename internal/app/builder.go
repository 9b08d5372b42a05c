package app

import (
	"fmt"
	"time"

	"parlay/internal/book"
	"parlay/internal/config"
	"parlay/internal/executor"
	"parlay/internal/monitor"
	"parlay/internal/notifier"
	"parlay/internal/perf"
	"parlay/internal/psych"
	"parlay/internal/store"
	"parlay/internal/store/auditlog"
	"parlay/internal/store/gormstore"
	"parlay/internal/strategy/exit"
	livehttp "parlay/internal/transport/http/live"
	"parlay/internal/venue"
)

// build assembles the full dependency graph. Stores come up first so a
// bad DB path fails fast, then the venue, then everything that feeds on
// them.
func build(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg}

	records, err := buildRecordStore(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("audit log: %w", err)
	}
	a.closers = append(a.closers, records.Close)

	var positions store.PositionStore
	if cfg.Store.DBPath != "" {
		gs, err := gormstore.New(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("position store: %w", err)
		}
		positions = gs
		a.closers = append(a.closers, gs.Close)
	}

	conn, err := buildConnector(cfg.Venue)
	if err != nil {
		return nil, fmt.Errorf("venue: %w", err)
	}

	var notify notifier.TextNotifier
	if cfg.Notify.Telegram.Enabled {
		notify = notifier.NewTelegram(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
	}

	state := psych.NewState()
	bk := book.New()
	a.exec = executor.NewManager(conn, bk, records, positions, state, notify, cfg.Trading.BaseContracts)

	var registry *exit.Registry
	var provider exit.RuleProvider
	if cfg.Monitor.RulesPath != "" {
		registry, err = exit.NewRegistry(cfg.Monitor.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("exit rules: %w", err)
		}
		provider = registry
	}
	evaluator := exit.NewEvaluator(provider)

	interval := time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
	a.monitor = monitor.New(conn, bk, a.exec, evaluator, interval)

	tracker := perf.NewTracker(records, state)
	router := livehttp.NewRouter(a.exec, records, tracker, registry, executor.Mode(cfg.Trading.ExecutionMode))
	a.liveHTTP, err = livehttp.NewServer(cfg.App.HTTPAddr, router)
	if err != nil {
		return nil, fmt.Errorf("live http: %w", err)
	}

	a.Summary = buildSummary(cfg, registry)
	return a, nil
}

func buildRecordStore(cfg config.StoreConfig) (store.RecordStore, error) {
	if cfg.AuditLogPath == "" {
		return store.NewMemoryRecordStore(), nil
	}
	return auditlog.New(cfg.AuditLogPath)
}

func buildConnector(cfg config.VenueConfig) (venue.Connector, error) {
	switch cfg.Mode {
	case "kalshi":
		return venue.NewKalshiClient(cfg)
	case "", "paper":
		return venue.NewPaperConnector(), nil
	default:
		return nil, fmt.Errorf("unknown venue mode %q", cfg.Mode)
	}
}
