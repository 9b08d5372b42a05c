package app

import (
	"fmt"
	"strings"

	"parlay/internal/config"
	"parlay/internal/strategy/exit"
)

// StartupSummary is printed once at boot so the operator can confirm the
// effective configuration at a glance.
type StartupSummary struct {
	Env           string
	VenueMode     string
	ExecutionMode string
	BaseContracts int
	HTTPAddr      string
	IntervalSecs  int
	RulesPath     string
	RulesSummary  string
	AuditLogPath  string
	DBPath        string
	TelegramOn    bool
}

func buildSummary(cfg *config.Config, registry *exit.Registry) *StartupSummary {
	s := &StartupSummary{
		Env:           cfg.App.Env,
		VenueMode:     cfg.Venue.Mode,
		ExecutionMode: cfg.Trading.ExecutionMode,
		BaseContracts: cfg.Trading.BaseContracts,
		HTTPAddr:      cfg.App.HTTPAddr,
		IntervalSecs:  cfg.Monitor.IntervalSeconds,
		RulesPath:     cfg.Monitor.RulesPath,
		AuditLogPath:  cfg.Store.AuditLogPath,
		DBPath:        cfg.Store.DBPath,
		TelegramOn:    cfg.Notify.Telegram.Enabled,
	}
	if registry != nil {
		s.RulesSummary = registry.Summary()
	}
	return s
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("STARTUP SUMMARY")/2, "STARTUP SUMMARY")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[RUNTIME]")
	fmt.Printf("  env:            %s\n", orDash(s.Env))
	fmt.Printf("  venue mode:     %s\n", orDash(s.VenueMode))
	fmt.Printf("  execution mode: %s\n", orDash(s.ExecutionMode))
	fmt.Printf("  base contracts: %d\n", s.BaseContracts)
	fmt.Printf("  http addr:      %s\n", orDash(s.HTTPAddr))
	fmt.Println()

	fmt.Println("[MONITOR]")
	fmt.Printf("  interval:   %ds\n", s.IntervalSecs)
	fmt.Printf("  rules file: %s\n", orDash(s.RulesPath))
	if s.RulesSummary != "" {
		fmt.Println("  effective rules:")
		for _, line := range strings.Split(strings.TrimRight(s.RulesSummary, "\n"), "\n") {
			fmt.Printf("    %s\n", line)
		}
	}
	fmt.Println()

	fmt.Println("[STORAGE & NOTIFY]")
	fmt.Printf("  audit log: %s\n", orDefault(s.AuditLogPath, "(in-memory)"))
	fmt.Printf("  positions: %s\n", orDefault(s.DBPath, "(disabled)"))
	fmt.Printf("  telegram:  %v\n", s.TelegramOn)
	fmt.Println(strings.Repeat("=", 80))
}

func orDash(v string) string { return orDefault(v, "-") }

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
