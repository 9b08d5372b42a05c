package exit

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"parlay/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/santhosh-tekuri/jsonschema/v5"
	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ruleFileSchema constrains the exit_rules file so a bad edit never reaches
// the evaluator: a reload that fails validation keeps the previous rules.
const ruleFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["exit_rules"],
  "properties": {
    "exit_rules": {
      "type": "object",
      "properties": {
        "expiry_cutoff_minutes": {"type": "number", "minimum": 0},
        "dynamic_stop_pct": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
        "partial_profit_pct": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
        "partial_close_ratio": {"type": "number", "exclusiveMinimum": 0, "maximum": 1}
      }
    }
  }
}`

var compiledRuleFileSchema = jsonschema.MustCompileString("exit_rules.json", ruleFileSchema)

type ruleFile struct {
	ExitRules struct {
		ExpiryCutoffMinutes float64 `mapstructure:"expiry_cutoff_minutes" yaml:"expiry_cutoff_minutes"`
		DynamicStopPct      float64 `mapstructure:"dynamic_stop_pct" yaml:"dynamic_stop_pct"`
		PartialProfitPct    float64 `mapstructure:"partial_profit_pct" yaml:"partial_profit_pct"`
		PartialCloseRatio   float64 `mapstructure:"partial_close_ratio" yaml:"partial_close_ratio"`
	} `mapstructure:"exit_rules" yaml:"exit_rules"`
}

// Registry loads exit rules from a YAML file and hot-reloads them on file
// change. It implements RuleProvider.
type Registry struct {
	path string
	v    *viper.Viper

	mu       sync.RWMutex
	rules    Rules
	loadedAt time.Time
}

// NewRegistry reads the rule file and starts watching it for updates.
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("exit rule registry requires a path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read exit rules failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.v.ReadInConfig(); err != nil {
			logger.Errorf("exit rules re-read failed (%s): %v", evt.Name, err)
			return
		}
		if err := r.reload(); err != nil {
			logger.Errorf("exit rules reload failed: %v", err)
			return
		}
		logger.Infof("exit rules reloaded from %s", r.path)
	})
	v.WatchConfig()
	return r, nil
}

// Rules returns the active rule set.
func (r *Registry) Rules() Rules {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules
}

// Summary renders the effective rules as YAML for startup logging.
func (r *Registry) Summary() string {
	rules := r.Rules()
	var rf ruleFile
	rf.ExitRules.ExpiryCutoffMinutes = rules.ExpiryCutoff.Minutes()
	rf.ExitRules.DynamicStopPct = rules.DynamicStopPct
	rf.ExitRules.PartialProfitPct = rules.PartialProfitPct
	rf.ExitRules.PartialCloseRatio = rules.PartialCloseRatio
	out, err := yaml.Marshal(rf)
	if err != nil {
		return ""
	}
	return string(out)
}

func (r *Registry) reload() error {
	settings := r.v.AllSettings()
	if err := validateRuleSettings(settings); err != nil {
		return err
	}
	var rf ruleFile
	if err := r.v.Unmarshal(&rf); err != nil {
		return fmt.Errorf("parsing exit rules failed: %w", err)
	}
	next := DefaultRules()
	if rf.ExitRules.ExpiryCutoffMinutes > 0 {
		next.ExpiryCutoff = time.Duration(rf.ExitRules.ExpiryCutoffMinutes * float64(time.Minute))
	}
	if rf.ExitRules.DynamicStopPct > 0 {
		next.DynamicStopPct = rf.ExitRules.DynamicStopPct
	}
	if rf.ExitRules.PartialProfitPct > 0 {
		next.PartialProfitPct = rf.ExitRules.PartialProfitPct
	}
	if rf.ExitRules.PartialCloseRatio > 0 {
		next.PartialCloseRatio = rf.ExitRules.PartialCloseRatio
	}
	r.mu.Lock()
	r.rules = next
	r.loadedAt = time.Now()
	r.mu.Unlock()
	return nil
}

func validateRuleSettings(settings map[string]any) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("normalizing exit rules failed: %w", err)
	}
	value, err := jsonschemav6.UnmarshalJSON(strings.NewReader(string(encoded)))
	if err != nil {
		return err
	}
	if err := compiledRuleFileSchema.Validate(value); err != nil {
		return fmt.Errorf("exit rules schema violation: %w", err)
	}
	return nil
}
