package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TargetRange is the price band at which a full exit counts as a win.
// The recommendation producer emits it as "LOW-HIGH" in cents ("48-50").
type TargetRange struct {
	Low  int
	High int
}

// ParseTargetRange parses the producer's "LOW-HIGH" notation.
func ParseTargetRange(raw string) (TargetRange, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return TargetRange{}, fmt.Errorf("invalid target range %q: want LOW-HIGH", raw)
	}
	low, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TargetRange{}, fmt.Errorf("invalid target range low %q: %w", parts[0], err)
	}
	high, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TargetRange{}, fmt.Errorf("invalid target range high %q: %w", parts[1], err)
	}
	tr := TargetRange{Low: low, High: high}
	return tr, nil
}

// Contains reports whether price falls inside the band, inclusive.
func (tr TargetRange) Contains(price int) bool {
	return price >= tr.Low && price <= tr.High
}

func (tr TargetRange) String() string {
	return fmt.Sprintf("%d-%d", tr.Low, tr.High)
}

func (tr TargetRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(tr.String())
}

func (tr *TargetRange) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTargetRange(raw)
	if err != nil {
		return err
	}
	*tr = parsed
	return nil
}

// Recommendation is the immutable input produced by the recommendation
// engine. Field names mirror the producer's JSON payload.
type Recommendation struct {
	ID         string      `json:"id"`
	Ticker     string      `json:"asset"`
	Side       Side        `json:"position"`
	EntryPrice int         `json:"entryPrice"`
	Confidence int         `json:"confidence"`
	TargetExit TargetRange `json:"targetExit"`
	StopLoss   int         `json:"stopLoss"`
}

// Validate enforces price, side and range constraints before any sizing
// or order placement happens.
func (r Recommendation) Validate() error {
	if strings.TrimSpace(r.Ticker) == "" {
		return NewValidationError("asset", "ticker must not be empty")
	}
	if r.Side != SideYes && r.Side != SideNo {
		return NewValidationError("position", "must be YES or NO")
	}
	if r.EntryPrice < 1 || r.EntryPrice > 99 {
		return NewValidationError("entryPrice", "%d outside [1,99] cents", r.EntryPrice)
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return NewValidationError("confidence", "%d outside [0,100]", r.Confidence)
	}
	if r.TargetExit.Low < 1 || r.TargetExit.High > 99 || r.TargetExit.Low > r.TargetExit.High {
		return NewValidationError("targetExit", "%s not an ordered band within [1,99]", r.TargetExit)
	}
	if r.StopLoss < 1 || r.StopLoss > 99 {
		return NewValidationError("stopLoss", "%d outside [1,99] cents", r.StopLoss)
	}
	return nil
}
