package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Side is the contract side of a prediction-market position.
type Side int

const (
	SideYes Side = iota
	SideNo
)

// ParseSide accepts the producer's YES/NO notation (case-insensitive).
func ParseSide(raw string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "YES":
		return SideYes, nil
	case "NO":
		return SideNo, nil
	default:
		return SideYes, fmt.Errorf("invalid position side %q", raw)
	}
}

func (s Side) String() string {
	if s == SideNo {
		return "NO"
	}
	return "YES"
}

// OrderType is the lowercase contract type the venue order API expects.
func (s Side) OrderType() string {
	if s == SideNo {
		return "no"
	}
	return "yes"
}

// RelevantPrice picks the price leg this side trades against.
func (s Side) RelevantPrice(yesPrice, noPrice int) int {
	if s == SideNo {
		return noPrice
	}
	return yesPrice
}

// MoveSince reports the directional fractional move from entry: positive is
// favorable for the side, negative adverse. YES profits from rising prices,
// NO from falling ones.
func (s Side) MoveSince(entry, current int) float64 {
	if entry <= 0 {
		return 0
	}
	change := float64(current-entry) / float64(entry)
	if s == SideNo {
		return -change
	}
	return change
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	side, err := ParseSide(raw)
	if err != nil {
		return err
	}
	*s = side
	return nil
}
