package types

import (
	"encoding/json"
	"fmt"
)

// Pair is a single src -> dst filesystem operation.
// It serializes as a two element JSON array.
type Pair struct {
	Src string
	Dst string
}

// MarshalJSON implements json.Marshaler
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Src, p.Dst})
}

// UnmarshalJSON implements json.Unmarshaler
func (p *Pair) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("expected [src, dst], got %d elements", len(parts))
	}
	p.Src, p.Dst = parts[0], parts[1]
	return nil
}

func (p Pair) String() string {
	return fmt.Sprintf("%s -> %s", p.Src, p.Dst)
}

// CommandSet groups the operations derived for one run.
//
// Mkdir is owned by the executor: it is recomputed right before execution
// and whatever was stored in it before is discarded.
type CommandSet struct {
	Mkdir []string `json:"mkdir"`
	Mv    []Pair   `json:"mv"`
	Ln    []Pair   `json:"ln"`
}

// NewCommandSet returns an empty command set.
func NewCommandSet() *CommandSet {
	return &CommandSet{
		Mkdir: []string{},
		Mv:    []Pair{},
		Ln:    []Pair{},
	}
}

// Normalize replaces nil buckets with empty ones so the set always
// serializes with arrays.
func (c *CommandSet) Normalize() {
	if c.Mkdir == nil {
		c.Mkdir = []string{}
	}
	if c.Mv == nil {
		c.Mv = []Pair{}
	}
	if c.Ln == nil {
		c.Ln = []Pair{}
	}
}

// IsEmpty reports whether there is nothing to move or link.
func (c *CommandSet) IsEmpty() bool {
	return len(c.Mv) == 0 && len(c.Ln) == 0
}
