// Package craft computes how many crafting attempts it takes, on average, to
// roll a wanted set of options on an item.
//
// A craft draws DrawSize option slots out of the slots a tool offers for a
// given item slot type, race and rank, then rolls a level for each drawn
// option. Scan evaluates every such context in a reference snapshot and Rank
// orders the hits by expected attempts.
package craft

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DrawSize is the number of option slots drawn per craft.
const DrawSize = 3

// MaxSelections is the most options one craft can satisfy.
const MaxSelections = DrawSize

// Selection is one wanted option and the minimum level it must roll.
// Level is kept as text, the way the form submits it; JSON input may carry
// it as a number or a string.
type Selection struct {
	Option string `json:"option"`
	Level  string `json:"level"`
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Option string          `json:"option"`
		Level  json.RawMessage `json:"level"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	level, err := levelText(raw.Level)
	if err != nil {
		return err
	}
	*s = Selection{Option: raw.Option, Level: level}
	return nil
}

// levelText returns the text of a JSON string or number level.
func levelText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("level must be a number or a string, got %s", raw)
	}
	return n.String(), nil
}

// Context identifies one (tool, slot type, race, rank) combination.
type Context struct {
	Tool     string `json:"tool"`
	SlotType string `json:"slot_type"`
	Race     string `json:"race"`
	Rank     string `json:"rank"`
}

// Result is one context that can satisfy the selections.
type Result struct {
	Context
	Probability   float64 `json:"probability"`
	ExpectedTries float64 `json:"expected_tries"`
}

// criterion is a Selection with its level parsed.
type criterion struct {
	option string
	level  float64
}
