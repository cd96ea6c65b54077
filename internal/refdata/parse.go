package refdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrMalformedTool = errors.New("malformed tool data")

// Field names used by the tool files. The Korean names are the ones the game
// data ships with; the English ones are accepted for hand-written fixtures.
var (
	slotCountFields   = []string{"개수", "slot_count"}
	levelChanceFields = []string{"레벨별확률", "level_chances"}
)

// ParseTool decodes one tool file:
//
//	option → slot type → race → rank → {"개수": n, "레벨별확률": {"5": "20", ...}}
//
// Object key order is preserved.
func ParseTool(name string, data []byte) (*Tool, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", ErrMalformedTool, name)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: %s: top level must be an object", ErrMalformedTool, name)
	}

	b := NewBuilder("")
	b.AddTool(name)
	var perr error
	fail := func(format string, args ...any) bool {
		perr = fmt.Errorf("%w: %s: %s", ErrMalformedTool, name, fmt.Sprintf(format, args...))
		return false
	}

	root.ForEach(func(option, slots gjson.Result) bool {
		if !slots.IsObject() {
			return fail("option %q must be an object", option.String())
		}
		slots.ForEach(func(slot, races gjson.Result) bool {
			if !races.IsObject() {
				return fail("%s/%s must be an object", option.String(), slot.String())
			}
			races.ForEach(func(race, ranks gjson.Result) bool {
				if !ranks.IsObject() {
					return fail("%s/%s/%s must be an object", option.String(), slot.String(), race.String())
				}
				ranks.ForEach(func(rank, node gjson.Result) bool {
					path := strings.Join([]string{option.String(), slot.String(), race.String(), rank.String()}, "/")
					leaf, err := parseLeaf(node)
					if err != nil {
						return fail("%s: %v", path, err)
					}
					b.AddLeaf(name, option.String(), slot.String(), race.String(), rank.String(), leaf)
					return true
				})
				return perr == nil
			})
			return perr == nil
		})
		return perr == nil
	})
	if perr != nil {
		return nil, perr
	}

	t, _ := b.Build().Tool(name)
	return t, nil
}

func parseLeaf(node gjson.Result) (*Leaf, error) {
	if !node.IsObject() {
		return nil, errors.New("rank entry must be an object")
	}
	leaf := &Leaf{}

	if v, ok := firstField(node, slotCountFields); ok {
		n, err := parseInt(v)
		if err != nil {
			return nil, fmt.Errorf("slot count: %w", err)
		}
		leaf.SlotCount = n
	}

	v, ok := firstField(node, levelChanceFields)
	if !ok {
		return leaf, nil
	}
	if !v.IsObject() {
		return nil, errors.New("level table must be an object")
	}
	leaf.Levels = []LevelChance{}
	var lerr error
	v.ForEach(func(key, pct gjson.Result) bool {
		lvl, err := strconv.ParseFloat(strings.TrimSpace(key.String()), 64)
		if err != nil {
			lerr = fmt.Errorf("level %q is not numeric", key.String())
			return false
		}
		p, err := ParsePercent(pct)
		if err != nil {
			lerr = fmt.Errorf("level %q: %w", key.String(), err)
			return false
		}
		leaf.Levels = append(leaf.Levels, LevelChance{Key: key.String(), Level: lvl, Percent: p})
		return true
	})
	if lerr != nil {
		return nil, lerr
	}
	return leaf, nil
}

// ParsePercent accepts 20, "20", "20.5%" and " 20 % ".
func ParsePercent(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("percentage %q is not numeric", v.Str)
		}
		return p, nil
	default:
		return 0, fmt.Errorf("percentage must be a number or string, got %s", v.Type)
	}
}

func parseInt(v gjson.Result) (int, error) {
	switch v.Type {
	case gjson.Number:
		if v.Num != float64(int(v.Num)) {
			return 0, fmt.Errorf("%v is not an integer", v.Num)
		}
		return int(v.Num), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v.Str)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %s", v.Type)
	}
}

func firstField(node gjson.Result, names []string) (gjson.Result, bool) {
	for _, n := range names {
		if v := node.Get(n); v.Exists() {
			return v, true
		}
	}
	return gjson.Result{}, false
}
