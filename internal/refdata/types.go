// types.go
package refdata

import "github.com/xtding233/craft-odds/internal/cost"

// Index is a string-keyed map that remembers insertion order.
// Reference files are enumerated in document order, which Go maps lose.
type Index[V any] struct {
	keys []string
	m    map[string]V
}

// Get returns the value stored under key and whether it exists.
func (ix Index[V]) Get(key string) (V, bool) {
	v, ok := ix.m[key]
	return v, ok
}

// Keys returns the keys in insertion order. Callers must not modify it.
func (ix Index[V]) Keys() []string { return ix.keys }

// Len reports the number of keys.
func (ix Index[V]) Len() int { return len(ix.keys) }

func (ix *Index[V]) put(key string, v V) {
	if ix.m == nil {
		ix.m = make(map[string]V)
	}
	if _, ok := ix.m[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.m[key] = v
}

// LevelChance is one entry of a level table.
type LevelChance struct {
	Key     string  // threshold as written in the source, e.g. "5"
	Level   float64 // numeric threshold
	Percent float64 // 0..100
}

// Leaf is the data attached to one (option, slot, race, rank) context.
type Leaf struct {
	SlotCount int
	Levels    []LevelChance // document order; nil means no level table
}

// HasLevels reports whether the leaf carries a level table.
func (l *Leaf) HasLevels() bool { return l != nil && l.Levels != nil }

type (
	RankTable   = Index[*Leaf]
	RaceTable   = Index[*RankTable]
	SlotTable   = Index[*RaceTable]
	OptionTable = Index[*SlotTable]
)

// Tool holds every option table of one crafting tool.
type Tool struct {
	Name    string
	Options OptionTable
}

// Option returns the slot table of option, if the tool has one.
func (t *Tool) Option(option string) (*SlotTable, bool) {
	if t == nil {
		return nil, false
	}
	return t.Options.Get(option)
}

// Leaf walks option → slot → race → rank, checking existence at each level.
func (t *Tool) Leaf(option, slot, race, rank string) (*Leaf, bool) {
	slots, ok := t.Option(option)
	if !ok {
		return nil, false
	}
	races, ok := slots.Get(slot)
	if !ok {
		return nil, false
	}
	ranks, ok := races.Get(race)
	if !ok {
		return nil, false
	}
	return ranks.Get(rank)
}

// Rank describes a rank name and whether it is shown by default.
type Rank struct {
	Name    string
	Visible bool
}

// Store is an immutable snapshot of the reference data.
type Store struct {
	Version string
	tools   Index[*Tool]
	ranks   []Rank
	prices  map[string]cost.Price
}

// Tools returns the tools in manifest order.
func (s *Store) Tools() []*Tool {
	if s == nil {
		return nil
	}
	out := make([]*Tool, 0, s.tools.Len())
	for _, name := range s.tools.Keys() {
		t, _ := s.tools.Get(name)
		out = append(out, t)
	}
	return out
}

// Tool looks a tool up by name.
func (s *Store) Tool(name string) (*Tool, bool) {
	if s == nil {
		return nil, false
	}
	return s.tools.Get(name)
}

// Ranks returns the rank list declared by the manifest.
func (s *Store) Ranks() []Rank {
	if s == nil {
		return nil
	}
	return append([]Rank(nil), s.ranks...)
}

// Price returns the configured price of one attempt with tool.
func (s *Store) Price(tool string) (cost.Price, bool) {
	if s == nil {
		return cost.Price{}, false
	}
	p, ok := s.prices[tool]
	return p, ok
}

// Walk calls fn for every leaf in enumeration order.
func (s *Store) Walk(fn func(tool, option, slot, race, rank string, leaf *Leaf)) {
	for _, t := range s.Tools() {
		for _, option := range t.Options.Keys() {
			slots, _ := t.Options.Get(option)
			for _, slot := range slots.Keys() {
				races, _ := slots.Get(slot)
				for _, race := range races.Keys() {
					ranks, _ := races.Get(race)
					for _, rank := range ranks.Keys() {
						leaf, _ := ranks.Get(rank)
						fn(t.Name, option, slot, race, rank, leaf)
					}
				}
			}
		}
	}
}
