package refdata

import "github.com/xtding233/craft-odds/internal/cost"

// Builder assembles a Store. Insertion order becomes enumeration order.
// A Builder must not be used after Build.
type Builder struct {
	store *Store
}

// NewBuilder starts an empty snapshot tagged with version.
func NewBuilder(version string) *Builder {
	return &Builder{store: &Store{Version: version}}
}

// AddTool registers a tool even if it ends up with no options.
func (b *Builder) AddTool(name string) *Tool {
	if t, ok := b.store.tools.Get(name); ok {
		return t
	}
	t := &Tool{Name: name}
	b.store.tools.put(name, t)
	return t
}

// AddRank appends a rank to the manifest rank list.
func (b *Builder) AddRank(name string, visible bool) {
	for i := range b.store.ranks {
		if b.store.ranks[i].Name == name {
			b.store.ranks[i].Visible = visible
			return
		}
	}
	b.store.ranks = append(b.store.ranks, Rank{Name: name, Visible: visible})
}

// SetPrice attaches an attempt price to a tool.
func (b *Builder) SetPrice(tool string, p cost.Price) {
	if b.store.prices == nil {
		b.store.prices = make(map[string]cost.Price)
	}
	b.store.prices[tool] = p
}

// AddLeaf stores leaf under tool/option/slot/race/rank, creating parents.
func (b *Builder) AddLeaf(tool, option, slot, race, rank string, leaf *Leaf) {
	t := b.AddTool(tool)
	slots, ok := t.Options.Get(option)
	if !ok {
		slots = &SlotTable{}
		t.Options.put(option, slots)
	}
	races, ok := slots.Get(slot)
	if !ok {
		races = &RaceTable{}
		slots.put(slot, races)
	}
	ranks, ok := races.Get(race)
	if !ok {
		ranks = &RankTable{}
		races.put(race, ranks)
	}
	ranks.put(rank, leaf)
}

// mergeTool copies a parsed tool into the snapshot under name.
func (b *Builder) mergeTool(name string, src *Tool) {
	b.AddTool(name)
	for _, option := range src.Options.Keys() {
		slots, _ := src.Options.Get(option)
		for _, slot := range slots.Keys() {
			races, _ := slots.Get(slot)
			for _, race := range races.Keys() {
				ranks, _ := races.Get(race)
				for _, rank := range ranks.Keys() {
					leaf, _ := ranks.Get(rank)
					b.AddLeaf(name, option, slot, race, rank, leaf)
				}
			}
		}
	}
}

// Build returns the finished snapshot.
func (b *Builder) Build() *Store {
	s := b.store
	b.store = nil
	return s
}
