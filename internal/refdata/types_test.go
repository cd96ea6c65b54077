package refdata

import "testing"

func TestLeafLookupChecksEveryLevel(t *testing.T) {
	b := NewBuilder("v")
	b.AddLeaf("tool", "A", "Weapon", "Human", "1", &Leaf{SlotCount: 8})
	store := b.Build()
	tool, ok := store.Tool("tool")
	if !ok {
		t.Fatal("tool missing")
	}

	if _, ok := tool.Leaf("A", "Weapon", "Human", "1"); !ok {
		t.Fatal("existing leaf not found")
	}
	misses := [][4]string{
		{"B", "Weapon", "Human", "1"},
		{"A", "Armor", "Human", "1"},
		{"A", "Weapon", "Elf", "1"},
		{"A", "Weapon", "Human", "2"},
	}
	for _, m := range misses {
		if _, ok := tool.Leaf(m[0], m[1], m[2], m[3]); ok {
			t.Fatalf("lookup %v should miss", m)
		}
	}

	var nilTool *Tool
	if _, ok := nilTool.Leaf("A", "Weapon", "Human", "1"); ok {
		t.Fatal("nil tool should miss")
	}
}

func TestWalkOrder(t *testing.T) {
	b := NewBuilder("v")
	b.AddLeaf("t2", "A", "W", "H", "1", &Leaf{})
	b.AddLeaf("t1", "A", "W", "H", "2", &Leaf{})
	b.AddLeaf("t1", "A", "W", "H", "1", &Leaf{})
	b.AddLeaf("t2", "A", "W", "H", "1", &Leaf{SlotCount: 9}) // overwrite keeps position

	var got []string
	b.Build().Walk(func(tool, _, _, _, rank string, _ *Leaf) {
		got = append(got, tool+":"+rank)
	})
	want := []string{"t2:1", "t1:2", "t1:1"}
	if len(got) != len(want) {
		t.Fatalf("walk = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk = %v want %v", got, want)
		}
	}
}

func TestBuilderRankDedup(t *testing.T) {
	b := NewBuilder("v")
	b.AddRank("1랭크", false)
	b.AddRank("1랭크", true)
	ranks := b.Build().Ranks()
	if len(ranks) != 1 || !ranks[0].Visible {
		t.Fatalf("ranks = %+v", ranks)
	}
}
