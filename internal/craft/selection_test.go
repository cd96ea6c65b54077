package craft_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/xtding233/craft-odds/internal/craft"
)

func TestSelectionsEditing(t *testing.T) {
	var s craft.Selections
	if s.Complete() {
		t.Fatalf("empty list must not be complete")
	}
	s = s.Add().Add()
	if len(s) != 2 || s.Complete() {
		t.Fatalf("two blank rows: %+v", s)
	}

	s, ok := s.SetOption(0, "A")
	if !ok {
		t.Fatalf("SetOption refused")
	}
	s, _ = s.SetLevel(0, "5")
	s, _ = s.SetOption(1, "B")
	s, _ = s.SetLevel(1, "9")
	if !s.Complete() {
		t.Fatalf("filled rows should be complete: %+v", s)
	}

	dup, ok := s.SetOption(1, "A")
	if ok || !reflect.DeepEqual(dup, s) {
		t.Fatalf("duplicate option must be refused unchanged, got %+v", dup)
	}

	changed, ok := s.SetOption(1, "C")
	if !ok || changed[1].Level != "" {
		t.Fatalf("changing option must clear its level: %+v", changed)
	}
	if s[1].Option != "B" {
		t.Fatalf("receiver mutated: %+v", s)
	}

	removed := s.Remove(0)
	if len(removed) != 1 || removed[0].Option != "B" {
		t.Fatalf("Remove(0): %+v", removed)
	}
	if len(s.Remove(9)) != 2 {
		t.Fatalf("out-of-range Remove must keep rows")
	}
	if _, ok := s.SetLevel(5, "1"); ok {
		t.Fatalf("out-of-range SetLevel must fail")
	}
}

func TestOptionChoicesExcludeOtherRows(t *testing.T) {
	s := craft.Selections{{Option: "A", Level: "5"}, {Option: "B"}}
	got := s.OptionChoices(sampleStore(), 1)
	if !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("row 1 choices: %v", got)
	}
	got = s.OptionChoices(sampleStore(), 0)
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("row 0 choices: %v", got)
	}
}

func TestSelectionLevelFromJSON(t *testing.T) {
	cases := []struct {
		in   string
		want craft.Selection
	}{
		{`{"option":"A","level":"5"}`, craft.Selection{Option: "A", Level: "5"}},
		{`{"option":"A","level":5}`, craft.Selection{Option: "A", Level: "5"}},
		{`{"option":"A","level":7.5}`, craft.Selection{Option: "A", Level: "7.5"}},
		{`{"option":"A","level":null}`, craft.Selection{Option: "A"}},
		{`{"option":"A"}`, craft.Selection{Option: "A"}},
	}
	for _, tc := range cases {
		var got craft.Selection
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{
		`{"option":"A","level":true}`,
		`{"option":"A","level":[5]}`,
		`{"option":"A","level":"5","extra":1}`,
	} {
		var got craft.Selection
		if err := json.Unmarshal([]byte(bad), &got); err == nil {
			t.Fatalf("%s: expected error, got %+v", bad, got)
		}
	}
}
