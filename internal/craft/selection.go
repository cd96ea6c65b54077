package craft

import "github.com/xtding233/craft-odds/internal/refdata"

// Selections is the editable list of wanted options. Every method returns a
// new list and leaves the receiver untouched.
type Selections []Selection

func (s Selections) clone() Selections {
	return append(Selections(nil), s...)
}

// Add appends an empty row.
func (s Selections) Add() Selections {
	return append(s.clone(), Selection{})
}

// Remove drops row i. Out-of-range indexes are ignored.
func (s Selections) Remove(i int) Selections {
	if i < 0 || i >= len(s) {
		return s.clone()
	}
	out := make(Selections, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// SetOption puts option in row i and clears its level. It is refused, with
// the list returned unchanged, when another row already holds option.
func (s Selections) SetOption(i int, option string) (Selections, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	for j, other := range s {
		if j != i && other.Option == option {
			return s, false
		}
	}
	out := s.clone()
	out[i] = Selection{Option: option}
	return out, true
}

// SetLevel sets the minimum level of row i.
func (s Selections) SetLevel(i int, level string) (Selections, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	out := s.clone()
	out[i].Level = level
	return out, true
}

// Complete reports whether the list can be computed: at least one row and
// every row has both an option and a level.
func (s Selections) Complete() bool {
	if len(s) == 0 {
		return false
	}
	for _, sel := range s {
		if sel.Option == "" || sel.Level == "" {
			return false
		}
	}
	return true
}

// OptionChoices lists the options row i may switch to: every known option
// except those chosen in other rows.
func (s Selections) OptionChoices(store *refdata.Store, i int) []string {
	taken := make(map[string]bool, len(s))
	for j, sel := range s {
		if j != i && sel.Option != "" {
			taken[sel.Option] = true
		}
	}
	var out []string
	for _, option := range ListAllOptions(store) {
		if !taken[option] {
			out = append(out, option)
		}
	}
	return out
}
