package plant

import (
	"testing"
)

func first(int) int { return 0 }

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 30 {
		t.Fatalf("catalog has %d species", c.Len())
	}
	for i, s := range c.All() {
		if s.ID != i+1 || s.Name == "" || s.Color == "" || s.Center == "" {
			t.Fatalf("species %d = %+v", i, s)
		}
	}
}

func TestLoadCatalogRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"empty":     "species: []",
		"zero id":   "species:\n  - id: 0\n    name: Rose",
		"duplicate": "species:\n  - id: 1\n    name: Rose\n  - id: 1\n    name: Tulip",
		"malformed": "species: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCatalog([]byte(doc)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestChoose(t *testing.T) {
	c, err := LoadCatalog([]byte(`
species:
  - {id: 1, name: Rose, color: red, center: yellow}
  - {id: 2, name: Tulip, color: pink, center: yellow}
  - {id: 3, name: Daisy, color: white, center: yellow}
`))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		requested int
		unlocked  map[int]bool
		want      int
	}{
		{"locked request kept", 2, nil, 2},
		{"unlocked request substituted", 1, map[int]bool{1: true}, 2},
		{"only locked species picked", 1, map[int]bool{1: true, 2: true}, 3},
		{"unknown request picks locked", 99, map[int]bool{1: true}, 2},
		{"no request picks locked", 0, map[int]bool{2: true}, 1},
		{"all unlocked keeps request", 2, map[int]bool{1: true, 2: true, 3: true}, 2},
		{"all unlocked without request", 0, map[int]bool{1: true, 2: true, 3: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Choose(tt.requested, tt.unlocked, first); got.ID != tt.want {
				t.Fatalf("Choose() = %d, want %d", got.ID, tt.want)
			}
		})
	}
}

func TestChooseIsUniformOverLockedSet(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	unlocked := map[int]bool{}
	for id := 1; id <= 27; id++ {
		unlocked[id] = true
	}

	var seen []int
	for i := 0; i < 3; i++ {
		pick := i
		got := c.Choose(1, unlocked, func(n int) int {
			if n != 3 {
				t.Fatalf("picked from %d candidates, want 3", n)
			}
			return pick
		})
		seen = append(seen, got.ID)
	}
	if seen[0] != 28 || seen[1] != 29 || seen[2] != 30 {
		t.Fatalf("picks = %v", seen)
	}
}
