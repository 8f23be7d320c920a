package generator

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGroupShapeAndAlphabet(t *testing.T) {
	g := NewWithSeed(42)
	for i := 0; i < 5; i++ {
		group := g.Group(DefaultGroupSize, []rune(DefaultAlphabet))
		if utf8.RuneCountInString(group) != 5 {
			t.Fatalf("expected 5 runes, got %q", group)
		}
		for _, r := range group {
			if !strings.ContainsRune(DefaultAlphabet, r) {
				t.Fatalf("rune %q outside alphabet in %q", r, group)
			}
		}
	}
}

func TestGroupDeterministicWithSeed(t *testing.T) {
	a, b := NewWithSeed(7), NewWithSeed(7)
	for i := 0; i < 3; i++ {
		ga := a.Group(5, []rune(DefaultAlphabet))
		gb := b.Group(5, []rune(DefaultAlphabet))
		if ga != gb {
			t.Fatalf("expected same group for same seed: %q vs %q", ga, gb)
		}
	}
}

func TestGroupCoversAlphabet(t *testing.T) {
	g := NewWithSeed(1)
	seen := map[rune]bool{}
	for i := 0; i < 2000; i++ {
		for _, r := range g.Group(5, []rune(DefaultAlphabet)) {
			seen[r] = true
		}
	}
	if len(seen) != len(DefaultAlphabet) {
		t.Fatalf("expected every alphabet rune to appear, saw %d", len(seen))
	}
}

func TestGroupEdgeCases(t *testing.T) {
	g := NewWithSeed(1)
	if got := g.Group(0, []rune(DefaultAlphabet)); got != "" {
		t.Fatalf("expected empty group for size 0, got %q", got)
	}
	if got := g.Group(5, nil); got != "" {
		t.Fatalf("expected empty group for empty alphabet, got %q", got)
	}
	if got := g.Group(3, []rune("E")); got != "EEE" {
		t.Fatalf("expected EEE, got %q", got)
	}
}
