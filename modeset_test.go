package main

import "testing"

func TestModeSetAddRemoveHas(t *testing.T) {
	m := NewModeSet()

	if m.Has('o') {
		t.Fatalf("fresh ModeSet has 'o' set")
	}

	if !m.Add('o') {
		t.Fatalf("Add('o') on fresh set should report true")
	}
	if m.Add('o') {
		t.Fatalf("Add('o') a second time should report false (already set)")
	}
	if !m.Has('o') {
		t.Fatalf("Has('o') false after Add")
	}

	if !m.Remove('o') {
		t.Fatalf("Remove('o') should report true when present")
	}
	if m.Remove('o') {
		t.Fatalf("Remove('o') a second time should report false")
	}
	if m.Has('o') {
		t.Fatalf("Has('o') true after Remove")
	}
}

func TestModeSetStringAndLetters(t *testing.T) {
	m := NewModeSet()
	if got := m.String(); got != "+" {
		t.Fatalf("empty ModeSet.String() = %q, want %q", got, "+")
	}

	m.Add('m')
	m.Add('t')

	if got := m.String(); got != "+mt" {
		t.Fatalf("ModeSet.String() = %q, want %q", got, "+mt")
	}
	if got := m.Letters(); got != "mt" {
		t.Fatalf("ModeSet.Letters() = %q, want %q", got, "mt")
	}
	if n := m.Len(); n != 2 {
		t.Fatalf("ModeSet.Len() = %d, want 2", n)
	}
}

func TestModeSetRemovePreservesOrder(t *testing.T) {
	m := NewModeSet()
	m.Add('a')
	m.Add('b')
	m.Add('c')

	m.Remove('b')

	if got := m.Letters(); got != "ac" {
		t.Fatalf("Letters() after removing middle element = %q, want %q", got, "ac")
	}
}

func TestModeSetZeroValue(t *testing.T) {
	var m ModeSet
	if m.Has('o') {
		t.Fatalf("zero-value ModeSet has 'o' set")
	}
	if !m.Add('o') {
		t.Fatalf("Add on zero-value ModeSet should succeed by lazily initializing its map")
	}
	if !m.Has('o') {
		t.Fatalf("Has('o') false after Add on zero-value ModeSet")
	}
}
