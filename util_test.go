package main

import "testing"

func TestCanonicalizeNick(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"ALICE", "alice"},
		{"Alice", "alice"},
		{"[]\\~", "{}|~"},
		{"A[B]C", "a{b}c"},
	}

	for _, test := range tests {
		got := canonicalizeNick(test.in)
		if got != test.want {
			t.Errorf("canonicalizeNick(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestCanonicalizeChannel(t *testing.T) {
	got := canonicalizeChannel("#TEST")
	want := "#test"
	if got != want {
		t.Errorf("canonicalizeChannel(#TEST) = %q, want %q", got, want)
	}
}

func TestIsValidChannel(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#test", true},
		{"&test", true},
		{"test", false},
		{"", false},
		{"#has space", false},
	}

	for _, test := range tests {
		got := isValidChannel(test.in)
		if got != test.want {
			t.Errorf("isValidChannel(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestIsValidNick(t *testing.T) {
	if !isValidNick(9, "alice") {
		t.Errorf("expected alice to be a valid nick")
	}
	if isValidNick(9, "1alice") {
		t.Errorf("expected a leading digit to be invalid")
	}
	if isValidNick(9, "") {
		t.Errorf("expected an empty nick to be invalid")
	}
}
