package main

import "strings"

// ModeSet is an ordered, duplicate-free bag of single-character mode flags.
//
// It backs user modes, channel modes, and per-membership modes. Insertion
// order is preserved, but nothing in the wire protocol ever depends on it:
// MODE replies always re-serialize flags explicitly rather than exposing
// internal ordering.
type ModeSet struct {
	set   map[byte]struct{}
	order []byte
}

// NewModeSet returns an empty ModeSet.
func NewModeSet() ModeSet {
	return ModeSet{set: map[byte]struct{}{}}
}

// Has reports whether mode is present.
func (m ModeSet) Has(mode byte) bool {
	_, ok := m.set[mode]
	return ok
}

// Add adds mode to the set. It is idempotent: adding an already-present mode
// changes nothing and reports false.
func (m *ModeSet) Add(mode byte) bool {
	if m.set == nil {
		m.set = map[byte]struct{}{}
	}
	if _, ok := m.set[mode]; ok {
		return false
	}
	m.set[mode] = struct{}{}
	m.order = append(m.order, mode)
	return true
}

// Remove removes mode from the set. It reports false if the mode was not
// present.
func (m *ModeSet) Remove(mode byte) bool {
	if _, ok := m.set[mode]; !ok {
		return false
	}
	delete(m.set, mode)
	for i, b := range m.order {
		if b == mode {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Len reports the number of modes set.
func (m ModeSet) Len() int {
	return len(m.order)
}

// String renders the set as "+abc", or "+" if empty.
func (m ModeSet) String() string {
	var sb strings.Builder
	sb.WriteByte('+')
	for _, b := range m.order {
		sb.WriteByte(b)
	}
	return sb.String()
}

// Letters returns the modes in insertion order as a plain string (no sign).
func (m ModeSet) Letters() string {
	return string(m.order)
}
