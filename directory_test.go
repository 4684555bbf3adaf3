package main

import "testing"

func TestDirectoryAddFindRemoveUser(t *testing.T) {
	d := newDirectory()
	u := newUser("Alice", "alice", "Alice A", "host", nil)

	d.addUser(u)

	found, ok := d.findUser("alice")
	if !ok || found != u {
		t.Fatalf("findUser lowercase failed to find user added as Alice")
	}
	// Case-folding per RFC 2812: {}| map to []\.
	found, ok = d.findUser("Alice")
	if !ok || found != u {
		t.Fatalf("findUser exact-case failed")
	}

	d.removeUser(u)
	if _, ok := d.findUser("alice"); ok {
		t.Fatalf("user still found after removeUser")
	}
}

func TestDirectoryRenameUser(t *testing.T) {
	d := newDirectory()
	u := newUser("alice", "alice", "Alice A", "host", nil)
	d.addUser(u)

	u.Nick = "alicia"
	d.renameUser(u, "alice")

	if _, ok := d.findUser("alice"); ok {
		t.Fatalf("old nick still resolves after renameUser")
	}
	found, ok := d.findUser("alicia")
	if !ok || found != u {
		t.Fatalf("new nick does not resolve after renameUser")
	}
}

func TestDirectoryGetOrCreateChannel(t *testing.T) {
	d := newDirectory()

	c1, created := d.getOrCreateChannel("#test", 0)
	if !created {
		t.Fatalf("expected created=true for a brand new channel")
	}

	c2, created := d.getOrCreateChannel("#TEST", 0)
	if created {
		t.Fatalf("expected created=false for an existing channel (case-insensitive)")
	}
	if c1 != c2 {
		t.Fatalf("expected the same channel back for a case-variant name")
	}
}

func TestDirectoryDestroyChannelIfEmpty(t *testing.T) {
	d := newDirectory()
	c, _ := d.getOrCreateChannel("#test", 0)
	u := newUser("alice", "alice", "Alice A", "host", nil)

	addMember(c, u)
	if d.destroyChannelIfEmpty(c) {
		t.Fatalf("destroyChannelIfEmpty removed a channel with a member")
	}
	if _, ok := d.findChannel("#test"); !ok {
		t.Fatalf("channel missing from directory after a no-op destroy attempt")
	}

	removeMember(c, u)
	if !d.destroyChannelIfEmpty(c) {
		t.Fatalf("destroyChannelIfEmpty did not remove an empty channel")
	}
	if _, ok := d.findChannel("#test"); ok {
		t.Fatalf("channel still in directory after being destroyed")
	}
}

func TestDirectoryCounters(t *testing.T) {
	d := newDirectory()
	alice := newUser("alice", "alice", "Alice A", "host", nil)
	bob := newUser("bob", "bob", "Bob B", "host", nil)
	bob.Modes.Add('o')

	d.addUser(alice)
	d.addUser(bob)
	d.getOrCreateChannel("#a", 0)
	d.getOrCreateChannel("#b", 0)

	if n := d.numUsers(); n != 2 {
		t.Fatalf("numUsers = %d, want 2", n)
	}
	if n := d.numChannels(); n != 2 {
		t.Fatalf("numChannels = %d, want 2", n)
	}
	if n := d.numOperators(); n != 1 {
		t.Fatalf("numOperators = %d, want 1", n)
	}
}
