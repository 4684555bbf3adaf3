package tests

import (
	"fmt"
	"testing"
	"time"

	"github.com/horgh/irc"
	"github.com/stretchr/testify/require"

	"catboxd/internal"
)

// recv waits up to 5 seconds for the next message on ch.
func recv(t *testing.T, ch <-chan irc.Message) irc.Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a message")
		return irc.Message{}
	}
}

// recvCommand waits for the next message with the given command, skipping
// anything else -- PING/PONG liveness traffic in particular.
func recvCommand(t *testing.T, ch <-chan irc.Message, command string) irc.Message {
	t.Helper()
	for i := 0; i < 32; i++ {
		m := recv(t, ch)
		if m.Command == command {
			return m
		}
	}
	t.Fatalf("never saw a %s message", command)
	return irc.Message{}
}

func newHarness(t *testing.T, name string) (*internal.Catbox, string) {
	t.Helper()
	catbox, err := internal.HarnessCatbox(name, "operpasswd")
	require.NoError(t, err)
	return catbox, "127.0.0.1"
}

// TestRegistrationAndWelcome: a NICK/USER pair gets the welcome sequence,
// the LUSERS block, and 422 (no MOTD configured).
func TestRegistrationAndWelcome(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	c := internal.NewClient("alice", host, catbox.Port)
	recvChan, _, errChan, err := c.Start()
	require.NoError(t, err)
	defer c.Stop()

	for _, code := range []string{"001", "002", "003", "004", "251", "252", "253", "254", "255", "422"} {
		select {
		case m := <-recvChan:
			require.Equal(t, code, m.Command, "expected %s, got %+v", code, m)
		case err := <-errChan:
			t.Fatalf("client error: %s", err)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", code)
		}
	}
}

// TestJoinCreatesChannel: the first JOIN to a channel creates it and makes
// the joiner its operator.
func TestJoinCreatesChannel(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	recvChan, sendChan, _, err := alice.Start()
	require.NoError(t, err)
	defer alice.Stop()

	drainWelcome(t, recvChan)

	sendChan <- irc.Message{Command: "JOIN", Params: []string{"#test"}}

	join := recvCommand(t, recvChan, "JOIN")
	require.Equal(t, "#test", join.Params[0])
	require.Equal(t, "alice!alice@127.0.0.1", join.Prefix)

	topic := recvCommand(t, recvChan, "331")
	require.Equal(t, "#test", topic.Params[1])

	names := recvCommand(t, recvChan, "353")
	require.Contains(t, names.Params[3], "@alice")

	recvCommand(t, recvChan, "366")
}

// TestChannelFanOutAndAway: PRIVMSG to a channel fans out to the other
// member only, and messaging an away user still delivers but adds a 301.
func TestChannelFanOutAndAway(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	aliceRecv, aliceSend, _, err := alice.Start()
	require.NoError(t, err)
	defer alice.Stop()
	drainWelcome(t, aliceRecv)

	bob := internal.NewClient("bob", host, catbox.Port)
	bobRecv, bobSend, _, err := bob.Start()
	require.NoError(t, err)
	defer bob.Stop()
	drainWelcome(t, bobRecv)

	aliceSend <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	drainJoin(t, aliceRecv)

	bobSend <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	drainJoin(t, bobRecv)
	recvCommand(t, aliceRecv, "JOIN") // alice sees bob join

	bobSend <- irc.Message{Command: "PRIVMSG", Params: []string{"#test", "hi"}}
	msg := recvCommand(t, aliceRecv, "PRIVMSG")
	require.Equal(t, []string{"#test", "hi"}, msg.Params)

	aliceSend <- irc.Message{Command: "AWAY", Params: []string{"brb"}}
	recvCommand(t, aliceRecv, "306")

	bobSend <- irc.Message{Command: "PRIVMSG", Params: []string{"alice", "hey"}}
	priv := recvCommand(t, aliceRecv, "PRIVMSG")
	require.Equal(t, []string{"alice", "hey"}, priv.Params)

	away := recvCommand(t, bobRecv, "301")
	require.Equal(t, []string{"bob", "alice", "brb"}, away.Params)
}

// TestModeratedChannel: +m blocks a non-voiced speaker with 404, +v
// unblocks them.
func TestModeratedChannel(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	aliceRecv, aliceSend, _, err := alice.Start()
	require.NoError(t, err)
	defer alice.Stop()
	drainWelcome(t, aliceRecv)

	bob := internal.NewClient("bob", host, catbox.Port)
	bobRecv, bobSend, _, err := bob.Start()
	require.NoError(t, err)
	defer bob.Stop()
	drainWelcome(t, bobRecv)

	aliceSend <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	drainJoin(t, aliceRecv)
	bobSend <- irc.Message{Command: "JOIN", Params: []string{"#test"}}
	drainJoin(t, bobRecv)
	recvCommand(t, aliceRecv, "JOIN")

	aliceSend <- irc.Message{Command: "MODE", Params: []string{"#test", "+m"}}
	recvCommand(t, aliceRecv, "MODE")
	recvCommand(t, bobRecv, "MODE")

	bobSend <- irc.Message{Command: "PRIVMSG", Params: []string{"#test", "hi"}}
	recvCommand(t, bobRecv, "404")

	aliceSend <- irc.Message{Command: "MODE", Params: []string{"#test", "+v", "bob"}}
	recvCommand(t, aliceRecv, "MODE")
	recvCommand(t, bobRecv, "MODE")

	bobSend <- irc.Message{Command: "PRIVMSG", Params: []string{"#test", "hi again"}}
	msg := recvCommand(t, aliceRecv, "PRIVMSG")
	require.Equal(t, "hi again", msg.Params[1])
}

// TestQuitFanOut: a QUIT fans out to the other member of every channel the
// quitter was in, once per shared channel, and channels persist for the
// remaining member until they PART too.
func TestQuitFanOut(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	aliceRecv, aliceSend, _, err := alice.Start()
	require.NoError(t, err)
	drainWelcome(t, aliceRecv)

	bob := internal.NewClient("bob", host, catbox.Port)
	bobRecv, bobSend, _, err := bob.Start()
	require.NoError(t, err)
	defer bob.Stop()
	drainWelcome(t, bobRecv)

	aliceSend <- irc.Message{Command: "JOIN", Params: []string{"#a,#b"}}
	recvCommand(t, aliceRecv, "JOIN")
	recvCommand(t, aliceRecv, "JOIN")

	bobSend <- irc.Message{Command: "JOIN", Params: []string{"#a,#b"}}
	drainJoin(t, bobRecv)
	drainJoin(t, bobRecv)
	recvCommand(t, aliceRecv, "JOIN") // alice sees bob join #a
	recvCommand(t, aliceRecv, "JOIN") // alice sees bob join #b

	aliceSend <- irc.Message{Command: "QUIT", Params: []string{"bye"}}

	// bob shares two channels with alice, so he sees her QUIT once per
	// shared channel.
	for i := 0; i < 2; i++ {
		q := recvCommand(t, bobRecv, "QUIT")
		require.Equal(t, []string{"bye"}, q.Params)
		require.Equal(t, "alice!alice@127.0.0.1", q.Prefix)
	}

	alice.Stop()

	// Both channels must still exist (bob remains): PARTing them must
	// succeed without the server treating the names as unknown.
	bobSend <- irc.Message{Command: "PART", Params: []string{"#a"}}
	recvCommand(t, bobRecv, "PART")
	bobSend <- irc.Message{Command: "PART", Params: []string{"#b"}}
	recvCommand(t, bobRecv, "PART")
}

// TestNickCollision: a second connection claiming an in-use nick gets 433
// and its state is unchanged.
func TestNickCollision(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	aliceRecv, _, _, err := alice.Start()
	require.NoError(t, err)
	defer alice.Stop()
	drainWelcome(t, aliceRecv)

	second := internal.NewClient("alice", host, catbox.Port)
	secondRecv, _, _, err := second.Start()
	require.NoError(t, err)
	defer second.Stop()

	collision := recvCommand(t, secondRecv, "433")
	require.Equal(t, []string{"*", "alice", "Nickname is already in use"}, collision.Params)
}

// TestPingPong: a PING is answered with exactly one PONG carrying the same
// token.
func TestPingPong(t *testing.T) {
	catbox, host := newHarness(t, "irc.example.org")
	defer catbox.Stop()

	alice := internal.NewClient("alice", host, catbox.Port)
	recvChan, sendChan, _, err := alice.Start()
	require.NoError(t, err)
	defer alice.Stop()
	drainWelcome(t, recvChan)

	sendChan <- irc.Message{Command: "PING", Params: []string{"token123"}}

	pong := recvCommand(t, recvChan, "PONG")
	require.Equal(t, "token123", pong.Params[len(pong.Params)-1])
}

func drainWelcome(t *testing.T, ch <-chan irc.Message) {
	t.Helper()
	for _, code := range []string{"001", "002", "003", "004", "251", "252", "253", "254", "255", "422"} {
		m := recv(t, ch)
		require.Equal(t, code, m.Command, fmt.Sprintf("draining welcome sequence, expected %s", code))
	}
}

func drainJoin(t *testing.T, ch <-chan irc.Message) {
	t.Helper()
	recvCommand(t, ch, "JOIN")
	recvCommand(t, ch, "331")
	recvCommand(t, ch, "353")
	recvCommand(t, ch, "366")
}
