package main

import (
	"bufio"
	"net"
	"time"

	"github.com/pkg/errors"
)

// ConnKind tags what a Connection has registered as.
type ConnKind int

// Connection kinds. Accessing the User arm of a server connection (or vice
// versa) is a program bug, not a condition to be checked at runtime, so the
// variant is keyed on this enum instead of being an untagged pair of
// pointers.
const (
	// KindUnknown is a connection that has not finished registering.
	KindUnknown ConnKind = iota
	KindUser
	KindServer
)

func (k ConnKind) String() string {
	switch k {
	case KindUser:
		return "USER"
	case KindServer:
		return "SERVER"
	default:
		return "UNKNOWN"
	}
}

// preRegState holds the partial registration info accumulated before a
// connection becomes a USER or SERVER connection.
type preRegState struct {
	nick     string
	username string
	fullName string

	// passwd is observed while negotiating a server link.
	passwd string
}

// Connection is one TCP peer, in any of its three lifecycle states. Exactly
// one of User/Server is non-nil once Kind leaves KindUnknown.
type Connection struct {
	ID uint64

	Kind ConnKind

	User   *User
	Server *ServerLink

	pre preRegState

	Hostname string
	IP       net.IP

	conn net.Conn
	rw   *bufio.ReadWriter

	ioTimeout time.Duration

	// outbox is the bounded per-connection write queue. A single writer
	// goroutine drains it so concurrent fan-out from many handlers to the
	// same target serializes cleanly.
	outbox chan Message

	// overflowed is set once when outbox fills, so the next idle check
	// triggers a single "SendQ exceeded" disconnect rather than silently
	// dropping forever.
	overflowed bool

	// dead is set by teardown just before outbox is closed. queue consults
	// it so a late fan-out to a torn-down connection is a no-op instead of a
	// send on a closed channel. Only the event-loop goroutine touches it.
	dead bool

	registeredAt time.Time

	// lastActivity is updated whenever a line is successfully read from this
	// connection, and is what checkIdleConnections measures against.
	lastActivity time.Time

	// pingSent is set once an idle PING has gone out so the next check knows
	// not to re-send one every tick while waiting for DeadTime to elapse.
	pingSent bool
}

func newConnection(id uint64, netConn net.Conn, ioTimeout time.Duration) *Connection {
	return &Connection{
		ID:           id,
		Kind:         KindUnknown,
		conn:         netConn,
		rw:           bufio.NewReadWriter(bufio.NewReader(netConn), bufio.NewWriter(netConn)),
		ioTimeout:    ioTimeout,
		outbox:       make(chan Message, 2048),
		lastActivity: time.Now(),
	}
}

func (c *Connection) String() string {
	return c.conn.RemoteAddr().String()
}

// registered reports whether the connection has completed registration as
// either a user or a server.
func (c *Connection) registered() bool {
	return c.Kind != KindUnknown
}

// currentNick returns the recipient slot used in numeric replies: the
// user's nick if known, else "*".
func (c *Connection) currentNick() string {
	if c.Kind == KindUser && c.User != nil {
		return c.User.Nick
	}
	if c.pre.nick != "" {
		return c.pre.nick
	}
	return "*"
}

// readLine reads one CRLF (or bare-LF, permissively) terminated frame,
// capped at the protocol's 512 octet line length.
func (c *Connection) readLine() (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.ioTimeout)); err != nil {
		return "", errors.Wrap(err, "set read deadline")
	}

	line, err := c.rw.ReadString('\n')
	if err != nil {
		return "", err
	}

	if len(line) > maxLineLength {
		line = line[:maxLineLength]
	}

	return line, nil
}

// queue enqueues a message for the writer goroutine. It never blocks: if the
// outbox is full, the connection is flagged as overflowed and the message is
// dropped (the next idle check notices the flag and tears the connection
// down).
func (c *Connection) queue(m Message) {
	if c.dead || c.overflowed {
		return
	}

	select {
	case c.outbox <- m:
	default:
		c.overflowed = true
	}
}

// writeLine writes a single already-encoded line to the socket. Only the
// connection's own writer goroutine may call this.
func (c *Connection) writeLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.ioTimeout)); err != nil {
		return errors.Wrap(err, "set write deadline")
	}

	if _, err := c.rw.WriteString(line); err != nil {
		return err
	}

	return c.rw.Flush()
}

func (c *Connection) close() error {
	return c.conn.Close()
}
