package main

import (
	"strings"
	"time"
)

// readLoop is one per-connection worker: it frames and decodes lines. It
// runs on its own goroutine so a slow or hostile peer can never block the
// Engine's event loop or any other connection; only the parsed message
// crosses over, via newEvent.
func (e *Engine) readLoop(c *Connection) {
	defer e.wg.Done()

	for {
		if e.isShuttingDown() {
			break
		}

		line, err := c.readLine()
		if err != nil {
			if isTimeout(err) {
				continue
			}
			e.newEvent(event{kind: eventDeadConnection, conn: c})
			break
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		msg, err := parseMessage(line)
		if err != nil {
			// Unparseable frame: drop it, connection stays open.
			e.Log.WithField("conn", c.ID).WithField("err", err).
				Debug("dropping unparseable line")
			continue
		}

		e.newEvent(event{kind: eventMessage, conn: c, msg: msg})
	}
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	t, ok := err.(timeouter)
	return ok && t.Timeout()
}

// writeLoop drains a connection's outbox and is the only goroutine that
// ever writes to that connection's socket, giving per-connection write
// serialization for free.
func (e *Engine) writeLoop(c *Connection) {
	defer e.wg.Done()

Loop:
	for {
		select {
		case m, ok := <-c.outbox:
			if !ok {
				break Loop
			}
			line, err := encodeLine(m)
			if err != nil && err != errTruncated {
				e.Log.WithField("conn", c.ID).WithField("err", err).
					Error("encode error")
				e.newEvent(event{kind: eventDeadConnection, conn: c})
				break Loop
			}
			if writeErr := c.writeLine(line); writeErr != nil {
				e.newEvent(event{kind: eventDeadConnection, conn: c})
				break Loop
			}
		case <-e.shutdownChan:
			break Loop
		}
	}

	_ = c.close()
}

// checkIdleConnections pings connections that have been quiet for PingTime
// and disconnects ones that have exceeded DeadTime. It also reaps
// connections whose send queue overflowed.
func (e *Engine) checkIdleConnections() {
	now := time.Now()
	for _, c := range e.Dir.connections {
		if c.overflowed {
			e.teardown(c, "SendQ exceeded")
			continue
		}

		idle := now.Sub(c.lastActivity)

		if idle > e.Config.DeadTime {
			e.teardown(c, "Ping timeout")
			continue
		}

		if idle > e.Config.PingTime && !c.pingSent {
			e.sendFromServer(c, "PING", e.Config.ServerName)
			c.pingSent = true
		}
	}
}

// teardown is orderly, idempotent connection cleanup. If the connection was
// a registered user, synthesize a QUIT fan-out to every channel it was in,
// remove all memberships (destroying any channel that becomes empty), drop
// the user from the directory, then remove and close the connection.
func (e *Engine) teardown(c *Connection, reason string) {
	if c.dead {
		return
	}

	if c.Kind == KindUser && c.User != nil {
		e.quitUser(c.User, reason)
	}
	if c.Kind == KindServer && c.Server != nil {
		e.Dir.removeServer(c.Server)
	}

	e.sendFromServer(c, "ERROR", reason)

	e.Dir.removeConnection(c)
	c.dead = true
	close(c.outbox)
}
