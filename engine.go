package main

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// eventKind tags what happened to produce an event on the Engine's event
// channel.
type eventKind int

const (
	eventNewConnection eventKind = iota
	eventMessage
	eventDeadConnection
	eventCheckIdle
)

// event is how per-connection reader goroutines (and the acceptor) hand work
// to the single Engine goroutine that owns all directory/entity state.
type event struct {
	kind eventKind
	conn *Connection
	msg  Message
}

// Engine is the server: the directory plus the single goroutine that is the
// sole mutator of it. Having exactly one state-owning goroutine stands in
// for a coarse lock held for the duration of each message's processing.
type Engine struct {
	Config *Config
	Dir    *Directory
	Log    *logrus.Logger

	// Roster is the set of servers this node is permitted to link with,
	// loaded from the file named by -n. Empty in standalone mode.
	Roster map[string]RosterEntry

	This *ServerLink

	events       chan event
	shutdownChan chan struct{}

	wg sync.WaitGroup

	nextConnID uint64
}

// NewEngine constructs an Engine ready to Serve.
func NewEngine(cfg *Config, roster map[string]RosterEntry, log *logrus.Logger) *Engine {
	e := &Engine{
		Config:       cfg,
		Dir:          newDirectory(),
		Log:          log,
		Roster:       roster,
		events:       make(chan event, 4096),
		shutdownChan: make(chan struct{}),
	}

	e.This = &ServerLink{
		Name:        cfg.ServerName,
		Description: cfg.ServerInfo,
	}
	e.Dir.addServer(e.This)

	return e
}

func (e *Engine) isShuttingDown() bool {
	select {
	case <-e.shutdownChan:
		return true
	default:
		return false
	}
}

// shutdown begins an orderly shutdown: closes shutdownChan (writer
// goroutines select on it) and stops the event loop once drained.
func (e *Engine) shutdown() {
	if e.isShuttingDown() {
		return
	}
	close(e.shutdownChan)
}

func (e *Engine) newEvent(ev event) {
	if e.isShuttingDown() {
		return
	}
	select {
	case e.events <- ev:
	default:
		// The event channel is generously buffered; if it's ever full the
		// server is in serious trouble. Log and drop rather than block the
		// caller (which would be a connection's reader goroutine).
		e.Log.Error("event channel full, dropping event")
	}
}

func (e *Engine) getConnID() uint64 {
	e.nextConnID++
	return e.nextConnID
}

// Serve accepts connections on ln forever (or until shutdown) and runs the
// event loop. It returns once shutdown completes and all goroutines have
// exited.
func (e *Engine) Serve(ln net.Listener) {
	e.wg.Add(1)
	go e.acceptLoop(ln)

	e.wg.Add(1)
	go e.wakeupLoop()

	e.runLoop()

	e.wg.Wait()
}

func (e *Engine) acceptLoop(ln net.Listener) {
	defer e.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if e.isShuttingDown() {
				return
			}
			e.Log.WithField("err", err).Error("accept error")
			continue
		}

		id := e.getConnID()
		c := newConnection(id, conn, e.Config.DeadTime)
		if host, _, splitErr := net.SplitHostPort(conn.RemoteAddr().String()); splitErr == nil {
			c.Hostname = host
			c.IP = net.ParseIP(host)
		}

		e.newEvent(event{kind: eventNewConnection, conn: c})

		e.wg.Add(2)
		go e.readLoop(c)
		go e.writeLoop(c)
	}
}

// wakeupLoop periodically asks the event loop to check for idle
// connections.
func (e *Engine) wakeupLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.Config.WakeupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.newEvent(event{kind: eventCheckIdle})
		case <-e.shutdownChan:
			return
		}
	}
}

// runLoop is the single goroutine that owns every directory/entity mutation.
func (e *Engine) runLoop() {
	for {
		select {
		case ev := <-e.events:
			e.handleEvent(ev)
		case <-e.shutdownChan:
			e.drainAndExit()
			return
		}
	}
}

func (e *Engine) drainAndExit() {
	for _, c := range e.Dir.connections {
		e.teardown(c, "Server shutting down")
	}
}

func (e *Engine) handleEvent(ev event) {
	switch ev.kind {
	case eventNewConnection:
		e.Dir.addConnection(ev.conn)
	case eventMessage:
		// The connection may have been torn down after this event was queued
		// (a QUIT followed by more pipelined commands, say).
		if ev.conn.dead {
			return
		}
		ev.conn.lastActivity = time.Now()
		ev.conn.pingSent = false
		e.dispatch(ev.conn, ev.msg)
	case eventDeadConnection:
		e.teardown(ev.conn, "Connection closed")
	case eventCheckIdle:
		e.checkIdleConnections()
	}
}
