package main

import (
	"fmt"
)

// handleNICK implements the NICK half of the registration state machine and
// post-registration nick changes.
func handleNICK(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNoNicknameGiven, "No nickname given")
		return
	}
	nick := m.Params[0]
	if len(nick) > e.Config.MaxNickLength {
		nick = nick[:e.Config.MaxNickLength]
	}
	if !isValidNick(e.Config.MaxNickLength, nick) {
		e.sendNumeric(c, errErroneousNickname, nick, "Erroneous nickname")
		return
	}

	if c.Kind != KindUser {
		// Pre-registration: checked against already-registered users on every
		// NICK (a bare NICK colliding with a live user gets 433 immediately,
		// before USER ever arrives), and re-checked at registration
		// completion since a second pending connection could still race it
		// to the same name.
		if _, exists := e.Dir.findUser(nick); exists {
			e.sendNumeric(c, errNicknameInUse, nick, "Nickname is already in use")
			return
		}
		c.pre.nick = nick
		if c.pre.username != "" {
			completeUserRegistration(e, c)
		}
		return
	}

	// Post-registration nick change.
	if _, exists := e.Dir.findUser(nick); exists {
		e.sendNumeric(c, errNicknameInUse, nick, "Nickname is already in use")
		return
	}

	u := c.User
	oldNick := u.Nick

	informed := map[*User]bool{}
	for _, ms := range u.Memberships {
		for other := range ms.Channel.Members {
			if informed[other] {
				continue
			}
			e.sendFromUser(other.Conn, u, "NICK", nick)
			informed[other] = true
		}
	}
	if !informed[u] {
		e.sendFromUser(c, u, "NICK", nick)
	}

	u.Nick = nick
	e.Dir.renameUser(u, oldNick)
}

// handleUSER implements the USER half of registration. USER is rejected
// outright once already registered.
func handleUSER(e *Engine, c *Connection, m Message) {
	if c.Kind == KindUser {
		e.sendNumeric(c, errAlreadyRegistered, "Unauthorized command (already registered)")
		return
	}
	if len(m.Params) < 4 {
		e.sendNumeric(c, errNeedMoreParams, "USER", "Not enough parameters")
		return
	}

	username := m.Params[0]
	if !isValidUser(e.Config.MaxNickLength, username) {
		e.sendNumeric(c, errNeedMoreParams, "USER", "Invalid username")
		return
	}

	c.pre.username = username
	c.pre.fullName = m.Params[3]

	if c.pre.nick != "" {
		completeUserRegistration(e, c)
	}
}

// completeUserRegistration transitions a connection from unknown to a
// registered user and emits the welcome sequence.
func completeUserRegistration(e *Engine, c *Connection) {
	if _, exists := e.Dir.findUser(c.pre.nick); exists {
		e.sendNumeric(c, errNicknameInUse, c.pre.nick, "Nickname is already in use")
		c.pre.nick = ""
		return
	}

	hostname := c.Hostname
	if hostname == "" {
		hostname = "unknown"
	}

	u := newUser(c.pre.nick, c.pre.username, c.pre.fullName, hostname, c)
	c.Kind = KindUser
	c.User = u

	e.Dir.addUser(u)

	e.sendNumeric(c, replyWelcome,
		fmt.Sprintf("Welcome to the Internet Relay Network %s", u.Prefix()))
	e.sendNumeric(c, replyYourHost,
		fmt.Sprintf("Your host is %s, running version %s", e.Config.ServerName, e.Config.Version))
	e.sendNumeric(c, replyCreated,
		fmt.Sprintf("This server was created %s", e.Config.CreatedDate))
	e.sendNumeric(c, replyMyInfo, e.Config.ServerName, e.Config.Version, "ao", "mtov")

	sendLusers(e, c)
	sendMotd(e, c)
}

func handlePASS(e *Engine, c *Connection, m Message) {
	if c.Kind != KindUnknown {
		e.sendNumeric(c, errAlreadyRegistered, "Unauthorized command (already registered)")
		return
	}
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNeedMoreParams, "PASS", "Not enough parameters")
		return
	}
	c.pre.passwd = m.Params[0]
}

func handleCAPAB(e *Engine, c *Connection, m Message) {
	// Capability negotiation ahead of SERVER. Only the registration
	// handshake is implemented, so CAPAB is accepted and ignored rather
	// than interpreted.
}

func handleCAP(e *Engine, c *Connection, m Message) {
	// Non-RFC capability negotiation some clients send unconditionally.
	// Widely supported behavior is to ignore it when not implementing it.
}

// handleSERVER implements the passive side of the PASS/SERVER handshake: a
// peer that already sent PASS now names itself. If its password matches the
// roster entry for that name, the connection is promoted to a server
// connection and linked.
func handleSERVER(e *Engine, c *Connection, m Message) {
	if c.Kind != KindUnknown {
		e.sendFromServer(c, "ERROR", "Already registered")
		return
	}
	if len(m.Params) < 1 {
		e.sendNumeric(c, errNeedMoreParams, "SERVER", "Not enough parameters")
		return
	}

	servername := m.Params[0]
	description := ""
	if len(m.Params) >= 3 {
		description = m.Params[2]
	}

	entry, ok := e.Roster[servername]
	if !ok || entry.Passwd != c.pre.passwd {
		e.teardown(c, "Bad password or unknown server")
		return
	}

	if _, linked := e.Dir.findServer(servername); linked {
		e.teardown(c, "Already linked")
		return
	}

	link := &ServerLink{
		Name:        servername,
		Description: description,
		Hostname:    entry.Hostname,
		Port:        entry.Port,
		Passwd:      entry.Passwd,
		Registered:  true,
		Conn:        c,
	}
	c.Kind = KindServer
	c.Server = link
	e.Dir.addServer(link)

	e.sendFromServer(c, "PASS", entry.Passwd)
	e.sendFromServer(c, "SERVER", e.Config.ServerName, "1", e.Config.ServerInfo)

	e.Log.WithField("server", servername).Info("Established link")
}

func handleQUIT(e *Engine, c *Connection, m Message) {
	reason := c.currentNick()
	if len(m.Params) > 0 && m.Params[0] != "" {
		reason = m.Params[0]
	}
	e.teardown(c, reason)
}

func handlePING(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNoOrigin, "No origin specified")
		return
	}
	e.sendFromServer(c, "PONG", e.Config.ServerName, m.Params[0])
}

func handlePONG(e *Engine, c *Connection, m Message) {
	// Accepted and silently ignored. Activity bookkeeping already happened
	// when the line was read.
}

// quitUser performs the teardown fan-out for a registered user leaving the
// network (via QUIT, disconnect, or kill): every other member of every
// channel the user is in sees one QUIT per shared channel, then every
// membership is removed (destroying channels that become empty), and the
// user is dropped from the directory.
func (e *Engine) quitUser(u *User, reason string) {
	if _, ok := e.Dir.findUser(u.Nick); !ok {
		return
	}

	for _, ms := range u.Memberships {
		for other := range ms.Channel.Members {
			if other == u {
				continue
			}
			e.sendFromUser(other.Conn, u, "QUIT", reason)
		}
	}

	for _, ms := range u.Memberships {
		channel := ms.Channel
		removeMember(channel, u)
		e.Dir.destroyChannelIfEmpty(channel)
	}

	e.Dir.removeUser(u)
}
