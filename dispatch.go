package main

// handlerFunc is one command handler. A handler mutates state and queues
// replies directly; disconnecting is done by the handler itself calling
// teardown, which is legal mid-dispatch.
type handlerFunc func(e *Engine, c *Connection, m Message)

// preRegisterCommands lists the verbs allowed before registration
// completes.
var preRegisterCommands = map[string]bool{
	"NICK":   true,
	"USER":   true,
	"PASS":   true,
	"SERVER": true,
	"CAPAB":  true,
	"QUIT":   true,
	"PING":   true,
	"PONG":   true,
	"CAP":    true,
}

// commandTable is the static command -> handler table.
var commandTable = map[string]handlerFunc{
	"NICK": handleNICK,
	"USER": handleUSER,
	"PASS": handlePASS,

	"CAPAB":  handleCAPAB,
	"SERVER": handleSERVER,

	"QUIT": handleQUIT,
	"PING": handlePING,
	"PONG": handlePONG,
	"CAP":  handleCAP,

	"JOIN":  handleJOIN,
	"PART":  handlePART,
	"MODE":  handleMODE,
	"TOPIC": handleTOPIC,

	"PRIVMSG": handlePRIVMSG,
	"NOTICE":  handleNOTICE,
	"AWAY":    handleAWAY,

	"LIST":   handleLIST,
	"NAMES":  handleNAMES,
	"WHO":    handleWHO,
	"WHOIS":  handleWHOIS,
	"LUSERS": handleLUSERS,
	"MOTD":   handleMOTD,

	"OPER": handleOPER,
}

// dispatch looks up a handler for m.Command and, after the registration
// gate, calls it. m.Prefix is ignored: clients SHOULD NOT send one, and
// ignoring it is kinder than disconnecting for it.
func (e *Engine) dispatch(c *Connection, m Message) {
	if !c.registered() && !preRegisterCommands[m.Command] {
		e.sendNumeric(c, errNotRegistered, "You have not registered")
		return
	}

	// Only the registration handshake of the server-to-server protocol is
	// implemented. Anything else arriving on a server link is dropped; the
	// user-facing handlers all assume a user connection.
	if c.Kind == KindServer && !preRegisterCommands[m.Command] {
		e.Log.WithField("conn", c.ID).WithField("command", m.Command).
			Debug("dropping unhandled server-link command")
		return
	}

	h, ok := commandTable[m.Command]
	if !ok {
		e.sendNumeric(c, errUnknownCommand, m.Command, "Unknown command")
		return
	}

	h(e, c, m)
}
