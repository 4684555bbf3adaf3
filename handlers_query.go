package main

import (
	"strconv"
	"strings"
)

// handleLIST implements LIST: with no argument, lists every channel; with a
// comma-separated argument, only those.
func handleLIST(e *Engine, c *Connection, m Message) {
	var names []string
	if len(m.Params) > 0 && m.Params[0] != "" {
		names = strings.Split(m.Params[0], ",")
	} else {
		for _, ch := range e.Dir.channels {
			names = append(names, ch.Name)
		}
	}

	for _, name := range names {
		channel, ok := e.Dir.findChannel(name)
		if !ok {
			continue
		}
		e.sendNumeric(c, replyList, channel.Name, strconv.Itoa(len(channel.Members)), channel.Topic)
	}
	e.sendNumeric(c, replyListEnd, "End of LIST")
}

// handleNAMES implements NAMES as a standalone command, reusing the same
// reply JOIN sends.
func handleNAMES(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 || m.Params[0] == "" {
		for _, channel := range e.Dir.channels {
			sendNamesReply(e, c, channel)
		}
		return
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		channel, ok := e.Dir.findChannel(name)
		if !ok {
			continue
		}
		sendNamesReply(e, c, channel)
	}
}

// handleWHO implements WHO for a channel mask (the form this engine's
// handlers actually produce via JOIN/PART/NAMES).
func handleWHO(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, replyEndOfWho, "*", "End of WHO list")
		return
	}

	mask := m.Params[0]
	if channel, ok := e.Dir.findChannel(mask); ok {
		for member, ms := range channel.Members {
			flags := "H"
			if member.isOperator() {
				flags += "*"
			}
			if ms.isOperator() {
				flags += "@"
			} else if ms.isVoiced() {
				flags += "+"
			}
			e.sendNumeric(c, replyWhoReply, channel.Name, member.Username, member.Hostname,
				e.Config.ServerName, member.Nick, flags, "0 "+member.FullName)
		}
		e.sendNumeric(c, replyEndOfWho, mask, "End of WHO list")
		return
	}

	if user, ok := e.Dir.findUser(mask); ok {
		flags := "H"
		if user.isOperator() {
			flags += "*"
		}
		e.sendNumeric(c, replyWhoReply, "*", user.Username, user.Hostname,
			e.Config.ServerName, user.Nick, flags, "0 "+user.FullName)
	}
	e.sendNumeric(c, replyEndOfWho, mask, "End of WHO list")
}

// handleWHOIS implements WHOIS for a single nick.
func handleWHOIS(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNoNicknameGiven, "No nickname given")
		return
	}

	nick := m.Params[len(m.Params)-1]
	user, ok := e.Dir.findUser(nick)
	if !ok {
		e.sendNumeric(c, errNoSuchNick, nick, "No such nick/channel")
		e.sendNumeric(c, replyEndOfWhois, nick, "End of WHOIS list")
		return
	}

	e.sendNumeric(c, replyWhoisUser, user.Nick, user.Username, user.Hostname, "*", user.FullName)
	e.sendNumeric(c, replyWhoisServer, user.Nick, e.Config.ServerName, e.Config.ServerInfo)

	if user.isAway() {
		e.sendNumeric(c, replyAway, user.Nick, user.AwayMessage)
	}
	if user.isOperator() {
		e.sendNumeric(c, replyWhoisOperator, user.Nick, "is an IRC operator")
	}

	if len(user.Memberships) > 0 {
		var channels []string
		for _, ms := range user.Memberships {
			prefix := ""
			switch {
			case ms.isOperator():
				prefix = "@"
			case ms.isVoiced():
				prefix = "+"
			}
			channels = append(channels, prefix+ms.Channel.Name)
		}
		e.sendNumeric(c, replyWhoisChannels, user.Nick, strings.Join(channels, " "))
	}

	e.sendNumeric(c, replyEndOfWhois, user.Nick, "End of WHOIS list")
}

// handleLUSERS implements LUSERS, also used to build the post-registration
// welcome sequence.
func handleLUSERS(e *Engine, c *Connection, m Message) {
	sendLusers(e, c)
}

func sendLusers(e *Engine, c *Connection) {
	d := e.Dir
	e.sendNumeric(c, replyLUserClient,
		"There are "+strconv.Itoa(d.numUsers())+" users and 0 invisible on "+strconv.Itoa(d.numServers())+" servers")
	e.sendNumeric(c, replyLUserOp, strconv.Itoa(d.numOperators()), "IRC Operators online")
	e.sendNumeric(c, replyLUserUnknown, strconv.Itoa(d.numUnknownConnections()), "unknown connection(s)")
	e.sendNumeric(c, replyLUserChans, strconv.Itoa(d.numChannels()), "channels formed")
	e.sendNumeric(c, replyLUserMe, "I have "+strconv.Itoa(d.numUsers())+" clients and "+strconv.Itoa(d.numLocalServers())+" servers")
}

// handleMOTD implements MOTD, also used to build the post-registration
// welcome sequence.
func handleMOTD(e *Engine, c *Connection, m Message) {
	sendMotd(e, c)
}

func sendMotd(e *Engine, c *Connection) {
	if len(e.Config.MOTD) == 0 {
		e.sendNumeric(c, errNoMotd, "MOTD File is missing")
		return
	}

	e.sendNumeric(c, replyMotdStart, "- "+e.Config.ServerName+" Message of the day -")
	for _, line := range e.Config.MOTD {
		e.sendNumeric(c, replyMotd, "- "+line)
	}
	e.sendNumeric(c, replyEndOfMotd, "End of MOTD command")
}
