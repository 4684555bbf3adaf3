package main

import (
	"strconv"
	"strings"
	"time"
)

// handleJOIN implements JOIN: the first joiner creates the channel and
// becomes its operator.
func handleJOIN(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNeedMoreParams, "JOIN", "Not enough parameters")
		return
	}

	u := c.User
	for _, name := range strings.Split(m.Params[0], ",") {
		if !isValidChannel(name) {
			e.sendNumeric(c, errNoSuchChannel, name, "No such channel")
			continue
		}

		channel, created := e.Dir.getOrCreateChannel(name, time.Now().Unix())
		if u.onChannel(channel.Name) {
			continue
		}

		ms := addMember(channel, u)
		if created {
			ms.Modes.Add('o')
		}

		for other := range channel.Members {
			e.sendFromUser(other.Conn, u, "JOIN", channel.Name)
		}

		sendTopicReply(e, c, channel)
		sendNamesReply(e, c, channel)
	}
}

// handlePART implements PART.
func handlePART(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNeedMoreParams, "PART", "Not enough parameters")
		return
	}

	u := c.User
	reason := ""
	if len(m.Params) > 1 {
		reason = m.Params[1]
	}

	for _, name := range strings.Split(m.Params[0], ",") {
		channel, ok := e.Dir.findChannel(name)
		if !ok {
			e.sendNumeric(c, errNoSuchChannel, name, "No such channel")
			continue
		}
		if !u.onChannel(channel.Name) {
			e.sendNumeric(c, errNotOnChannel, channel.Name, "You're not on that channel")
			continue
		}

		params := []string{channel.Name}
		if reason != "" {
			params = append(params, reason)
		}
		for other := range channel.Members {
			e.sendFromUser(other.Conn, u, "PART", params...)
		}

		removeMember(channel, u)
		e.Dir.destroyChannelIfEmpty(channel)
	}
}

// handleTOPIC implements TOPIC: with one parameter it queries the topic,
// with two it sets it (subject to the 't' mode gate).
func handleTOPIC(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNeedMoreParams, "TOPIC", "Not enough parameters")
		return
	}

	channel, ok := e.Dir.findChannel(m.Params[0])
	if !ok {
		e.sendNumeric(c, errNoSuchChannel, m.Params[0], "No such channel")
		return
	}

	u := c.User
	ms := u.membership(channel.Name)
	if ms == nil {
		e.sendNumeric(c, errNotOnChannel, channel.Name, "You're not on that channel")
		return
	}

	if len(m.Params) == 1 {
		sendTopicReply(e, c, channel)
		return
	}

	if channel.isTopicLocked() && !ms.isOperator() {
		e.sendNumeric(c, errChanOPrivsNeeded, channel.Name, "You're not channel operator")
		return
	}

	topic := m.Params[1]
	if len(topic) > maxTopicLength {
		topic = topic[:maxTopicLength]
	}
	channel.Topic = topic

	for other := range channel.Members {
		e.sendFromUser(other.Conn, u, "TOPIC", channel.Name, topic)
	}
}

func sendTopicReply(e *Engine, c *Connection, channel *Channel) {
	if channel.Topic == "" {
		e.sendNumeric(c, replyNoTopic, channel.Name, "No topic is set")
		return
	}
	e.sendNumeric(c, replyTopic, channel.Name, channel.Topic)
}

func sendNamesReply(e *Engine, c *Connection, channel *Channel) {
	var names []string
	for member, ms := range channel.Members {
		prefix := ""
		switch {
		case ms.isOperator():
			prefix = "@"
		case ms.isVoiced():
			prefix = "+"
		}
		names = append(names, prefix+member.Nick)
	}
	e.sendNumeric(c, replyNamReply, "=", channel.Name, strings.Join(names, " "))
	e.sendNumeric(c, replyEndOfNames, channel.Name, "End of NAMES list")
}

// handleMODE implements both the user-mode and channel-mode forms of MODE,
// dispatching on whether the target parses as a channel name.
func handleMODE(e *Engine, c *Connection, m Message) {
	if len(m.Params) == 0 {
		e.sendNumeric(c, errNeedMoreParams, "MODE", "Not enough parameters")
		return
	}

	target := m.Params[0]
	if isValidChannel(target) {
		handleChannelMode(e, c, target, m.Params[1:])
		return
	}
	handleUserMode(e, c, target, m.Params[1:])
}

func handleUserMode(e *Engine, c *Connection, target string, args []string) {
	u := c.User
	if u == nil || canonicalizeNick(target) != canonicalizeNick(u.Nick) {
		e.sendNumeric(c, errUsersDontMatch, "Cannot change mode for other users")
		return
	}

	if len(args) == 0 {
		e.sendNumeric(c, replyUModeIs, u.Modes.String())
		return
	}

	var applied strings.Builder
	adding := true
	for i := 0; i < len(args[0]); i++ {
		letter := args[0][i]
		switch letter {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		case 'o':
			// Operator status can never be self-granted via MODE, only OPER.
			// Silently refuse the add but allow de-opping.
			if adding {
				continue
			}
		case 'a':
		default:
			e.sendNumeric(c, errUModeUnknownFlag, "Unknown MODE flag")
			continue
		}

		var changed bool
		if adding {
			changed = u.Modes.Add(letter)
		} else {
			changed = u.Modes.Remove(letter)
		}
		if changed {
			applied.WriteString(signed(adding, letter))
		}
	}

	if applied.Len() == 0 {
		return
	}
	e.sendFromUser(c, u, "MODE", u.Nick, applied.String())
}

func handleChannelMode(e *Engine, c *Connection, target string, args []string) {
	channel, ok := e.Dir.findChannel(target)
	if !ok {
		e.sendNumeric(c, errNoSuchChannel, target, "No such channel")
		return
	}

	u := c.User
	ms := u.membership(channel.Name)

	if len(args) == 0 {
		e.sendNumeric(c, replyChannelModeIs, channel.Name, channel.Modes.String())
		e.sendNumeric(c, replyChannelCreated, channel.Name,
			strconv.FormatInt(channel.CreatedAt, 10))
		return
	}

	if ms == nil {
		e.sendNumeric(c, errNotOnChannel, channel.Name, "You're not on that channel")
		return
	}

	// Membership-target modes (o, v) take a nick argument; channel-wide modes
	// (m, t) do not. Walk the flag string pairing each letter that needs one
	// with the next positional arg.
	argi := 1
	adding := true
	for i := 0; i < len(args[0]); i++ {
		letter := args[0][i]
		switch letter {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}

		switch letter {
		case 'o', 'v':
			if argi >= len(args) {
				continue
			}
			nick := args[argi]
			argi++
			if !ms.isOperator() {
				e.sendNumeric(c, errChanOPrivsNeeded, channel.Name, "You're not channel operator")
				continue
			}
			target, ok := e.Dir.findUser(nick)
			if !ok {
				e.sendNumeric(c, errNoSuchNick, nick, "No such nick")
				continue
			}
			targetMs := target.membership(channel.Name)
			if targetMs == nil {
				e.sendNumeric(c, errUserNotInChannel, nick, channel.Name, "They aren't on that channel")
				continue
			}
			var changed bool
			if adding {
				changed = targetMs.Modes.Add(letter)
			} else {
				changed = targetMs.Modes.Remove(letter)
			}
			if changed {
				for other := range channel.Members {
					e.sendFromUser(other.Conn, u, "MODE", channel.Name, signed(adding, letter), nick)
				}
			}
		case 'm', 't':
			if !ms.isOperator() {
				e.sendNumeric(c, errChanOPrivsNeeded, channel.Name, "You're not channel operator")
				continue
			}
			var changed bool
			if adding {
				changed = channel.Modes.Add(letter)
			} else {
				changed = channel.Modes.Remove(letter)
			}
			if changed {
				for other := range channel.Members {
					e.sendFromUser(other.Conn, u, "MODE", channel.Name, signed(adding, letter))
				}
			}
		default:
			e.sendNumeric(c, errUnknownMode, string(letter), "is unknown mode char to me")
		}
	}
}

func signed(adding bool, letter byte) string {
	if adding {
		return "+" + string(letter)
	}
	return "-" + string(letter)
}
