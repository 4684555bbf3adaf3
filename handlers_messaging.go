package main

// handlePRIVMSG implements PRIVMSG: target is either a channel or a nick.
// Moderated channels (mode m) require voice or operator to speak in;
// messaging an away user gets a courtesy 301 back.
func handlePRIVMSG(e *Engine, c *Connection, m Message) {
	deliverMessage(e, c, m, "PRIVMSG")
}

func handleNOTICE(e *Engine, c *Connection, m Message) {
	deliverMessage(e, c, m, "NOTICE")
}

func deliverMessage(e *Engine, c *Connection, m Message, command string) {
	if len(m.Params) == 0 {
		if command == "PRIVMSG" {
			e.sendNumeric(c, errNoRecipient, "No recipient given ("+command+")")
		}
		return
	}
	if len(m.Params) < 2 || m.Params[1] == "" {
		if command == "PRIVMSG" {
			e.sendNumeric(c, errNoTextToSend, "No text to send")
		}
		return
	}

	u := c.User
	target := m.Params[0]
	text := m.Params[1]

	if isValidChannel(target) {
		channel, ok := e.Dir.findChannel(target)
		if !ok {
			if command == "PRIVMSG" {
				e.sendNumeric(c, errNoSuchChannel, target, "No such channel")
			}
			return
		}

		ms := u.membership(channel.Name)
		if channel.isModerated() && (ms == nil || (!ms.isOperator() && !ms.isVoiced())) {
			if command == "PRIVMSG" {
				e.sendNumeric(c, errCannotSendToChan, channel.Name, "Cannot send to channel")
			}
			return
		}

		for other := range channel.Members {
			if other == u {
				continue
			}
			e.sendFromUser(other.Conn, u, command, channel.Name, text)
		}
		return
	}

	targetUser, ok := e.Dir.findUser(target)
	if !ok {
		if command == "PRIVMSG" {
			e.sendNumeric(c, errNoSuchNick, target, "No such nick/channel")
		}
		return
	}

	e.sendFromUser(targetUser.Conn, u, command, targetUser.Nick, text)

	if command == "PRIVMSG" && targetUser.isAway() {
		e.sendNumeric(c, replyAway, targetUser.Nick, targetUser.AwayMessage)
	}
}

// handleAWAY implements AWAY: no parameter, or an empty one, clears away
// status; any other parameter sets it.
func handleAWAY(e *Engine, c *Connection, m Message) {
	u := c.User
	if len(m.Params) == 0 || m.Params[0] == "" {
		u.AwayMessage = ""
		e.sendNumeric(c, replyUnAway, "You are no longer marked as being away")
		return
	}

	msg := m.Params[0]
	if len(msg) > maxTopicLength {
		msg = msg[:maxTopicLength]
	}
	u.AwayMessage = msg
	e.sendNumeric(c, replyNowAway, "You have been marked as being away")
}
