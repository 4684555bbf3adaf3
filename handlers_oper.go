package main

// handleOPER implements OPER. There is a single shared operator password;
// the name parameter is required but not checked against anything.
func handleOPER(e *Engine, c *Connection, m Message) {
	if len(m.Params) < 2 {
		e.sendNumeric(c, errNeedMoreParams, "OPER", "Not enough parameters")
		return
	}

	if m.Params[1] != e.Config.OperPasswd {
		e.sendNumeric(c, errPasswdMismatch, "Password incorrect")
		return
	}

	u := c.User
	u.Modes.Add('o')
	e.sendNumeric(c, replyYoureOper, "You are now an IRC operator")
}
