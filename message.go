package main

import (
	"github.com/horgh/irc"
)

// Message is this server's wire message type. Parsing and encoding are
// github.com/horgh/irc in their entirety and are never reimplemented here.
type Message = irc.Message

// maxLineLength is the protocol's maximum octet length of one line,
// including the terminating CRLF.
const maxLineLength = irc.MaxLineLength

// errTruncated reports that an encoded line had to be cut at the length
// limit. The truncated line is still usable.
var errTruncated = irc.ErrTruncated

func parseMessage(line string) (Message, error) {
	return irc.ParseMessage(line)
}

// encodeLine renders m back to a CRLF-terminated wire line. Encode already
// truncates the trailing parameter and reports errTruncated if the line
// would otherwise exceed maxLineLength, so no separate length-budgeting
// pass is needed on top of it; writeLoop treats errTruncated as non-fatal
// and writes the truncated line as-is.
func encodeLine(m Message) (string, error) {
	return m.Encode()
}
