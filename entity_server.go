package main

// ServerLink represents a linked (or linkable) IRC server. In standalone
// mode exactly one ServerLink exists: "this server".
//
// This holds only what the registration handshake and one-hop relay need;
// there is no multi-hop routing table.
type ServerLink struct {
	Name        string
	Description string
	Hostname    string
	Port        int
	Passwd      string

	// Registered is true once the PASS/SERVER handshake has completed for a
	// linked (non-local) server.
	Registered bool

	// Conn is set for a server we are actively linked to (nil for roster
	// entries we have not connected to, and nil for "this server").
	Conn *Connection
}

func (s *ServerLink) isLocalLink() bool { return s.Conn != nil }
