package main

// Directory is the global index of connections, users, channels, and
// servers. Only the Engine's event-loop goroutine ever touches it, so no
// lock guards these maps.
type Directory struct {
	connections map[uint64]*Connection

	// users indexes registered users by canonicalized (case-folded) nick.
	users map[string]*User

	// channels indexes channels by canonicalized name.
	channels map[string]*Channel

	// servers indexes linked/linkable servers by name (server names are not
	// case-folded by the protocol).
	servers map[string]*ServerLink
}

func newDirectory() *Directory {
	return &Directory{
		connections: map[uint64]*Connection{},
		users:       map[string]*User{},
		channels:    map[string]*Channel{},
		servers:     map[string]*ServerLink{},
	}
}

func (d *Directory) addConnection(c *Connection) { d.connections[c.ID] = c }
func (d *Directory) removeConnection(c *Connection) {
	delete(d.connections, c.ID)
}

func (d *Directory) findUser(nick string) (*User, bool) {
	u, ok := d.users[canonicalizeNick(nick)]
	return u, ok
}

func (d *Directory) addUser(u *User) {
	d.users[canonicalizeNick(u.Nick)] = u
}

func (d *Directory) removeUser(u *User) {
	delete(d.users, canonicalizeNick(u.Nick))
}

// renameUser moves a user's directory entry from its old nick key to its new
// one. Called after the NICK handler has already validated uniqueness.
func (d *Directory) renameUser(u *User, oldNick string) {
	delete(d.users, canonicalizeNick(oldNick))
	d.users[canonicalizeNick(u.Nick)] = u
}

func (d *Directory) findChannel(name string) (*Channel, bool) {
	c, ok := d.channels[canonicalizeChannel(name)]
	return c, ok
}

// getOrCreateChannel returns the channel for name, creating it if it did not
// exist. The bool return indicates whether a fresh record was created, which
// is how the JOIN handler decides the joiner becomes channel operator.
func (d *Directory) getOrCreateChannel(name string, createdAt int64) (*Channel, bool) {
	key := canonicalizeChannel(name)
	if c, ok := d.channels[key]; ok {
		return c, false
	}
	c := newChannel(name, createdAt)
	d.channels[key] = c
	return c, true
}

// destroyChannelIfEmpty removes c from the directory iff it has zero
// members, returning whether it did so.
func (d *Directory) destroyChannelIfEmpty(c *Channel) bool {
	if len(c.Members) > 0 {
		return false
	}
	delete(d.channels, canonicalizeChannel(c.Name))
	return true
}

func (d *Directory) findServer(name string) (*ServerLink, bool) {
	s, ok := d.servers[name]
	return s, ok
}

func (d *Directory) addServer(s *ServerLink) { d.servers[s.Name] = s }

func (d *Directory) removeServer(s *ServerLink) { delete(d.servers, s.Name) }

// Aggregate counters used by LUSERS.

func (d *Directory) numUsers() int    { return len(d.users) }
func (d *Directory) numChannels() int { return len(d.channels) }
func (d *Directory) numServers() int  { return len(d.servers) }

func (d *Directory) numUnknownConnections() int {
	n := 0
	for _, c := range d.connections {
		if c.Kind == KindUnknown {
			n++
		}
	}
	return n
}

func (d *Directory) numOperators() int {
	n := 0
	for _, u := range d.users {
		if u.isOperator() {
			n++
		}
	}
	return n
}

func (d *Directory) numLocalServers() int {
	n := 0
	for _, s := range d.servers {
		if s.isLocalLink() {
			n++
		}
	}
	return n
}
