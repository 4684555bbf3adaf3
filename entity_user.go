package main

import "fmt"

// User holds directory-wide state for a registered IRC user.
//
// A User only exists once NICK and USER have both been supplied on a
// connection. It is removed on QUIT, disconnect, or kill, and must hold
// zero ChannelMemberships at that point.
type User struct {
	// Nick is the display form of the user's nickname (case preserved).
	Nick string

	Username string
	FullName string
	Hostname string

	Modes ModeSet

	// AwayMessage is set when the user has used AWAY. Empty means not away.
	AwayMessage string

	// Memberships indexes this user's ChannelMemberships by the channel's
	// Name. It must always agree with each referenced Channel's own Members
	// index; addMember/removeMember are the only code paths allowed to
	// mutate either side.
	Memberships map[string]*ChannelMembership

	// Conn is the live connection this user is attached to. Always non-nil
	// for a User reachable through the directory.
	Conn *Connection
}

func newUser(nick, username, fullName, hostname string, conn *Connection) *User {
	return &User{
		Nick:        nick,
		Username:    username,
		FullName:    fullName,
		Hostname:    hostname,
		Modes:       NewModeSet(),
		Memberships: map[string]*ChannelMembership{},
		Conn:        conn,
	}
}

// Prefix renders the "nick!user@host" form used as a message prefix.
func (u *User) Prefix() string {
	return fmt.Sprintf("%s!%s@%s", u.Nick, u.Username, u.Hostname)
}

func (u *User) isOperator() bool {
	return u.Modes.Has('o')
}

func (u *User) isAway() bool {
	return u.AwayMessage != ""
}

func (u *User) onChannel(name string) bool {
	_, ok := u.Memberships[name]
	return ok
}

func (u *User) membership(name string) *ChannelMembership {
	return u.Memberships[name]
}
