package main

// ChannelMembership is the User x Channel relation. It is jointly owned by
// its User and Channel: each indexes the same *ChannelMembership value by
// the other's key. addMember/removeMember are the only two functions allowed
// to create or destroy one, which is what keeps the dual index from ever
// disagreeing.
type ChannelMembership struct {
	User    *User
	Channel *Channel

	// Modes holds the per-membership flags, over {o (operator), v (voice)}.
	Modes ModeSet
}

func (m *ChannelMembership) isOperator() bool { return m.Modes.Has('o') }
func (m *ChannelMembership) isVoiced() bool   { return m.Modes.Has('v') }

// addMember creates a membership linking user and channel, unless one
// already exists (in which case it is returned unchanged). The caller is
// responsible for deciding what modes a brand new membership starts with
// (e.g. channel creator gets 'o').
func addMember(channel *Channel, user *User) *ChannelMembership {
	if m, ok := channel.Members[user]; ok {
		return m
	}

	m := &ChannelMembership{
		User:    user,
		Channel: channel,
		Modes:   NewModeSet(),
	}

	channel.Members[user] = m
	user.Memberships[channel.Name] = m

	return m
}

// removeMember destroys the membership linking user and channel, if any. It
// returns true if the channel is now empty; the caller must then remove it
// from the directory.
func removeMember(channel *Channel, user *User) (destroyed bool) {
	if _, ok := channel.Members[user]; !ok {
		return false
	}

	delete(channel.Members, user)
	delete(user.Memberships, channel.Name)

	return len(channel.Members) == 0
}
