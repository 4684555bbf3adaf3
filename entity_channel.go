package main

// Channel holds directory-wide state for one channel.
//
// A channel is created lazily by the first JOIN to an unknown name, and
// destroyed the moment its membership count drops to zero; removeMember
// reports when that has just happened so the directory can drop it.
type Channel struct {
	// Name preserves the first JOINer's original casing; the directory itself
	// keys channels by canonicalizeChannel(Name), so Name doubles as the
	// display form without needing a separate canonical field.
	Name string

	Topic string

	Modes ModeSet

	// Members indexes this channel's ChannelMemberships by user. It must
	// always agree with each member User's own Memberships index;
	// addMember/removeMember are the only mutators.
	Members map[*User]*ChannelMembership

	// CreatedAt records channel creation time (Unix seconds), used by MODE's
	// channel-timestamp reply.
	CreatedAt int64
}

func newChannel(name string, createdAt int64) *Channel {
	return &Channel{
		Name:      name,
		Modes:     NewModeSet(),
		Members:   map[*User]*ChannelMembership{},
		CreatedAt: createdAt,
	}
}

func (c *Channel) isModerated() bool { return c.Modes.Has('m') }
func (c *Channel) isTopicLocked() bool { return c.Modes.Has('t') }
