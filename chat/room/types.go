package room

import (
	"sort"
	"time"
)

// Capacity bounds for a room. Requested capacities are clamped into
// [MinCapacity, MaxCapacity]; DefaultCapacity applies when the request is
// absent or invalid.
const (
	MinCapacity     = 1
	MaxCapacity     = 10
	DefaultCapacity = 5
)

// ClampCapacity normalizes a requested room capacity. Values below
// MinCapacity fall back to DefaultCapacity; values above MaxCapacity are
// capped at MaxCapacity.
func ClampCapacity(requested int) int {
	if requested < MinCapacity {
		return DefaultCapacity
	}
	if requested > MaxCapacity {
		return MaxCapacity
	}
	return requested
}

// Member is a participant entry inside a room, keyed by connection ID.
type Member struct {
	Username  string `json:"username"`
	ClientKey string `json:"-"`
}

// Message is a single chat message kept in a room's history. The author name
// is captured at send time and is not a live reference to the member.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a point-in-time view of a room, safe to use outside the
// registry lock. Usernames are sorted for deterministic output.
type Snapshot struct {
	Pin       string
	Users     []string
	UserCount int
	MaxUsers  int
	CreatedAt time.Time
}

// Status reports PIN existence and occupancy for the checkRoom query.
type Status struct {
	Exists    bool `json:"exists"`
	IsFull    bool `json:"isFull"`
	UserCount int  `json:"userCount"`
	MaxUsers  int  `json:"maxUsers"`
}

// Departure describes the outcome of removing a member from their room.
// Room holds the post-removal snapshot; it is the zero value when WasLast is
// true, since the room has been destroyed.
type Departure struct {
	Pin      string
	Username string
	WasLast  bool
	Room     Snapshot
}

// state is the registry-private representation of a live room.
type state struct {
	pin       string
	members   map[string]Member // keyed by connection ID
	history   []Message
	capacity  int
	createdAt time.Time
}

func (s *state) snapshot() Snapshot {
	users := make([]string, 0, len(s.members))
	for _, m := range s.members {
		users = append(users, m.Username)
	}
	sort.Strings(users)
	return Snapshot{
		Pin:       s.pin,
		Users:     users,
		UserCount: len(s.members),
		MaxUsers:  s.capacity,
		CreatedAt: s.createdAt,
	}
}
