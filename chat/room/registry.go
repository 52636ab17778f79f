package room

import (
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrAlreadyInRoom = errors.New("client already in a room")
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotInRoom     = errors.New("client not in a room")
	ErrNotMember     = errors.New("not a member of this room")
)

// Registry owns the mapping of PIN -> room and client identity -> PIN.
// All operations are safe for concurrent use; compound check-then-mutate
// sequences execute atomically under one lock.
type Registry struct {
	mu          sync.Mutex
	rooms       map[string]*state
	clientRooms map[string]string // client identity -> pin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:       make(map[string]*state),
		clientRooms: make(map[string]string),
	}
}

// Create allocates a fresh PIN and creates a room with the creator as its
// only member, registering the client-identity binding. It fails with
// ErrAlreadyInRoom if the client identity is already bound to a room. The
// PIN draw and the room insert happen under the same lock, so a concurrent
// creation can never claim the same PIN. Capacity must already be clamped
// into [MinCapacity, MaxCapacity] by the caller.
func (r *Registry) Create(connID, username, clientKey string, capacity int) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, bound := r.clientRooms[clientKey]; bound {
		return Snapshot{}, ErrAlreadyInRoom
	}

	pin := GeneratePIN(func(p string) bool {
		_, exists := r.rooms[p]
		return exists
	})

	s := &state{
		pin:       pin,
		members:   map[string]Member{connID: {Username: username, ClientKey: clientKey}},
		capacity:  capacity,
		createdAt: time.Now(),
	}
	r.rooms[pin] = s
	r.clientRooms[clientKey] = pin

	return s.snapshot(), nil
}

// Join adds a member to an existing room and registers the client-identity
// binding. The precondition checks run in protocol order inside one critical
// section: ErrAlreadyInRoom if the identity is bound elsewhere,
// ErrRoomNotFound if the PIN is absent, ErrRoomFull at capacity. On success
// it returns the updated snapshot and a copy of the room's message history
// for replay to the joiner.
func (r *Registry) Join(pin, connID, username, clientKey string) (Snapshot, []Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, bound := r.clientRooms[clientKey]; bound {
		return Snapshot{}, nil, ErrAlreadyInRoom
	}

	s, exists := r.rooms[pin]
	if !exists {
		return Snapshot{}, nil, ErrRoomNotFound
	}

	if len(s.members) >= s.capacity {
		return Snapshot{}, nil, ErrRoomFull
	}

	s.members[connID] = Member{Username: username, ClientKey: clientKey}
	r.clientRooms[clientKey] = pin

	history := make([]Message, len(s.history))
	copy(history, s.history)

	return s.snapshot(), history, nil
}

// RemoveMember removes the client from its current room, located via the
// client-identity binding rather than the connection ID (a client may
// reconnect with a different connection). The binding is always cleared on
// success. If the last member left, the room is destroyed and the returned
// Departure has WasLast set. ErrNotInRoom is returned when there is no
// binding, the bound room has vanished, or the connection ID is stale.
func (r *Registry) RemoveMember(connID, clientKey string) (Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pin, bound := r.clientRooms[clientKey]
	if !bound {
		return Departure{}, ErrNotInRoom
	}

	s, exists := r.rooms[pin]
	if !exists {
		return Departure{}, ErrNotInRoom
	}

	m, exists := s.members[connID]
	if !exists {
		return Departure{}, ErrNotInRoom
	}

	delete(s.members, connID)
	delete(r.clientRooms, clientKey)

	dep := Departure{Pin: pin, Username: m.Username}
	if len(s.members) == 0 {
		delete(r.rooms, pin)
		dep.WasLast = true
		log.Printf("Room %s deleted (no users left)", pin)
		return dep, nil
	}

	dep.Room = s.snapshot()
	return dep, nil
}

// Member looks up a room member by connection ID. It distinguishes a missing
// room (ErrRoomNotFound) from a stale connection ID (ErrNotMember).
func (r *Registry) Member(pin, connID string) (Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.rooms[pin]
	if !exists {
		return Member{}, ErrRoomNotFound
	}
	m, exists := s.members[connID]
	if !exists {
		return Member{}, ErrNotMember
	}
	return m, nil
}

// Append adds a message to a room's history. It reports false when the room
// no longer exists; absence is an expected outcome under races with a
// concurrent leave, never a fault.
func (r *Registry) Append(pin string, msg Message) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.rooms[pin]
	if !exists {
		return false
	}
	s.history = append(s.history, msg)
	return true
}

// Get returns a snapshot of the room with the given PIN.
func (r *Registry) Get(pin string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.rooms[pin]
	if !exists {
		return Snapshot{}, false
	}
	return s.snapshot(), true
}

// ClientRoom returns the PIN and snapshot of the room a client identity is
// currently bound to.
func (r *Registry) ClientRoom(clientKey string) (string, Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pin, bound := r.clientRooms[clientKey]
	if !bound {
		return "", Snapshot{}, false
	}
	s, exists := r.rooms[pin]
	if !exists {
		return "", Snapshot{}, false
	}
	return pin, s.snapshot(), true
}

// IsBound reports whether a client identity currently occupies a room.
func (r *Registry) IsBound(clientKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, bound := r.clientRooms[clientKey]
	return bound
}

// Stats returns the number of live rooms and the total member count across
// them, for the informational API.
func (r *Registry) Stats() (rooms, activeUsers int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.rooms {
		activeUsers += len(s.members)
	}
	return len(r.rooms), activeUsers
}

// Check reports whether a PIN names a live room and, if so, its occupancy.
func (r *Registry) Check(pin string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.rooms[pin]
	if !exists {
		return Status{}
	}
	return Status{
		Exists:    true,
		IsFull:    len(s.members) >= s.capacity,
		UserCount: len(s.members),
		MaxUsers:  s.capacity,
	}
}
