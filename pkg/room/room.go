package room

import (
	"sync"

	"github.com/corvidlabs/chessroom/pkg/board"
)

// ClientID uniquely identifies one connected session, assigned by a
// lock-free atomic counter (spec.md §9).
type ClientID uint64

const defaultFanoutCapacity = 100

// Room is a two-player isolated game instance (spec.md §3). The Board
// Model is owned exclusively by its Room -- no reference escapes (spec.md
// §3 Ownership) -- so every read or mutation of State must go through Do.
type Room struct {
	ID string

	mu    sync.Mutex
	state *board.GameState

	fanoutCapacity int
	seats          [2]ClientID // 0 = unassigned
	subscribers    map[ClientID]chan Snapshot

	// cursorResets holds each subscribed session's selection-cursor reset
	// hook, so rematch can clear every seated session's cursor (spec.md
	// §4.E) without Room needing to know anything about pkg/session itself.
	cursorResets map[ClientID]func()
}

// newRoom creates a fresh starting position and takes the room_id from its
// game_code, so the two are equal at room-creation time (SPEC_FULL.md §3.1).
// The caller is responsible for resolving a game_code collision against its
// registry before committing the room.
func newRoom(fanoutCapacity int) *Room {
	if fanoutCapacity <= 0 {
		fanoutCapacity = defaultFanoutCapacity
	}
	state := board.NewStartingPosition()
	return &Room{
		ID:             state.GameCode(),
		state:          state,
		fanoutCapacity: fanoutCapacity,
		subscribers:    make(map[ClientID]chan Snapshot),
		cursorResets:   make(map[ClientID]func()),
	}
}

// Do runs fn with the room lock held, guarding the GameState and seat/
// subscriber bookkeeping per spec.md §5's locking discipline. fn must not
// block on I/O.
func (r *Room) Do(fn func(state *board.GameState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
}

// Snapshot returns the current public view of the room's state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return NewSnapshot(r.state)
}

// openSeatLocked returns the color to assign a new seat and true, or false
// if both seats are taken. Must be called with r.mu held.
func (r *Room) openSeatLocked() (board.Color, bool) {
	if r.seats[0] == 0 {
		return board.White, true
	}
	if r.seats[1] == 0 {
		return board.Black, true
	}
	return board.ZeroColor, false
}

// subscribeLocked registers client's outbound channel and assigns the seat.
// Must be called with r.mu held.
func (r *Room) subscribeLocked(client ClientID, color board.Color) chan Snapshot {
	idx := 0
	if color == board.Black {
		idx = 1
	}
	r.seats[idx] = client

	ch := make(chan Snapshot, r.fanoutCapacity)
	r.subscribers[client] = ch
	return ch
}

// unsubscribe removes client from the room's subscriber list and frees its
// seat. Per spec.md §4.D, this never destroys the room even if both seats
// empty out.
func (r *Room) unsubscribe(client ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.subscribers[client]; ok {
		close(ch)
		delete(r.subscribers, client)
	}
	delete(r.cursorResets, client)
	for i, seat := range r.seats {
		if seat == client {
			r.seats[i] = 0
		}
	}
}

// SetCursorReset registers the hook that clears client's session-side
// selection cursor, invoked by ResetSelectionCursors on rematch.
func (r *Room) SetCursorReset(client ClientID, reset func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursorResets[client] = reset
}

// ResetSelectionCursors invokes every seated session's cursor-reset hook,
// per spec.md §4.E's rematch requirement to clear every session's
// selection_cursor in the room. Hooks run outside the room lock.
func (r *Room) ResetSelectionCursors() {
	r.mu.Lock()
	hooks := make([]func(), 0, len(r.cursorResets))
	for _, reset := range r.cursorResets {
		hooks = append(hooks, reset)
	}
	r.mu.Unlock()

	for _, reset := range hooks {
		reset()
	}
}

// SeatColor returns the color assigned to client, if any.
func (r *Room) SeatColor(client ClientID) (board.Color, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, seat := range r.seats {
		if seat == client {
			return board.Color(i), true
		}
	}
	return board.ZeroColor, false
}

// publish enqueues snap onto every subscriber's fan-out channel in the
// order this Room's broadcaster observed them (spec.md §5). Subscribers
// whose channel is full (the bounded-capacity overflow of spec.md §4.D/§7)
// are dropped: their channels are closed, their seats freed, and their ids
// returned so the caller can report them.
func (r *Room) publish(snap Snapshot) []ClientID {
	r.mu.Lock()
	defer r.mu.Unlock()

	var overflowed []ClientID
	for client, ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			overflowed = append(overflowed, client)
		}
	}
	for _, client := range overflowed {
		if ch, ok := r.subscribers[client]; ok {
			close(ch)
			delete(r.subscribers, client)
		}
		for i, seat := range r.seats {
			if seat == client {
				r.seats[i] = 0
			}
		}
	}
	return overflowed
}

// occupiedSeats reports how many of the room's two seats are filled.
func (r *Room) occupiedSeats() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, seat := range r.seats {
		if seat != 0 {
			n++
		}
	}
	return n
}
