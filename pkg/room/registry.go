package room

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/logging"
)

// Registry maintains the dense room_id -> Room mapping of spec.md §4.D
// behind a single lock. Client identifiers are produced by a lock-free
// atomic counter, per spec.md §9's resolution of "shared mutable global
// state"; room identifiers are drawn from each room's own game_code
// instead (SPEC_FULL.md §3.1: the two are equal at room-creation time), so
// no separate room-id counter is kept.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	order []string // insertion order; a FIFO scan is sufficient per spec.md §4.D.

	nextClientID atomic.Uint64

	fanoutCapacity int
	logger         logging.Logger
}

// NewRegistry returns an empty Registry. fanoutCapacity is the per-
// subscriber bounded channel size (spec.md §4.D default is 100); 0 selects
// the default.
func NewRegistry(fanoutCapacity int, logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOp{}
	}
	return &Registry{
		rooms:          make(map[string]*Room),
		fanoutCapacity: fanoutCapacity,
		logger:         logger,
	}
}

// AcquireSeat finds any room with fewer than two seats (FIFO over
// insertion order), creating one if none exists, assigns White to the
// room's first seat and Black to its second, and subscribes the client's
// outbound channel. The registry lock is held only long enough to commit
// the seat -- no network I/O happens under it.
func (reg *Registry) AcquireSeat(ctx context.Context) (ClientID, *Room, board.Color, <-chan Snapshot) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	client := ClientID(reg.nextClientID.Add(1))

	for _, id := range reg.order {
		r := reg.rooms[id]
		r.mu.Lock()
		color, open := r.openSeatLocked()
		if !open {
			r.mu.Unlock()
			continue
		}
		ch := r.subscribeLocked(client, color)
		r.mu.Unlock()

		reg.logger.Infof(ctx, "client %v seated %v in room %v", client, color, r.ID)
		return client, r, color, ch
	}

	// Retry on the astronomically rare game_code collision: room_id is the
	// game_code itself (SPEC_FULL.md §3.1), so two freshly-drawn rooms can't
	// share a slot in reg.rooms.
	var r *Room
	for {
		candidate := newRoom(reg.fanoutCapacity)
		if _, exists := reg.rooms[candidate.ID]; !exists {
			r = candidate
			break
		}
	}
	reg.rooms[r.ID] = r
	reg.order = append(reg.order, r.ID)

	r.mu.Lock()
	ch := r.subscribeLocked(client, board.White)
	r.mu.Unlock()

	reg.logger.Infof(ctx, "created room %v, client %v seated White", r.ID, client)
	return client, r, board.White, ch
}

// ReleaseSeat unsubscribes client from its room. The room is never
// destroyed, even if both seats empty out (spec.md §4.D's simplification).
func (reg *Registry) ReleaseSeat(ctx context.Context, r *Room, client ClientID) {
	if r == nil {
		return
	}
	r.unsubscribe(client)
	reg.logger.Infof(ctx, "client %v released seat in room %v", client, r.ID)
}

// Room looks up a room by id.
func (reg *Registry) Room(id string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// ReapIdle removes rooms with no occupied seats from the registry. This is
// ambient garbage collection, never invoked by the core session/room
// protocol itself -- it resolves spec.md §9 Open Question 4's own
// recommendation ("A production variant should add idle-room GC") without
// changing the Room lifecycle rule of spec.md §3.
func (reg *Registry) ReapIdle(ctx context.Context) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reaped := 0
	reg.order = slices.DeleteFunc(reg.order, func(id string) bool {
		if reg.rooms[id].occupiedSeats() != 0 {
			return false
		}
		delete(reg.rooms, id)
		reaped++
		return true
	})

	if reaped > 0 {
		reg.logger.Infof(ctx, "reaped %v idle room(s)", reaped)
	}
	return reaped
}

// Broadcast enqueues snap onto every subscriber of r, releasing the seats
// of any subscriber whose fan-out channel had overflowed (spec.md §7).
func (reg *Registry) Broadcast(ctx context.Context, r *Room, snap Snapshot) {
	overflowed := r.publish(snap)
	for _, client := range overflowed {
		reg.logger.Warningf(ctx, "client %v lagged room %v fan-out, dropped", client, r.ID)
	}
}
