// Package session is the Session Handler (spec.md §4.E): one instance per
// connected client, translating wire instructions into Rule Engine calls
// and pumping room snapshots back out. Its dispatch loop and AsyncCloser
// embedding are grounded on the teacher's pkg/engine/console.Driver.
package session

import (
	"context"
	"sync/atomic"

	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/logging"
	"github.com/corvidlabs/chessroom/pkg/movegen"
	"github.com/corvidlabs/chessroom/pkg/room"
	"github.com/corvidlabs/chessroom/pkg/rules"
	"github.com/corvidlabs/chessroom/pkg/transport"
)

// Session drives one client's lifetime: INIT (seat acquisition, implicit at
// construction), SEATED (instruction dispatch), CLOSED (spec.md §4.E).
type Session struct {
	iox.AsyncCloser

	conn     transport.Connection
	registry *room.Registry
	logger   logging.Logger

	client ClientID
	r      *room.Room
	color  board.Color

	// selectionCursor holds the square most recently queried by
	// get_legal_moves, so a following request_move without an explicit
	// origin can be resolved -- spec.md §4.E's "Session stores last
	// selected square" requirement.
	selectionCursor atomic.Int64
}

// ClientID re-exports room.ClientID so callers need not import pkg/room
// solely to name a session's identity.
type ClientID = room.ClientID

const noCursor = -1

// New seats conn's owner into a room via registry, starts the session's
// inbound-read and outbound-fanout goroutines, and returns immediately.
// The session closes itself (and releases its seat) when conn breaks, ctx
// is done, or its own fan-out channel is found to have overflowed.
func New(ctx context.Context, conn transport.Connection, registry *room.Registry, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NoOp{}
	}

	client, r, color, snapshots := registry.AcquireSeat(ctx)

	s := &Session{
		AsyncCloser: iox.NewAsyncCloser(),
		conn:        conn,
		registry:    registry,
		logger:      logger,
		client:      client,
		r:           r,
		color:       color,
	}
	s.selectionCursor.Store(noCursor)
	r.SetCursorReset(client, func() { s.selectionCursor.Store(noCursor) })

	go s.runInbound(ctx)
	go s.runOutbound(ctx, snapshots)

	return s
}

// runOutbound pumps room snapshots to the client, starting with the seat
// assignment and an initial snapshot so a client joining mid-game sees the
// current board immediately (spec.md §4.E).
func (s *Session) runOutbound(ctx context.Context, snapshots <-chan room.Snapshot) {
	defer s.Close()

	if err := s.send(ctx, newAssignColorMessage(s.color)); err != nil {
		s.logger.Warningf(ctx, "client %v: failed sending assign_color: %v", s.client, err)
		return
	}
	if err := s.sendSnapshot(ctx, s.r.Snapshot()); err != nil {
		s.logger.Warningf(ctx, "client %v: failed sending initial snapshot: %v", s.client, err)
		return
	}

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				s.logger.Warningf(ctx, "client %v: fan-out channel closed, dropping seat", s.client)
				return
			}
			if err := s.sendSnapshot(ctx, snap); err != nil {
				s.logger.Warningf(ctx, "client %v: failed sending snapshot: %v", s.client, err)
				return
			}
		case <-ctx.Done():
			return
		case <-s.Closed():
			return
		}
	}
}

// runInbound reads and dispatches client instructions until the connection
// breaks or the session is closed, then releases the seat (spec.md §4.E).
func (s *Session) runInbound(ctx context.Context) {
	defer s.Close()
	defer s.registry.ReleaseSeat(ctx, s.r, s.client)
	defer s.conn.Close()

	for {
		data, err := s.conn.ReadMessage(ctx)
		if err != nil {
			s.logger.Infof(ctx, "client %v: connection closed: %v", s.client, err)
			return
		}

		msg, ok := parseInbound(data)
		if !ok {
			s.logger.Debugf(ctx, "client %v: ignoring malformed instruction", s.client)
			continue
		}
		s.logger.Debugf(ctx, "client %v: received %v", s.client, msg.InstructionType)

		switch msg.InstructionType {
		case instructionGetLegalMoves:
			s.handleGetLegalMoves(ctx, msg)
		case instructionRequestMove:
			s.handleRequestMove(ctx, msg)
		case instructionRematch:
			s.handleRematch(ctx)
		default:
			// Unknown instruction_type: ignore, per spec.md §7.
		}

		select {
		case <-s.Closed():
			return
		default:
		}
	}
}

func (s *Session) handleGetLegalMoves(ctx context.Context, msg inbound) {
	from, ok := parseSquare(msg.SquareClicked)
	if !ok {
		return
	}

	var targets []board.Square
	s.r.Do(func(state *board.GameState) {
		targets = movegen.LegalTargets(state, from)
	})

	s.selectionCursor.Store(int64(from))

	data, err := encodeLegalMoves(targets)
	if err != nil {
		s.logger.Errorf(ctx, "client %v: encoding legal moves: %v", s.client, err)
		return
	}
	if err := s.conn.WriteMessage(ctx, data); err != nil {
		s.logger.Warningf(ctx, "client %v: failed sending legal moves: %v", s.client, err)
	}
}

// handleRequestMove authorizes the move against the session's seated color
// (spec.md §5's defense against an illegal-color move), falls back to the
// selection cursor for the origin square when square_clicked is absent, and
// applies the move via the Rule Engine. Any rejection is silent on the wire
// per spec.md §7 -- the client simply receives no new snapshot.
func (s *Session) handleRequestMove(ctx context.Context, msg inbound) {
	from, ok := parseSquare(msg.SquareClicked)
	if !ok {
		cursor := s.selectionCursor.Load()
		if cursor == noCursor {
			return
		}
		from = board.Square(cursor)
	}
	to, ok := parseSquare(msg.Destination)
	if !ok {
		return
	}
	promotion := parsePromotion(msg.Promotion)

	var snap room.Snapshot
	var applied bool
	s.r.Do(func(state *board.GameState) {
		if state.Turn() != s.color {
			s.logger.Warningf(ctx, "client %v: rejected move, wrong turn (state.Turn=%v, seat=%v)", s.client, state.Turn(), s.color)
			return
		}
		if piece := state.PieceAt(from); piece.IsZero() || piece.Color != s.color {
			s.logger.Warningf(ctx, "client %v: rejected move, color mismatch at %v", s.client, from)
			return
		}
		if err := rules.ApplyMove(state, from, to, promotion); err != nil {
			s.logger.Infof(ctx, "client %v: rejected move %v->%v: %v", s.client, from, to, err)
			return
		}
		snap = room.NewSnapshot(state)
		applied = true
	})

	if applied {
		s.logger.Infof(ctx, "client %v: moved %v->%v", s.client, from, to)
		s.selectionCursor.Store(noCursor)
		s.registry.Broadcast(ctx, s.r, snap)
	}
}

// handleRematch resets the room's board to a fresh starting position,
// clears every seated session's selection cursor -- including the sessions
// this one shares a room with -- and broadcasts the reset snapshot, per
// spec.md §4.E. Either seated player may trigger it.
func (s *Session) handleRematch(ctx context.Context) {
	var snap room.Snapshot
	s.r.Do(func(state *board.GameState) {
		state.ResetToStartingPosition()
		snap = room.NewSnapshot(state)
	})
	s.r.ResetSelectionCursors()
	s.registry.Broadcast(ctx, s.r, snap)
}

func (s *Session) sendSnapshot(ctx context.Context, snap room.Snapshot) error {
	return s.send(ctx, snap)
}

func (s *Session) send(ctx context.Context, v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(ctx, data)
}
