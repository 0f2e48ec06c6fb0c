package room

import (
	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/rules"
)

// occupant is the per-square board rendering of the snapshot schema
// (spec.md §6): null, or {"piece_type":"...", "color":"..."}.
type occupant struct {
	Kind  board.Kind  `json:"piece_type"`
	Color board.Color `json:"color"`
}

// Snapshot is the complete public view of a room's game state, published
// after every accepted mutation (spec.md §3, §6).
type Snapshot struct {
	Board               [64]*occupant `json:"board"`
	Turn                board.Color   `json:"turn"`
	CastlingRights      board.Rights  `json:"castling_rights"`
	EnPassantSquare     *int          `json:"en_passant_square"`
	HalfmoveClock       int           `json:"halfmove_clock"`
	FullmoveClock       int           `json:"fullmove_clock"`
	GameCode            string        `json:"game_code"`
	InCheck             bool          `json:"in_check"`
	IsCheckmate         bool          `json:"is_checkmate"`
	IsStalemate         bool          `json:"is_stalemate"`
	IsThreefold         bool          `json:"is_threefold_repetition"`
	IsFiftyMoveDraw     bool          `json:"is_fifty_move_draw"`
	IsInsufficientMatrl bool          `json:"is_insufficient_material"`
}

// NewSnapshot serializes state plus its derived terminal predicates into
// the wire schema spec.md §6 defines.
func NewSnapshot(state *board.GameState) Snapshot {
	snap := Snapshot{
		Turn:                state.Turn(),
		CastlingRights:      state.Castling().Rights(),
		HalfmoveClock:       state.HalfmoveClock(),
		FullmoveClock:       state.FullmoveClock(),
		GameCode:            state.GameCode(),
		InCheck:             rules.InCheck(state),
		IsCheckmate:         rules.IsCheckmate(state),
		IsStalemate:         rules.IsStalemate(state),
		IsThreefold:         rules.IsThreefoldRepetition(state),
		IsFiftyMoveDraw:     rules.IsFiftyMoveDraw(state),
		IsInsufficientMatrl: rules.IsInsufficientMaterial(state),
	}

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		if p := state.PieceAt(sq); !p.IsZero() {
			snap.Board[sq] = &occupant{Kind: p.Kind, Color: p.Color}
		}
	}

	if ep, ok := state.EnPassant(); ok {
		v := int(ep)
		snap.EnPassantSquare = &v
	}

	return snap
}
