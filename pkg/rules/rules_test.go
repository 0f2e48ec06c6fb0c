package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/rules"
)

func sq(file, rank int) board.Square { return board.NewSquare(file, rank) }

func TestApplyMoveRejectsIllegalMove(t *testing.T) {
	state := board.NewStartingPosition()

	err := rules.ApplyMove(state, sq(4, 1), sq(4, 4), board.NoPiece)
	assert.ErrorIs(t, err, rules.ErrIllegalMove)
}

func TestApplyMoveFlipsTurnAndAdvancesClocks(t *testing.T) {
	state := board.NewStartingPosition()

	require.NoError(t, rules.ApplyMove(state, sq(4, 1), sq(4, 3), board.NoPiece))
	assert.Equal(t, board.Black, state.Turn())
	assert.Equal(t, 1, state.FullmoveClock())
	assert.Equal(t, 0, state.HalfmoveClock())

	require.NoError(t, rules.ApplyMove(state, sq(4, 6), sq(4, 4), board.NoPiece))
	assert.Equal(t, board.White, state.Turn())
	assert.Equal(t, 2, state.FullmoveClock())
}

func TestScholarsMate(t *testing.T) {
	state := board.NewStartingPosition()

	moves := []struct{ from, to board.Square }{
		{sq(4, 1), sq(4, 3)}, // e4
		{sq(4, 6), sq(4, 4)}, // e5
		{sq(5, 0), sq(2, 3)}, // Bc4
		{sq(1, 7), sq(2, 5)}, // Nc6
		{sq(3, 0), sq(7, 4)}, // Qh5
		{sq(6, 7), sq(5, 5)}, // Nf6 (dummy reply)
		{sq(7, 4), sq(5, 6)}, // Qxf7#
	}
	for _, mv := range moves {
		require.NoError(t, rules.ApplyMove(state, mv.from, mv.to, board.NoPiece))
	}

	assert.True(t, rules.InCheck(state))
	assert.True(t, rules.IsCheckmate(state))
}

func TestKingsideCastleRelocatesRook(t *testing.T) {
	state := board.NewStartingPosition()

	moves := []struct{ from, to board.Square }{
		{sq(4, 1), sq(4, 3)},
		{sq(4, 6), sq(4, 4)},
		{sq(6, 0), sq(5, 2)},
		{sq(1, 7), sq(2, 5)},
		{sq(5, 0), sq(4, 1)},
		{sq(2, 5), sq(1, 7)},
	}
	for _, mv := range moves {
		require.NoError(t, rules.ApplyMove(state, mv.from, mv.to, board.NoPiece))
	}

	require.NoError(t, rules.ApplyMove(state, board.E1, sq(6, 0), board.NoPiece))

	king := state.PieceAt(sq(6, 0))
	assert.Equal(t, board.King, king.Kind)
	rook := state.PieceAt(sq(5, 0))
	assert.Equal(t, board.Rook, rook.Kind)
	assert.True(t, state.PieceAt(board.E1).IsZero())
	assert.True(t, state.PieceAt(board.H1).IsZero())

	rights := state.Castling().Rights()
	assert.False(t, rights.WhiteKingside)
	assert.False(t, rights.WhiteQueenside)
}

func TestEnPassantCapture(t *testing.T) {
	state := board.NewStartingPosition()

	moves := []struct {
		from, to  board.Square
		promotion board.Kind
	}{
		{sq(4, 1), sq(4, 3), board.NoPiece}, // e4
		{sq(0, 6), sq(0, 5), board.NoPiece}, // a6 (dummy)
		{sq(4, 3), sq(4, 4), board.NoPiece}, // e5
		{sq(3, 6), sq(3, 4), board.NoPiece}, // d5, sets en-passant target d6
	}
	for _, mv := range moves {
		require.NoError(t, rules.ApplyMove(state, mv.from, mv.to, mv.promotion))
	}

	ep, ok := state.EnPassant()
	require.True(t, ok)
	assert.Equal(t, sq(3, 5), ep)

	require.NoError(t, rules.ApplyMove(state, sq(4, 4), sq(3, 5), board.NoPiece))

	assert.True(t, state.PieceAt(sq(3, 4)).IsZero(), "captured pawn must be removed")
	captured := state.PieceAt(sq(3, 5))
	assert.Equal(t, board.Pawn, captured.Kind)
	assert.Equal(t, board.White, captured.Color)
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	state := board.NewStartingPosition()

	// Walk a White pawn to the seventh rank via captures is tedious to set
	// up from the starting position without a FEN loader, so this exercises
	// the promotion branch directly against a position reachable by plain
	// pawn pushes and a capture on the 7th.
	moves := []struct{ from, to board.Square }{
		{sq(0, 1), sq(0, 3)}, // a4
		{sq(1, 6), sq(1, 4)}, // b5
		{sq(0, 3), sq(1, 4)}, // axb5
		{sq(1, 7), sq(2, 5)}, // Nc6 (dummy)
		{sq(1, 4), sq(1, 5)}, // b6
		{sq(2, 5), sq(1, 7)}, // Nb8 (dummy)
		{sq(1, 5), sq(1, 6)}, // bxc7... actually b7 occupied by black pawn
	}
	_ = moves // superseded by the direct ApplyMove call below.

	// Build directly: advance a White pawn alone to b7 by repeated legal
	// captures is exactly what LegalTargets/ApplyMove already verify
	// elsewhere; here we only check the promotion-choice contract once the
	// pawn is legally on the seventh rank and promotes by capturing the
	// rook on a8, using the same clock/turn machinery ApplyMove always runs
	// through.
	state = board.NewStartingPosition()
	seq := []struct{ from, to board.Square }{
		{sq(1, 1), sq(1, 3)}, // b4
		{sq(0, 6), sq(0, 4)}, // a5
		{sq(1, 3), sq(0, 4)}, // bxa5
		{sq(1, 7), sq(2, 5)}, // Nc6
		{sq(0, 4), sq(0, 5)}, // a6
		{sq(2, 5), sq(1, 7)}, // Nb8
		{sq(0, 5), sq(1, 6)}, // axb7
		{sq(1, 7), sq(2, 5)}, // Nc6
	}
	for _, mv := range seq {
		require.NoError(t, rules.ApplyMove(state, mv.from, mv.to, board.NoPiece))
	}

	require.NoError(t, rules.ApplyMove(state, sq(1, 6), sq(0, 7), board.NoPiece))

	promoted := state.PieceAt(sq(0, 7))
	assert.Equal(t, board.Queen, promoted.Kind)
	assert.Equal(t, board.White, promoted.Color)
}

func TestFiftyMoveDraw(t *testing.T) {
	state := board.NewStartingPosition()
	require.NoError(t, rules.ApplyMove(state, sq(4, 1), sq(4, 3), board.NoPiece))
	assert.False(t, rules.IsFiftyMoveDraw(state))
}

func TestThreefoldRepetitionByKnightShuffle(t *testing.T) {
	state := board.NewStartingPosition()

	shuffle := []struct{ from, to board.Square }{
		{sq(6, 0), sq(5, 2)}, // Ng1-f3
		{sq(6, 7), sq(5, 5)}, // Ng8-f6
		{sq(5, 2), sq(6, 0)}, // Nf3-g1
		{sq(5, 5), sq(6, 7)}, // Nf6-g8
		{sq(6, 0), sq(5, 2)},
		{sq(6, 7), sq(5, 5)},
		{sq(5, 2), sq(6, 0)},
		{sq(5, 5), sq(6, 7)},
	}
	for _, mv := range shuffle {
		require.NoError(t, rules.ApplyMove(state, mv.from, mv.to, board.NoPiece))
	}

	assert.True(t, rules.IsThreefoldRepetition(state))
}

func TestInsufficientMaterialFalseAtStart(t *testing.T) {
	state := board.NewStartingPosition()
	assert.False(t, rules.IsInsufficientMaterial(state))
}
