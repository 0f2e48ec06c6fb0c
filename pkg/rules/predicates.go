package rules

import (
	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/movegen"
)

// InCheck reports whether the side to move's king is attacked.
func InCheck(state *board.GameState) bool {
	kingSq, ok := state.KingSquare(state.Turn())
	if !ok {
		return false
	}
	return movegen.IsAttacked(state, kingSq, state.Turn().Opponent())
}

// hasAnyLegalMove reports whether the side to move has at least one legal
// move anywhere on the board.
func hasAnyLegalMove(state *board.GameState) bool {
	for _, sq := range state.Board().Pieces(state.Turn()) {
		if len(movegen.LegalTargets(state, sq)) > 0 {
			return true
		}
	}
	return false
}

// IsCheckmate reports in_check AND no friendly piece has a legal move.
func IsCheckmate(state *board.GameState) bool {
	return InCheck(state) && !hasAnyLegalMove(state)
}

// IsStalemate reports NOT in_check AND no friendly piece has a legal move.
func IsStalemate(state *board.GameState) bool {
	return !InCheck(state) && !hasAnyLegalMove(state)
}

// IsFiftyMoveDraw reports halfmove_clock >= 100.
func IsFiftyMoveDraw(state *board.GameState) bool {
	return state.HalfmoveClock() >= 100
}

// IsThreefoldRepetition reports whether the current position's fingerprint
// has occurred three or more times in the history.
func IsThreefoldRepetition(state *board.GameState) bool {
	return state.RepetitionCount() >= 3
}

// IsInsufficientMaterial reports K vs K; K+(B or N) vs K; or K+B vs K+B with
// both bishops on same-colored squares.
func IsInsufficientMaterial(state *board.GameState) bool {
	var minor [board.NumColors]struct {
		count       int
		bishopDark  bool
		bishopLight bool
		hasKnight   bool
	}

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		p := state.PieceAt(sq)
		if p.IsZero() || p.Kind == board.King {
			continue
		}
		switch p.Kind {
		case board.Bishop:
			m := &minor[p.Color]
			m.count++
			if isDarkSquare(sq) {
				m.bishopDark = true
			} else {
				m.bishopLight = true
			}
		case board.Knight:
			m := &minor[p.Color]
			m.count++
			m.hasKnight = true
		default:
			// Any pawn, rook or queen means sufficient material.
			return false
		}
	}

	w, b := minor[board.White], minor[board.Black]

	if w.count == 0 && b.count == 0 {
		return true // K vs K
	}
	if w.count+b.count == 1 {
		return true // K+(B or N) vs K
	}
	if w.count == 1 && b.count == 1 && !w.hasKnight && !b.hasKnight {
		// K+B vs K+B: sufficient unless both bishops share a square color.
		wDark := w.bishopDark
		bDark := b.bishopDark
		return wDark == bDark
	}
	return false
}

func isDarkSquare(sq board.Square) bool {
	return (sq.File()+sq.Rank())%2 == 0
}
