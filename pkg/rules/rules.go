// Package rules is the Rule Engine (spec.md §4.C): it applies an accepted
// move -- castling rook shuffle, en-passant capture, promotion, clock
// updates, castling-right revocation, side-to-move flip -- and derives the
// read-only terminal predicates (check, mate, stalemate, and the three draw
// conditions).
package rules

import (
	"errors"
	"fmt"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/movegen"
)

// ErrIllegalMove is returned when to is not in movegen.LegalTargets(state,
// from). apply_move's precondition is that the session layer already
// checked this (spec.md §4.C), but the Rule Engine re-validates so that a
// caller bug degrades to a rejected instruction, never a corrupted board.
var ErrIllegalMove = errors.New("rules: move is not legal")

// ApplyMove performs spec.md §4.C's nine steps in order: castling rook
// relocation, castling-right revocation (king move, rook move, or --
// per spec.md §9 Open Question 1 -- rook capture on its home corner),
// en-passant target/capture handling, placement, promotion, clock update,
// turn flip and fingerprint recording.
func ApplyMove(state *board.GameState, from, to board.Square, promotionChoice board.Kind) error {
	mover := state.PieceAt(from)
	if mover.IsZero() || mover.Color != state.Turn() {
		return fmt.Errorf("rules: no movable piece for %v at %v", state.Turn(), from)
	}

	legal := false
	for _, candidate := range movegen.LegalTargets(state, from) {
		if candidate == to {
			legal = true
			break
		}
	}
	if !legal {
		return ErrIllegalMove
	}

	m := board.Mutation{
		From: from, To: to, Piece: mover,
		RookFrom: board.NoSquare, RookTo: board.NoSquare,
		EnPassantCapture: board.NoSquare,
		NewCastling:      state.Castling(),
		NewEnPassant:     board.NoSquare,
	}

	captured := state.PieceAt(to)
	isCapture := !captured.IsZero()

	// (1)+(2) Castling: relocate the rook and revoke both of the mover's rights.
	isCastle := mover.Kind == board.King && abs(int(to)-int(from)) == 2
	if isCastle {
		if to > from {
			m.RookFrom, m.RookTo = from+3, from+1
		} else {
			m.RookFrom, m.RookTo = from-4, from-1
		}
		m.NewCastling = m.NewCastling.Revoke(board.Both(mover.Color))
	} else if mover.Kind == board.King {
		m.NewCastling = m.NewCastling.Revoke(board.Both(mover.Color))
	}

	// (3) Rook departing its home corner revokes that corner's right.
	if mover.Kind == board.Rook {
		m.NewCastling = m.NewCastling.Revoke(cornerRight(from))
	}

	// Standards-compliant deviation from the source (spec.md §9 Open Question
	// 1): capturing a rook on its home corner also revokes that corner's right.
	if isCapture && captured.Kind == board.Rook {
		m.NewCastling = m.NewCastling.Revoke(cornerRight(to))
	}

	// (4) En-passant target and capture.
	isPawn := mover.Kind == board.Pawn
	if isPawn && abs(to.Rank()-from.Rank()) == 2 {
		m.NewEnPassant = board.Square((int(from) + int(to)) / 2)
	}
	if isPawn {
		if ep, ok := state.EnPassant(); ok && to == ep {
			if mover.Color == board.White {
				m.EnPassantCapture = to - 8
			} else {
				m.EnPassantCapture = to + 8
			}
			isCapture = true
		}
	}

	// (6) Promotion: default to Queen if unspecified, on the last rank.
	lastRank := 7
	if mover.Color == board.Black {
		lastRank = 0
	}
	if isPawn && to.Rank() == lastRank {
		choice := promotionChoice
		if choice == board.NoPiece {
			choice = board.Queen
		}
		if !choice.IsPromotable() {
			return fmt.Errorf("rules: invalid promotion kind %v", choice)
		}
		m.PromoteTo = choice
	}

	// (7) Pawn move or capture resets the clock.
	m.ResetHalfmove = isPawn || isCapture

	state.Commit(m)
	return nil
}

func cornerRight(sq board.Square) board.Castling {
	switch sq {
	case board.A1:
		return board.WhiteQueenSideCastle
	case board.H1:
		return board.WhiteKingSideCastle
	case board.A8:
		return board.BlackQueenSideCastle
	case board.H8:
		return board.BlackKingSideCastle
	default:
		return board.NoCastlingRights
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
