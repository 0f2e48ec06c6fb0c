// Package movegen implements pseudo-legal and strictly legal move
// enumeration plus the square-attacked oracle, per spec.md §4.B. Every
// function here is a stateless pure function of a *board.GameState
// reference -- no back-references into the board model are needed, which
// is how spec.md §9 resolves the cyclic mutable ownership redesign flag.
package movegen

import "github.com/corvidlabs/chessroom/pkg/board"

type offset struct{ df, dr int }

var knightOffsets = [8]offset{
	{1, 2}, {2, 1}, {-1, 2}, {-2, 1},
	{1, -2}, {2, -1}, {-1, -2}, {-2, -1},
}

var kingOffsets = [8]offset{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

var bishopRays = [4]offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookRays = [4]offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var queenRays = [8]offset{
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

func offsetSquare(from board.Square, o offset) (board.Square, bool) {
	file := from.File() + o.df
	rank := from.Rank() + o.dr
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return board.NoSquare, false
	}
	return board.NewSquare(file, rank), true
}

// PseudoLegalTargets enumerates squares the piece at from could move to,
// ignoring whether its own king would be left in check. Returns nil if from
// is empty.
func PseudoLegalTargets(state *board.GameState, from board.Square) []board.Square {
	p := state.PieceAt(from)
	if p.IsZero() {
		return nil
	}

	switch p.Kind {
	case board.Pawn:
		return pawnTargets(state, from, p.Color)
	case board.Knight:
		return jumpTargets(state, from, p.Color, knightOffsets[:])
	case board.Bishop:
		return slideTargets(state, from, p.Color, bishopRays[:])
	case board.Rook:
		return slideTargets(state, from, p.Color, rookRays[:])
	case board.Queen:
		return slideTargets(state, from, p.Color, queenRays[:])
	case board.King:
		targets := jumpTargets(state, from, p.Color, kingOffsets[:])
		targets = append(targets, castlingTargets(state, from, p.Color)...)
		return targets
	default:
		return nil
	}
}

func pawnTargets(state *board.GameState, from board.Square, c board.Color) []board.Square {
	var ret []board.Square

	dir := 1
	startRank := 1
	if c == board.Black {
		dir = -1
		startRank = 6
	}

	oneAhead, ok := offsetSquare(from, offset{0, dir})
	if ok && state.PieceAt(oneAhead).IsZero() {
		ret = append(ret, oneAhead)

		if from.Rank() == startRank {
			twoAhead, ok := offsetSquare(from, offset{0, 2 * dir})
			if ok && state.PieceAt(twoAhead).IsZero() {
				ret = append(ret, twoAhead)
			}
		}
	}

	ep, hasEP := state.EnPassant()
	for _, df := range [2]int{-1, 1} {
		target, ok := offsetSquare(from, offset{df, dir})
		if !ok {
			continue
		}
		if hasEP && target == ep {
			ret = append(ret, target)
			continue
		}
		if occ := state.PieceAt(target); !occ.IsZero() && occ.Color != c {
			ret = append(ret, target)
		}
	}

	return ret
}

func jumpTargets(state *board.GameState, from board.Square, c board.Color, offsets []offset) []board.Square {
	var ret []board.Square
	for _, o := range offsets {
		to, ok := offsetSquare(from, o)
		if !ok {
			continue
		}
		if occ := state.PieceAt(to); occ.IsZero() || occ.Color != c {
			ret = append(ret, to)
		}
	}
	return ret
}

func slideTargets(state *board.GameState, from board.Square, c board.Color, rays []offset) []board.Square {
	var ret []board.Square
	for _, dir := range rays {
		sq := from
		for {
			to, ok := offsetSquare(sq, dir)
			if !ok {
				break
			}
			occ := state.PieceAt(to)
			if occ.IsZero() {
				ret = append(ret, to)
				sq = to
				continue
			}
			if occ.Color != c {
				ret = append(ret, to)
			}
			break
		}
	}
	return ret
}

// castlingTargets produces from+2 (kingside) / from-2 (queenside) only when
// the king is on its origin square, the relevant right is set, the squares
// between king and rook are empty, and none of origin/passed/destination
// squares are attacked, per spec.md §4.B.
func castlingTargets(state *board.GameState, from board.Square, c board.Color) []board.Square {
	origin := board.E1
	if c == board.Black {
		origin = board.E8
	}
	if from != origin {
		return nil
	}

	var ret []board.Square

	if state.Castling().IsAllowed(board.KingSide(c)) {
		f1, _ := offsetSquare(from, offset{1, 0})
		f2, _ := offsetSquare(from, offset{2, 0})
		if state.PieceAt(f1).IsZero() && state.PieceAt(f2).IsZero() &&
			!IsAttacked(state, from, c.Opponent()) &&
			!IsAttacked(state, f1, c.Opponent()) &&
			!IsAttacked(state, f2, c.Opponent()) {
			ret = append(ret, f2)
		}
	}
	if state.Castling().IsAllowed(board.QueenSide(c)) {
		d1, _ := offsetSquare(from, offset{-1, 0})
		d2, _ := offsetSquare(from, offset{-2, 0})
		d3, _ := offsetSquare(from, offset{-3, 0})
		if state.PieceAt(d1).IsZero() && state.PieceAt(d2).IsZero() && state.PieceAt(d3).IsZero() &&
			!IsAttacked(state, from, c.Opponent()) &&
			!IsAttacked(state, d1, c.Opponent()) &&
			!IsAttacked(state, d2, c.Opponent()) {
			ret = append(ret, d2)
		}
	}

	return ret
}

// IsAttacked returns true iff some piece of byColor pseudo-attacks sq. The
// King case is handled directly (adjacent squares) to avoid recursing
// through castling-target generation, per spec.md §4.B.
func IsAttacked(state *board.GameState, sq board.Square, byColor board.Color) bool {
	for _, o := range knightOffsets {
		from, ok := offsetSquare(sq, o)
		if ok {
			if p := state.PieceAt(from); p.Kind == board.Knight && p.Color == byColor {
				return true
			}
		}
	}

	for _, o := range kingOffsets {
		from, ok := offsetSquare(sq, o)
		if ok {
			if p := state.PieceAt(from); p.Kind == board.King && p.Color == byColor {
				return true
			}
		}
	}

	if slideAttacks(state, sq, byColor, bishopRays[:], board.Bishop, board.Queen) {
		return true
	}
	if slideAttacks(state, sq, byColor, rookRays[:], board.Rook, board.Queen) {
		return true
	}

	// Pawn attacks follow capture geometry only, not forward moves. A White
	// pawn attacks diagonally "up" (toward higher ranks); a Black pawn
	// attacks diagonally "down".
	dir := -1
	if byColor == board.Black {
		dir = 1
	}
	for _, df := range [2]int{-1, 1} {
		from, ok := offsetSquare(sq, offset{df, dir})
		if !ok {
			continue
		}
		if p := state.PieceAt(from); p.Kind == board.Pawn && p.Color == byColor {
			return true
		}
	}

	return false
}

func slideAttacks(state *board.GameState, sq board.Square, byColor board.Color, rays []offset, kinds ...board.Kind) bool {
	for _, dir := range rays {
		cur := sq
		for {
			to, ok := offsetSquare(cur, dir)
			if !ok {
				break
			}
			p := state.PieceAt(to)
			if p.IsZero() {
				cur = to
				continue
			}
			if p.Color == byColor {
				for _, k := range kinds {
					if p.Kind == k {
						return true
					}
				}
			}
			break
		}
	}
	return false
}

// LegalTargets filters pseudo-legal targets by playing each candidate on a
// cloned state and rejecting any that leaves the mover's king attacked.
// Returns nil if from holds no piece, or if the piece's color differs from
// state.Turn().
func LegalTargets(state *board.GameState, from board.Square) []board.Square {
	p := state.PieceAt(from)
	if p.IsZero() || p.Color != state.Turn() {
		return nil
	}

	var ret []board.Square
	for _, to := range PseudoLegalTargets(state, from) {
		if isLegalTrial(state, from, to, p) {
			ret = append(ret, to)
		}
	}
	return ret
}

// isLegalTrial plays (from, to) on a clone -- removing the en-passant
// victim first, if applicable -- and checks the mover's king is safe
// afterward.
func isLegalTrial(state *board.GameState, from, to board.Square, p board.Piece) bool {
	trial := state.Clone()

	if p.Kind == board.Pawn {
		if ep, ok := trial.EnPassant(); ok && to == ep && trial.PieceAt(to).IsZero() {
			captured := to - 8
			if p.Color == board.Black {
				captured = to + 8
			}
			trial.Commit(board.Mutation{
				From: from, To: to, Piece: p,
				RookFrom: board.NoSquare, RookTo: board.NoSquare,
				EnPassantCapture: captured,
				NewCastling:      trial.Castling(),
				NewEnPassant:     board.NoSquare,
				ResetHalfmove:    true,
			})
			kingSq, _ := trial.KingSquare(p.Color)
			return !IsAttacked(trial, kingSq, p.Color.Opponent())
		}
	}

	trial.Commit(board.Mutation{
		From: from, To: to, Piece: p,
		RookFrom: board.NoSquare, RookTo: board.NoSquare,
		EnPassantCapture: board.NoSquare,
		NewCastling:      trial.Castling(),
		NewEnPassant:     board.NoSquare,
		ResetHalfmove:    true,
	})
	kingSq, _ := trial.KingSquare(p.Color)
	return !IsAttacked(trial, kingSq, p.Color.Opponent())
}
