package board

import (
	"fmt"
	"math/rand"
)

// GameState is the complete position of one room's game: board, side to
// move, castling rights, en-passant target, move clocks, repetition
// history and the room's immutable game code, per spec.md §3/§4.A.
//
// GameState is a plain value-ish type owned exclusively by its Room (see
// spec.md §3 Ownership); Clone is the only way to get an independent copy,
// used by the move generator's clone-and-test legality check.
type GameState struct {
	board     Board
	turn      Color
	castling  Castling
	enPassant Square

	halfmoveClock int
	fullmoveClock int

	gameCode string

	repetitions map[ZobristHash][]Fingerprint
}

// NewStartingPosition returns a GameState at the standard starting
// position with a freshly drawn six-digit game code (spec.md §3, Room).
func NewStartingPosition() *GameState {
	g := &GameState{
		board:         NewStartingBoard(),
		turn:          White,
		castling:      FullCastlingRight,
		enPassant:     NoSquare,
		halfmoveClock: 0,
		fullmoveClock: 1,
		gameCode:      fmt.Sprintf("%06d", rand.Intn(1000000)),
		repetitions:   make(map[ZobristHash][]Fingerprint),
	}
	g.recordFingerprint()
	return g
}

// Clone returns a deep, independent copy of g. The Board is an array and
// copies by value; the repetition map is copied explicitly.
func (g *GameState) Clone() *GameState {
	clone := *g
	clone.repetitions = make(map[ZobristHash][]Fingerprint, len(g.repetitions))
	for h, fps := range g.repetitions {
		cp := make([]Fingerprint, len(fps))
		copy(cp, fps)
		clone.repetitions[h] = cp
	}
	return &clone
}

// PieceAt returns the piece occupying sq (zero Piece if empty).
func (g *GameState) PieceAt(sq Square) Piece {
	return g.board.At(sq)
}

// ColorAt returns the color of the piece at sq and whether a piece is present.
func (g *GameState) ColorAt(sq Square) (Color, bool) {
	p := g.board.At(sq)
	if p.IsZero() {
		return ZeroColor, false
	}
	return p.Color, true
}

func (g *GameState) Turn() Color { return g.turn }

func (g *GameState) GameCode() string { return g.gameCode }

func (g *GameState) Castling() Castling { return g.castling }

// EnPassant returns the en-passant target square and whether one is set.
func (g *GameState) EnPassant() (Square, bool) {
	return g.enPassant, g.enPassant != NoSquare
}

func (g *GameState) HalfmoveClock() int { return g.halfmoveClock }

func (g *GameState) FullmoveClock() int { return g.fullmoveClock }

// Board exposes a read-only copy of the 64-square array for serialization
// and movegen's slide/jump scans.
func (g *GameState) Board() Board { return g.board }

// KingSquare finds c's king.
func (g *GameState) KingSquare(c Color) (Square, bool) {
	return g.board.KingSquare(c)
}

// recordFingerprint appends the current position's fingerprint to the
// repetition history. Called by Commit at the end of every move (spec.md
// §4.C step 9) and once by NewStartingPosition for the initial position.
func (g *GameState) recordFingerprint() {
	fp := g.fingerprint()
	g.repetitions[fp.Hash] = append(g.repetitions[fp.Hash], fp)
}

// RepetitionCount returns how many times the current position (by genuine
// equality, not just hash) has occurred in the history, including now. Used
// by the Rule Engine's is_threefold_repetition predicate (spec.md §4.C).
func (g *GameState) RepetitionCount() int {
	fp := g.fingerprint()
	count := 0
	for _, candidate := range g.repetitions[fp.Hash] {
		if candidate.equal(fp) {
			count++
		}
	}
	return count
}

func (g *GameState) String() string {
	ep := "-"
	if g.enPassant != NoSquare {
		ep = g.enPassant.String()
	}
	return fmt.Sprintf("%v turn=%v castling=%v ep=%v halfmove=%v fullmove=%v code=%v",
		g.board, g.turn, g.castling, ep, g.halfmoveClock, g.fullmoveClock, g.gameCode)
}
