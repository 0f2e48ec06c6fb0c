package board

// Mutation describes one accepted move's effect on a GameState, fully
// computed by the Rule Engine (package rules) from read accessors and the
// move generator. GameState.Commit is the single state mutator spec.md
// §4.A reserves for the Rule Engine: every field write for a move happens
// here, atomically, followed by the turn flip, clock update and repetition
// bookkeeping from spec.md §4.C steps 7-9.
type Mutation struct {
	// From/To relocate the moving piece; To receives Piece after From is cleared.
	From, To Square
	Piece    Piece

	// RookFrom/RookTo additionally relocate a rook during castling. Both are
	// NoSquare when the move is not a castle.
	RookFrom, RookTo Square

	// EnPassantCapture, if valid, is cleared in addition to From/To -- the
	// pawn removed by an en-passant capture.
	EnPassantCapture Square

	// PromoteTo, if not NoPiece, replaces the piece placed at To.
	PromoteTo Kind

	// NewCastling is the resulting castling-rights value (monotonically
	// non-increasing per spec.md §3).
	NewCastling Castling

	// NewEnPassant is the resulting en-passant target, or NoSquare.
	NewEnPassant Square

	// ResetHalfmove is true for pawn moves and captures (spec.md §3 Move clocks).
	ResetHalfmove bool
}

// Commit applies m to g: relocates pieces, updates castling/en-passant,
// updates the move clocks, flips the side to move and records the new
// position's repetition fingerprint. It is the only way a GameState's
// fields change after construction.
func (g *GameState) Commit(m Mutation) {
	mover := m.Piece

	if m.RookFrom != NoSquare {
		rook := g.board.At(m.RookFrom)
		g.board.Clear(m.RookFrom)
		g.board.Set(m.RookTo, rook)
	}

	if m.EnPassantCapture != NoSquare {
		g.board.Clear(m.EnPassantCapture)
	}

	g.board.Clear(m.From)
	if m.PromoteTo != NoPiece {
		mover = Piece{Kind: m.PromoteTo, Color: mover.Color}
	}
	g.board.Set(m.To, mover)

	g.castling = m.NewCastling
	g.enPassant = m.NewEnPassant

	if m.ResetHalfmove {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}

	movedColor := m.Piece.Color
	g.turn = movedColor.Opponent()
	if movedColor == Black {
		g.fullmoveClock++
	}

	g.recordFingerprint()
}

// ResetToStartingPosition replaces g's board/turn/clocks with a fresh
// starting position while drawing a new game code, used by the session
// handler's rematch instruction (spec.md §4.E). The room id itself is
// unaffected since GameState carries no room identity.
func (g *GameState) ResetToStartingPosition() {
	fresh := NewStartingPosition()
	*g = *fresh
}
