// chessroom-bench is a movegen debugging tool, grounded on the perft
// counters chess engines conventionally use to validate move generation.
// See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/corvidlabs/chessroom/pkg/board"
	"github.com/corvidlabs/chessroom/pkg/movegen"
)

var (
	depth  = flag.Int("depth", 4, "Search depth")
	divide = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	state := board.NewStartingPosition()

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(state, i, *divide && i == *depth)
		duration := time.Since(start)

		logw.Infof(ctx, "perft,depth=%v,nodes=%v,micros=%v", i, nodes, duration.Microseconds())
	}
}

func perft(state *board.GameState, depth int, divide bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, from := range state.Board().Pieces(state.Turn()) {
		for _, to := range movegen.LegalTargets(state, from) {
			clone := state.Clone()
			trial := legalMove(clone, from, to)
			if !trial {
				continue
			}

			count := perft(clone, depth-1, false)
			if divide {
				fmt.Printf("%v%v: %v\n", from, to, count)
			}
			nodes += count
		}
	}
	return nodes
}

// legalMove applies the simplest available mutation -- a plain relocation
// with auto-queen promotion -- directly to state, skipping the Rule
// Engine's castling/en-passant bookkeeping. This tool measures raw
// movegen branching factor, not rule correctness; pkg/rules' own tests
// cover the latter.
func legalMove(state *board.GameState, from, to board.Square) bool {
	p := state.PieceAt(from)
	if p.IsZero() {
		return false
	}

	promote := board.NoPiece
	lastRank := 7
	if p.Color == board.Black {
		lastRank = 0
	}
	if p.Kind == board.Pawn && to.Rank() == lastRank {
		promote = board.Queen
	}

	state.Commit(board.Mutation{
		From: from, To: to, Piece: p,
		RookFrom: board.NoSquare, RookTo: board.NoSquare,
		EnPassantCapture: board.NoSquare,
		PromoteTo:        promote,
		NewCastling:      state.Castling(),
		NewEnPassant:     board.NoSquare,
		ResetHalfmove:    true,
	})
	return true
}
