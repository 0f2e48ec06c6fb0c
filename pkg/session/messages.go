package session

import (
	"encoding/json"
	"strconv"

	"github.com/corvidlabs/chessroom/pkg/board"
)

// inbound is the envelope for every client -> server message (spec.md §6).
// Fields that don't apply to a given instruction_type are left zero;
// malformed JSON or a missing required field is handled per spec.md §7
// ("ignore the message, do not close the connection").
type inbound struct {
	InstructionType string `json:"instruction_type"`
	SquareClicked   string `json:"square_clicked"`
	Destination     string `json:"destination"`
	Promotion       string `json:"promotion"`
}

const (
	instructionGetLegalMoves = "get_legal_moves"
	instructionRequestMove   = "request_move"
	instructionRematch       = "rematch"
	instructionAssignColor   = "assign_color"
)

func parseInbound(data []byte) (inbound, bool) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return inbound{}, false
	}
	if msg.InstructionType == "" {
		return inbound{}, false
	}
	return msg, true
}

// parseSquare parses a stringified square index ("0".."63"), per spec.md §6.
func parseSquare(s string) (board.Square, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return board.NoSquare, false
	}
	sq := board.Square(n)
	if !sq.IsValid() {
		return board.NoSquare, false
	}
	return sq, true
}

// parsePromotion maps the optional "promotion" literal to a board.Kind,
// defaulting to NoPiece (apply_move then defaults to Queen, per spec.md §4.C).
func parsePromotion(s string) board.Kind {
	switch s {
	case "queen":
		return board.Queen
	case "rook":
		return board.Rook
	case "bishop":
		return board.Bishop
	case "knight":
		return board.Knight
	default:
		return board.NoPiece
	}
}

// assignColorMessage is the server -> client color assignment, per spec.md
// §6. The literal is lowercase ("white"/"black"), unlike the snapshot's
// capitalized Turn field -- both are the wire format, verbatim.
type assignColorMessage struct {
	InstructionType string `json:"instruction_type"`
	Color           string `json:"color"`
}

func newAssignColorMessage(c board.Color) assignColorMessage {
	lit := "white"
	if c == board.Black {
		lit = "black"
	}
	return assignColorMessage{InstructionType: instructionAssignColor, Color: lit}
}

// legalMovesReply is the bare JSON array of square indices spec.md §6
// specifies for a get_legal_moves reply.
func encodeLegalMoves(targets []board.Square) ([]byte, error) {
	out := make([]int, len(targets))
	for i, sq := range targets {
		out[i] = int(sq)
	}
	if out == nil {
		out = []int{}
	}
	return json.Marshal(out)
}

func encodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
