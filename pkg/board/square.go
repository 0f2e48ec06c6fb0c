package board

import "fmt"

// Square is an index 0..63 into the board, per spec.md §3:
// index = rank*8 + file, file 0 = a-file, rank 0 = White's back rank.
//
//	 8 | 56 57 58 59 60 61 62 63
//	 7 | 48 49 50 51 52 53 54 55
//	 6 | 40 41 42 43 44 45 46 47
//	 5 | 32 33 34 35 36 37 38 39
//	 4 | 24 25 26 27 28 29 30 31
//	 3 | 16 17 18 19 20 21 22 23
//	 2 |  8  9 10 11 12 13 14 15
//	 1 |  0  1  2  3  4  5  6  7
//	   +------------------------
//	     a  b  c  d  e  f  g  h
//
// 4 = White king origin, 60 = Black king origin, 0/7/56/63 = rook corners.
type Square int8

const (
	ZeroSquare Square = 0
	NumSquares Square = 64

	// NoSquare is the sentinel for "no en-passant target" / "not set".
	NoSquare Square = -1
)

// Rook corners and king origins named for readability at call sites.
const (
	A1 Square = 0
	E1 Square = 4
	H1 Square = 7
	A8 Square = 56
	E8 Square = 60
	H8 Square = 63
)

// NewSquare builds a square from 0-indexed file and rank.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) IsValid() bool {
	return s >= ZeroSquare && s < NumSquares
}

// File returns the 0-indexed file (0 = a-file).
func (s Square) File() int {
	return int(s) % 8
}

// Rank returns the 0-indexed rank (0 = White's back rank).
func (s Square) Rank() int {
	return int(s) / 8
}

// ParseSquareStr parses algebraic notation such as "e4" into a Square.
func ParseSquareStr(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("board: invalid square %q", str)
	}
	file, rank := str[0], str[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("board: invalid square %q", str)
	}
	return NewSquare(int(file-'a'), int(rank-'1')), nil
}

func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+rune(s.File()), '1'+rune(s.Rank()))
}
