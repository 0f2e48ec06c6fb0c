package board

import "errors"

var (
	errInvalidColor = errors.New("board: invalid color")
	errInvalidPiece = errors.New("board: invalid piece kind")
)
