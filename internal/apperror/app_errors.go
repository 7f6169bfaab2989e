package apperror

import "errors"

var (
	ErrInvalidPosition      = errors.New("position is out of the board")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrInvalidMarker        = errors.New("marker must not be empty")
	ErrInvalidConfiguration = errors.New("invalid match configuration")
	ErrMatchOver            = errors.New("match is already over")
	ErrMatchNotFound        = errors.New("match not found")
)
