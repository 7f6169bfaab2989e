package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

// Player is one side of a match. Name and token never change, the score is
// owned by the match controller.
type Player struct {
	name  string
	token Marker
	score int
}

func NewPlayer(name string, token Marker) (*Player, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: player name is empty", apperror.ErrInvalidConfiguration)
	}

	if token == Empty {
		return nil, fmt.Errorf("%w: token of player %q is empty", apperror.ErrInvalidConfiguration, name)
	}

	return &Player{name: name, token: token}, nil
}

func (that *Player) Name() string {
	return that.name
}

func (that *Player) Token() Marker {
	return that.token
}

func (that *Player) Score() int {
	return that.score
}

func (that *Player) IncrementScore() {
	that.score++
}

func (that *Player) ClearScore() {
	that.score = 0
}
