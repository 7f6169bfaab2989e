package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

type PlayerState struct {
	Name  string `json:"name"`
	Token Marker `json:"token"`
	Score int    `json:"score"`
}

// MatchState is the serialisable form of a Match. ID is assigned by the caller
// that stores the match, the match itself has no identity.
type MatchState struct {
	ID         string                       `json:"id"`
	RoundLimit int                          `json:"round_limit"`
	Round      int                          `json:"round"`
	Turn       int                          `json:"turn"`
	Players    [2]PlayerState               `json:"players"`
	Board      [BoardSize][BoardSize]Marker `json:"board"`
	Rounds     []RoundRecord                `json:"rounds,omitempty"`
}

func (that *Match) State() MatchState {
	state := MatchState{
		RoundLimit: that.roundLimit,
		Round:      that.round,
		Turn:       that.current,
		Board:      that.board.Markers(),
		Rounds:     that.Rounds(),
	}

	for i, player := range that.players {
		state.Players[i] = PlayerState{
			Name:  player.Name(),
			Token: player.Token(),
			Score: player.Score(),
		}
	}

	return state
}

// RestoreMatch rebuilds a match from a snapshot. The snapshot must describe a
// position that PlayTurn could have produced.
func RestoreMatch(state MatchState) (*Match, error) {
	var players [2]*Player
	for i, ps := range state.Players {
		player, err := NewPlayer(ps.Name, ps.Token)
		if err != nil {
			return nil, err
		}

		if ps.Score < 0 {
			return nil, fmt.Errorf("%w: negative score of player %q", apperror.ErrInvalidConfiguration, ps.Name)
		}

		player.score = ps.Score
		players[i] = player
	}

	match, err := NewMatch(state.RoundLimit, players[playerA], players[playerB])
	if err != nil {
		return nil, err
	}

	if state.Round < 1 || state.Round > state.RoundLimit+1 {
		return nil, fmt.Errorf("%w: round %d with limit %d", apperror.ErrInvalidConfiguration, state.Round, state.RoundLimit)
	}

	if state.Turn != playerA && state.Turn != playerB {
		return nil, fmt.Errorf("%w: unknown turn index %d", apperror.ErrInvalidConfiguration, state.Turn)
	}

	if len(state.Rounds) != state.Round-1 {
		return nil, fmt.Errorf("%w: %d finished rounds recorded for round %d", apperror.ErrInvalidConfiguration, len(state.Rounds), state.Round)
	}

	if err = match.restoreBoard(state.Board, state.Turn); err != nil {
		return nil, err
	}

	if state.Round > state.RoundLimit && match.board.Occupied() > 0 {
		return nil, fmt.Errorf("%w: board is not empty after the last round", apperror.ErrInvalidConfiguration)
	}

	match.round = state.Round
	match.current = state.Turn
	match.rounds = append([]RoundRecord(nil), state.Rounds...)

	return match, nil
}

func (that *Match) restoreBoard(markers [BoardSize][BoardSize]Marker, turn int) error {
	placed := [2]int{}

	for row := range markers {
		for col := range markers[row] {
			marker := markers[row][col]
			if marker == Empty {
				continue
			}

			owner := -1
			for i, player := range that.players {
				if player.Token() == marker {
					owner = i
				}
			}

			if owner < 0 {
				return fmt.Errorf("%w: unknown marker %q on the board", apperror.ErrInvalidConfiguration, marker)
			}

			if err := that.board.PlaceToken(Position{Row: row, Col: col}, marker); err != nil {
				return fmt.Errorf("failed to restore board: %w", err)
			}
			placed[owner]++
		}
	}

	// finished rounds are cleared right away, so a stored board never holds a result
	if that.board.CheckWin() || that.board.IsFull() {
		return fmt.Errorf("%w: board holds a finished round", apperror.ErrInvalidConfiguration)
	}

	// player A opens, so A is either level with B or one ahead
	if placed[playerA]-placed[playerB] != turn {
		return fmt.Errorf("%w: turn %d does not match the board", apperror.ErrInvalidConfiguration, turn)
	}

	return nil
}
