package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

const MaxRoundLimit = 99

const (
	playerA = iota
	playerB
)

type OutcomeKind string

const (
	OutcomePlayerA OutcomeKind = "player_a"
	OutcomePlayerB OutcomeKind = "player_b"
	OutcomeTie     OutcomeKind = "tie"
)

// Outcome is the final result of a match. Winner is empty for a tie.
type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner string      `json:"winner,omitempty"`
}

func (that Outcome) IsTie() bool {
	return that.Kind == OutcomeTie
}

// RoundRecord keeps the result of a finished round.
type RoundRecord struct {
	Round  int    `json:"round"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
}

// TurnResult describes what happened after a single placement attempt.
type TurnResult struct {
	Valid      bool     `json:"valid"`
	Reason     string   `json:"reason,omitempty"`
	Round      int      `json:"round"`
	RoundOver  bool     `json:"round_over"`
	Win        bool     `json:"win"`
	Draw       bool     `json:"draw"`
	Marker     Marker   `json:"marker,omitempty"`
	Winner     string   `json:"winner,omitempty"`
	NextPlayer string   `json:"next_player"`
	Outcome    *Outcome `json:"outcome,omitempty"`
}

// Match drives rounds of a two player game on a single board. Player A opens every round.
type Match struct {
	roundLimit int
	round      int
	current    int
	players    [2]*Player
	board      *Board
	rounds     []RoundRecord
}

func NewMatch(roundLimit int, a, b *Player) (*Match, error) {
	if roundLimit < 1 || roundLimit > MaxRoundLimit {
		return nil, fmt.Errorf("%w: round limit %d is out of [1, %d]", apperror.ErrInvalidConfiguration, roundLimit, MaxRoundLimit)
	}

	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: two players are required", apperror.ErrInvalidConfiguration)
	}

	if a == b {
		return nil, fmt.Errorf("%w: player cannot play against itself", apperror.ErrInvalidConfiguration)
	}

	if a.Token() == b.Token() {
		return nil, fmt.Errorf("%w: both players use token %q", apperror.ErrInvalidConfiguration, a.Token())
	}

	// scores are reported by name
	if a.Name() == b.Name() {
		return nil, fmt.Errorf("%w: both players are named %q", apperror.ErrInvalidConfiguration, a.Name())
	}

	return &Match{
		roundLimit: roundLimit,
		round:      1,
		current:    playerA,
		players:    [2]*Player{a, b},
		board:      NewBoard(),
	}, nil
}

// PlayTurn places the current player's token on pos. A rejected move returns
// an invalid result together with the reason and leaves the match untouched.
func (that *Match) PlayTurn(pos Position) (TurnResult, error) {
	if _, over := that.IsMatchOver(); over {
		return that.rejected(apperror.ErrMatchOver), apperror.ErrMatchOver
	}

	player := that.players[that.current]
	if err := that.board.PlaceToken(pos, player.Token()); err != nil {
		return that.rejected(err), err
	}

	result := TurnResult{
		Valid:  true,
		Round:  that.round,
		Marker: player.Token(),
	}

	switch {
	case that.board.CheckWin():
		player.IncrementScore()
		result.Win = true
		result.Winner = player.Name()
		that.finishRound(RoundRecord{Round: that.round, Winner: player.Name()})
	case that.board.IsFull():
		result.Draw = true
		that.finishRound(RoundRecord{Round: that.round, Draw: true})
	default:
		that.current = 1 - that.current
	}

	result.RoundOver = result.Win || result.Draw
	result.NextPlayer = that.CurrentPlayerName()

	if outcome, over := that.IsMatchOver(); over {
		result.Outcome = &outcome
	}

	return result, nil
}

func (that *Match) rejected(err error) TurnResult {
	return TurnResult{
		Valid:      false,
		Reason:     err.Error(),
		Round:      that.round,
		NextPlayer: that.CurrentPlayerName(),
	}
}

func (that *Match) finishRound(record RoundRecord) {
	that.rounds = append(that.rounds, record)
	that.board.Reset()
	that.round++
	that.current = playerA
}

// IsMatchOver reports the outcome once the round limit has been exceeded.
func (that *Match) IsMatchOver() (Outcome, bool) {
	if that.round <= that.roundLimit {
		return Outcome{}, false
	}

	a, b := that.players[playerA], that.players[playerB]

	switch {
	case a.Score() > b.Score():
		return Outcome{Kind: OutcomePlayerA, Winner: a.Name()}, true
	case a.Score() < b.Score():
		return Outcome{Kind: OutcomePlayerB, Winner: b.Name()}, true
	default:
		return Outcome{Kind: OutcomeTie}, true
	}
}

// ResetForNewMatch starts the match over. Scores are kept, see ClearScores.
func (that *Match) ResetForNewMatch() {
	that.board.Reset()
	that.round = 1
	that.current = playerA
	that.rounds = nil
}

func (that *Match) ClearScores() {
	for _, player := range that.players {
		player.ClearScore()
	}
}

func (that *Match) CurrentRound() int {
	return that.round
}

func (that *Match) RoundLimit() int {
	return that.roundLimit
}

func (that *Match) CurrentPlayer() *Player {
	return that.players[that.current]
}

func (that *Match) CurrentPlayerName() string {
	return that.players[that.current].Name()
}

func (that *Match) PlayerA() *Player {
	return that.players[playerA]
}

func (that *Match) PlayerB() *Player {
	return that.players[playerB]
}

func (that *Match) Scores() map[string]int {
	return map[string]int{
		that.players[playerA].Name(): that.players[playerA].Score(),
		that.players[playerB].Name(): that.players[playerB].Score(),
	}
}

func (that *Match) Board() [BoardSize][BoardSize]Marker {
	return that.board.Markers()
}

func (that *Match) Rounds() []RoundRecord {
	if len(that.rounds) == 0 {
		return nil
	}

	rounds := make([]RoundRecord, len(that.rounds))
	copy(rounds, that.rounds)

	return rounds
}
