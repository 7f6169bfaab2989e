package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
)

func TestMatch_StateRestore(t *testing.T) {
	t.Run("Restored match continues where it stopped", func(t *testing.T) {
		// Given: a match one move away from alice winning round two
		match := newTestMatch(t, 2)
		playMoves(t, match, oWinsMiddleRow)
		playMoves(t, match, xWinsTopRow[:4])

		// When: the snapshot goes through JSON and is restored
		raw, err := json.Marshal(match.State())
		require.NoError(t, err)

		var state MatchState
		require.NoError(t, json.Unmarshal(raw, &state))

		restored, err := RestoreMatch(state)
		require.NoError(t, err)

		// Then: both matches report the same state and finish the same way
		assert.Equal(t, match.State(), restored.State())

		result, err := restored.PlayTurn(xWinsTopRow[4])
		require.NoError(t, err)
		assert.Equal(t, "alice", result.Winner)
		require.NotNil(t, result.Outcome)
		assert.True(t, result.Outcome.IsTie())
	})

	t.Run("Rejects inconsistent snapshots", func(t *testing.T) {
		valid := func() MatchState {
			return MatchState{
				RoundLimit: 3,
				Round:      2,
				Turn:       1,
				Players: [2]PlayerState{
					{Name: "alice", Token: tokenX, Score: 1},
					{Name: "bob", Token: tokenO},
				},
				Board: [BoardSize][BoardSize]Marker{
					{tokenX, Empty, Empty},
				},
				Rounds: []RoundRecord{{Round: 1, Winner: "alice"}},
			}
		}

		_, err := RestoreMatch(valid())
		require.NoError(t, err)

		testCases := map[string]func(state *MatchState){
			"empty player name":  func(s *MatchState) { s.Players[0].Name = "" },
			"duplicate tokens":   func(s *MatchState) { s.Players[1].Token = tokenX },
			"negative score":     func(s *MatchState) { s.Players[1].Score = -1 },
			"zero round limit":   func(s *MatchState) { s.RoundLimit = 0 },
			"round past limit":   func(s *MatchState) { s.Round = 5 },
			"unknown turn":       func(s *MatchState) { s.Turn = 2 },
			"turn off the board": func(s *MatchState) { s.Turn = 0 },
			"missing history":    func(s *MatchState) { s.Rounds = nil },
			"foreign marker":     func(s *MatchState) { s.Board[2][2] = "Z" },
			"winning line": func(s *MatchState) {
				s.Board[0] = [BoardSize]Marker{tokenX, tokenX, tokenX}
				s.Board[1] = [BoardSize]Marker{tokenO, tokenO, Empty}
			},
			"round zero": func(s *MatchState) {
				s.Round = 0
				s.Rounds = nil
			},
			"tokens after the last round": func(s *MatchState) {
				s.Round = 4
				s.Rounds = append(s.Rounds, RoundRecord{Round: 2, Draw: true}, RoundRecord{Round: 3, Draw: true})
			},
		}

		for name, mutate := range testCases {
			t.Run(name, func(t *testing.T) {
				state := valid()
				mutate(&state)

				match, err := RestoreMatch(state)

				require.ErrorIs(t, err, apperror.ErrInvalidConfiguration)
				assert.Nil(t, match)
			})
		}
	})
}
