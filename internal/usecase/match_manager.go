package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/pkg"
)

var ErrCorruptMatch = errors.New("stored match is inconsistent")

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.MatchState) error
	GetByID(ctx context.Context, id string) (*entity.MatchState, error)
	Update(ctx context.Context, id string, apply func(match *entity.MatchState) error) (*entity.MatchState, error)
	DeleteByID(ctx context.Context, id string) error
}

type PlayerParams struct {
	Name  string
	Token string
}

// CreateMatchParams describes a new match. A nil RoundLimit falls back to the configured default.
type CreateMatchParams struct {
	RoundLimit *int
	PlayerA    PlayerParams
	PlayerB    PlayerParams
}

// MatchView is what callers get to render a match.
type MatchView struct {
	ID            string                                     `json:"id"`
	Round         int                                        `json:"round"`
	RoundLimit    int                                        `json:"round_limit"`
	CurrentPlayer string                                     `json:"current_player"`
	Players       [2]entity.PlayerState                      `json:"players"`
	Scores        map[string]int                             `json:"scores"`
	Board         [entity.BoardSize][entity.BoardSize]string `json:"board"`
	Rounds        []entity.RoundRecord                       `json:"rounds,omitempty"`
	Outcome       *entity.Outcome                            `json:"outcome,omitempty"`
}

type MatchManager struct {
	logger *slog.Logger

	matchRepo     matchRepo
	defaultRounds int
}

func NewMatchManager(logger *slog.Logger, matchRepo matchRepo, defaultRounds int) *MatchManager {
	return &MatchManager{
		logger: logger.With("component", "match_manager"),

		matchRepo:     matchRepo,
		defaultRounds: defaultRounds,
	}
}

func (that *MatchManager) CreateMatch(ctx context.Context, params CreateMatchParams) (*MatchView, error) {
	roundLimit := that.defaultRounds
	if params.RoundLimit != nil {
		roundLimit = *params.RoundLimit
	}

	playerA, err := entity.NewPlayer(params.PlayerA.Name, entity.Marker(params.PlayerA.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to create player A: %w", err)
	}

	playerB, err := entity.NewPlayer(params.PlayerB.Name, entity.Marker(params.PlayerB.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to create player B: %w", err)
	}

	match, err := entity.NewMatch(roundLimit, playerA, playerB)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	state := match.State()
	state.ID = pkg.GenerateMatchID()

	if err = that.matchRepo.CreateOrUpdate(ctx, &state); err != nil {
		return nil, fmt.Errorf("failed to save match: %w", err)
	}

	that.logger.Info("match created", "match_id", state.ID, "rounds", roundLimit)

	return newMatchView(state.ID, match), nil
}

func (that *MatchManager) GetMatch(ctx context.Context, id string) (*MatchView, error) {
	state, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	match, err := entity.RestoreMatch(*state)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptMatch, id, err)
	}

	return newMatchView(id, match), nil
}

// PlayTurn plays pos for whoever is to move. A rejected move still returns the
// invalid TurnResult next to the error so callers can show the reason.
func (that *MatchManager) PlayTurn(ctx context.Context, id string, pos entity.Position) (entity.TurnResult, *MatchView, error) {
	log := that.logger.With("method", "PlayTurn", "match_id", id)

	var result entity.TurnResult

	view, err := that.mutate(ctx, id, func(match *entity.Match) error {
		var turnErr error
		result, turnErr = match.PlayTurn(pos)

		return turnErr //nolint: wrapcheck // rule errors are wrapped once below
	})
	if err != nil {
		log.Debug("turn rejected", "position", pos.String(), "error", err)

		return result, nil, fmt.Errorf("failed to play turn: %w", err)
	}

	switch {
	case result.Outcome != nil:
		log.Info("match finished", "outcome", result.Outcome.Kind, "winner", result.Outcome.Winner)
	case result.RoundOver:
		log.Info("round finished", "round", result.Round, "winner", result.Winner, "draw", result.Draw)
	default:
		log.Debug("turn played", "position", pos.String(), "marker", result.Marker)
	}

	return result, view, nil
}

// ResetMatch starts the match over from round one, scores are kept.
func (that *MatchManager) ResetMatch(ctx context.Context, id string) (*MatchView, error) {
	view, err := that.mutate(ctx, id, func(match *entity.Match) error {
		match.ResetForNewMatch()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset match: %w", err)
	}

	that.logger.Info("match reset", "match_id", id)

	return view, nil
}

func (that *MatchManager) ClearScores(ctx context.Context, id string) (*MatchView, error) {
	view, err := that.mutate(ctx, id, func(match *entity.Match) error {
		match.ClearScores()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear scores: %w", err)
	}

	that.logger.Info("scores cleared", "match_id", id)

	return view, nil
}

func (that *MatchManager) DeleteMatch(ctx context.Context, id string) error {
	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match deleted", "match_id", id)

	return nil
}

// mutate applies change to the stored match atomically. The match is written
// back only when change succeeds.
func (that *MatchManager) mutate(ctx context.Context, id string, change func(match *entity.Match) error) (*MatchView, error) {
	var view *MatchView

	_, err := that.matchRepo.Update(ctx, id, func(state *entity.MatchState) error {
		match, err := entity.RestoreMatch(*state)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptMatch, id, err)
		}

		if err = change(match); err != nil {
			return err
		}

		*state = match.State()
		state.ID = id
		view = newMatchView(id, match)

		return nil
	})
	if err != nil {
		return nil, err //nolint: wrapcheck // wrapped by the exported callers
	}

	return view, nil
}

func newMatchView(id string, match *entity.Match) *MatchView {
	state := match.State()

	view := &MatchView{
		ID:            id,
		Round:         match.CurrentRound(),
		RoundLimit:    match.RoundLimit(),
		CurrentPlayer: match.CurrentPlayerName(),
		Players:       state.Players,
		Scores:        match.Scores(),
		Rounds:        state.Rounds,
	}

	for row := range state.Board {
		for col := range state.Board[row] {
			view.Board[row][col] = string(state.Board[row][col])
		}
	}

	if outcome, over := match.IsMatchOver(); over {
		view.Outcome = &outcome
	}

	return view
}
