package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/usecase"
)

const maxBodyBytes = 1 << 16

var ErrMissingPosition = errors.New("row and col are required")

type matchUseCase interface {
	CreateMatch(ctx context.Context, params usecase.CreateMatchParams) (*usecase.MatchView, error)
	GetMatch(ctx context.Context, id string) (*usecase.MatchView, error)
	PlayTurn(ctx context.Context, id string, pos entity.Position) (entity.TurnResult, *usecase.MatchView, error)
	ResetMatch(ctx context.Context, id string) (*usecase.MatchView, error)
	ClearScores(ctx context.Context, id string) (*usecase.MatchView, error)
	DeleteMatch(ctx context.Context, id string) error
}

type MatchHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	PlayTurn(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	ClearScores(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type playerRequest struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type createMatchRequest struct {
	RoundLimit *int          `json:"round_limit"`
	PlayerA    playerRequest `json:"player_a"`
	PlayerB    playerRequest `json:"player_b"`
}

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type turnResponse struct {
	Result entity.TurnResult  `json:"result"`
	Match  *usecase.MatchView `json:"match"`
}

type errorResponse struct {
	Error  string             `json:"error"`
	Result *entity.TurnResult `json:"result,omitempty"`
}

type matchHandler struct {
	logger  *slog.Logger
	matches matchUseCase
}

func NewMatchHandler(logger *slog.Logger, matches matchUseCase) MatchHandler {
	return &matchHandler{
		logger:  logger.With("component", "rest"),
		matches: matches,
	}
}

func (that *matchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createMatchRequest
	if err := decodeBody(w, r, &request); err != nil {
		that.writeError(w, r, http.StatusBadRequest, err, nil)
		return
	}

	view, err := that.matches.CreateMatch(r.Context(), usecase.CreateMatchParams{
		RoundLimit: request.RoundLimit,
		PlayerA:    usecase.PlayerParams(request.PlayerA),
		PlayerB:    usecase.PlayerParams(request.PlayerB),
	})
	if err != nil {
		that.writeError(w, r, statusFor(err), err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (that *matchHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, statusFor(err), err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *matchHandler) PlayTurn(w http.ResponseWriter, r *http.Request) {
	var request turnRequest
	if err := decodeBody(w, r, &request); err != nil {
		that.writeError(w, r, http.StatusBadRequest, err, nil)
		return
	}

	if request.Row == nil || request.Col == nil {
		that.writeError(w, r, http.StatusBadRequest, ErrMissingPosition, nil)
		return
	}

	pos := entity.Position{Row: *request.Row, Col: *request.Col}

	result, view, err := that.matches.PlayTurn(r.Context(), chi.URLParam(r, "id"), pos)
	if err != nil {
		var rejected *entity.TurnResult
		if !result.Valid && result.Reason != "" {
			rejected = &result
		}

		that.writeError(w, r, statusFor(err), err, rejected)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{Result: result, Match: view})
}

func (that *matchHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := that.matches.ResetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, statusFor(err), err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *matchHandler) ClearScores(w http.ResponseWriter, r *http.Request) {
	view, err := that.matches.ClearScores(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, statusFor(err), err, nil)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (that *matchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.DeleteMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, statusFor(err), err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *matchHandler) writeError(w http.ResponseWriter, r *http.Request, status int, err error, result *entity.TurnResult) {
	log := that.logger.With("method", r.Method, "path", r.URL.Path, "status", status)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		message = http.StatusText(status)
	} else {
		log.Debug("request rejected", "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message, Result: result})
}

// statusFor maps rule and storage errors to HTTP codes. Anything unknown is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrMatchOver):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidPosition),
		errors.Is(err, apperror.ErrInvalidMarker),
		errors.Is(err, apperror.ErrInvalidConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
