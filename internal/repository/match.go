package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

var ErrTooManyConflicts = errors.New("match was changed concurrently too many times")

const matchKeyPrefix = "match:"

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.MatchState) error
	GetByID(ctx context.Context, id string) (*entity.MatchState, error)
	Update(ctx context.Context, id string, apply func(match *entity.MatchState) error) (*entity.MatchState, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbMatch struct {
	client     *redis.Client
	ttl        time.Duration
	maxRetries int
}

// NewMatchRepository stores matches as JSON under "match:<id>". A zero ttl keeps them forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration, maxRetries int) MatchRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &dbMatch{
		client:     client,
		ttl:        ttl,
		maxRetries: maxRetries,
	}
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, match *entity.MatchState) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	err = that.client.Set(ctx, matchKey(match.ID), matchJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.MatchState, error) {
	response, err := that.client.Get(ctx, matchKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	return decodeMatch(response)
}

// Update loads the match, lets apply change it and writes it back in one
// transaction. If apply fails nothing is written and its error is returned as is.
func (that *dbMatch) Update(ctx context.Context, id string, apply func(match *entity.MatchState) error) (*entity.MatchState, error) {
	key := matchKey(id)

	var updated *entity.MatchState
	txf := func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return apperror.ErrMatchNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to get match by id: %w", err)
		}

		match, err := decodeMatch(response)
		if err != nil {
			return err
		}

		if err = apply(match); err != nil {
			return err
		}

		matchJSON, err := json.Marshal(match)
		if err != nil {
			return fmt.Errorf("could not marshal match: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, matchJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err //nolint: wrapcheck // redis.TxFailedErr is checked by the caller
		}

		updated = match

		return nil
	}

	for attempt := 0; attempt < that.maxRetries; attempt++ {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, err //nolint: wrapcheck // errors of apply must reach the caller unchanged
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: match id %s", ErrTooManyConflicts, id)
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, matchKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by ID: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrMatchNotFound
	}

	return nil
}

func matchKey(id string) string {
	return matchKeyPrefix + id
}

func decodeMatch(response string) (*entity.MatchState, error) {
	var match entity.MatchState
	if err := json.Unmarshal([]byte(response), &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &match, nil
}
