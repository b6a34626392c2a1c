package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
)

// Store serializes reads and writes of the state document. Writes are
// whole-section replacements; the last writer wins.
type Store struct {
	backend Backend
	logger  *slog.Logger
	mu      sync.Mutex
}

func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Load returns the normalized state. A missing document yields the
// default state; a corrupt one is logged and replaced by the default.
func (s *Store) Load(ctx context.Context) (types.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (types.State, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return types.NewState(), nil
		}
		return types.State{}, err
	}

	var state types.State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("Storage: state document is corrupt, falling back to defaults", "error", err)
		return types.NewState(), nil
	}
	return Normalize(state), nil
}

func (s *Store) save(ctx context.Context, state types.State) (types.State, error) {
	state = Normalize(state)
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return types.State{}, fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return types.State{}, err
	}
	return state, nil
}

// mutate runs fn on the current state and persists the result.
func (s *Store) mutate(ctx context.Context, fn func(types.State) (types.State, error)) (types.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return types.State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return types.State{}, err
	}
	return s.save(ctx, next)
}

// Update merges patch into the stored state and appends progress events.
func (s *Store) Update(ctx context.Context, patch Patch, now time.Time) (types.State, error) {
	state, err := s.mutate(ctx, func(current types.State) (types.State, error) {
		return Apply(current, patch, now), nil
	})
	if err != nil {
		return types.State{}, err
	}
	s.logger.Debug("Storage: state updated", "progress", len(state.Progress), "history", len(state.ProgressHistory))
	return state, nil
}

// UpdateGoals replaces the custom goals with the result of fn.
func (s *Store) UpdateGoals(ctx context.Context, fn func([]types.Goal) ([]types.Goal, error)) (types.State, error) {
	return s.mutate(ctx, func(current types.State) (types.State, error) {
		goals, err := fn(current.CustomGoals)
		if err != nil {
			return types.State{}, err
		}
		current.CustomGoals = goals
		return current, nil
	})
}

// SetPortfolio replaces the cached portfolio.
func (s *Store) SetPortfolio(ctx context.Context, portfolio types.Portfolio) (types.State, error) {
	return s.mutate(ctx, func(current types.State) (types.State, error) {
		current.Portfolio = portfolio
		return current, nil
	})
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
