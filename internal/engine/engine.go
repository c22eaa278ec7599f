// Package engine runs the turn state machine of a single game session.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/tatianab/life-narrator/internal/models"
	"github.com/tatianab/life-narrator/internal/store"
	"golang.org/x/text/language"
)

var (
	ErrNoGame         = errors.New("no game in progress")
	ErrGameInProgress = errors.New("a game is already in progress")
	ErrTurnInFlight   = errors.New("a turn is already being narrated")
	ErrDead           = errors.New("the character is dead")
	ErrEmptyAction    = errors.New("action is empty")
)

// Generator produces the narrative delta for one turn.
type Generator interface {
	Narrate(ctx context.Context, req models.NarrationRequest) (models.NarrativeDelta, error)
}

// TurnResult describes one committed turn.
type TurnResult struct {
	// Played is false when Open found nothing to do.
	Played      bool
	State       models.GameState
	Achievement *models.Achievement
	// Fallback is set when the narrator failed and the fallback delta was
	// applied instead; Cause holds the reason.
	Fallback bool
	Cause    error
	// SaveErr wraps models.ErrPersistence when the committed state could not
	// be saved. The in-memory state stays authoritative.
	SaveErr error
}

type Engine struct {
	gen     Generator
	store   store.Gateway
	applier *models.Applier
	lang    language.Tag
	logger  *log.Logger

	notify chan models.Achievement

	mu       sync.Mutex
	state    *models.GameState
	inFlight bool
}

type Option func(*Engine)

// WithLanguage sets the language the narrator writes in.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) { e.lang = tag }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithApplier replaces the delta applier, e.g. to fix achievement ids in tests.
func WithApplier(a *models.Applier) Option {
	return func(e *Engine) { e.applier = a }
}

func New(gen Generator, gw store.Gateway, opts ...Option) *Engine {
	e := &Engine{
		gen:     gen,
		store:   gw,
		applier: models.NewApplier(),
		lang:    language.Arabic,
		logger:  log.Default(),
		notify:  make(chan models.Achievement, 8),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Achievements delivers every achievement unlocked by a committed turn.
// Sends never block; if nobody drains the channel, notifications are dropped.
func (e *Engine) Achievements() <-chan models.Achievement {
	return e.notify
}

func (e *Engine) Language() language.Tag {
	return e.lang
}

func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phaseLocked()
}

func (e *Engine) phaseLocked() Phase {
	switch {
	case e.state == nil:
		return PhaseIdle
	case e.inFlight:
		return PhaseTurnInFlight
	case e.state.IsDead():
		return PhaseDead
	case len(e.state.History) == 0 && e.state.CurrentTurn == nil:
		return PhaseAwaitingFirstTurn
	default:
		return PhaseAwaitingAction
	}
}

// State returns a copy of the current game state.
func (e *Engine) State() (models.GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return models.GameState{}, false
	}
	return e.state.Clone(), true
}

// Start creates a fresh game. The opening scene is requested by Open.
func (e *Engine) Start(settings models.GameSettings) (models.GameState, error) {
	settings, err := models.NewSettings(settings)
	if err != nil {
		return models.GameState{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != nil {
		return models.GameState{}, ErrGameInProgress
	}
	e.state = &models.GameState{
		Settings: settings,
		Stats:    models.InitialStats(settings),
		History:  []models.HistoryEntry{},
	}
	return e.state.Clone(), nil
}

// Restore loads the saved game. It returns store.ErrNoSave when there is none,
// and ErrPersistence when the save cannot be read or holds invalid settings.
func (e *Engine) Restore(ctx context.Context) (models.GameState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != nil {
		return models.GameState{}, ErrGameInProgress
	}

	state, err := e.store.Load(ctx)
	if errors.Is(err, store.ErrNoSave) {
		return models.GameState{}, err
	}
	if err != nil {
		return models.GameState{}, fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	if err := state.Settings.Validate(); err != nil {
		return models.GameState{}, fmt.Errorf("%w: saved game: %v", models.ErrPersistence, err)
	}
	e.state = &state
	return state.Clone(), nil
}

// Open plays the opening scene when the game has none yet. It only fires
// while the history is empty, no turn is on offer and no turn is in flight,
// so calling it again after a reload is a no-op.
func (e *Engine) Open(ctx context.Context) (TurnResult, error) {
	e.mu.Lock()
	if e.phaseLocked() != PhaseAwaitingFirstTurn {
		e.mu.Unlock()
		return TurnResult{}, nil
	}
	req := e.beginTurnLocked(nil)
	e.mu.Unlock()

	return e.finishTurn(ctx, req)
}

// SubmitAction plays one turn for the player's action. An empty action is
// only accepted for the opening scene.
func (e *Engine) SubmitAction(ctx context.Context, action string) (TurnResult, error) {
	action = strings.TrimSpace(action)

	e.mu.Lock()
	phase := e.phaseLocked()
	switch phase {
	case PhaseIdle:
		e.mu.Unlock()
		return TurnResult{}, ErrNoGame
	case PhaseTurnInFlight:
		e.mu.Unlock()
		return TurnResult{}, ErrTurnInFlight
	case PhaseDead:
		e.mu.Unlock()
		return TurnResult{}, ErrDead
	}

	var act *string
	if action != "" {
		act = &action
	} else if phase != PhaseAwaitingFirstTurn {
		e.mu.Unlock()
		return TurnResult{}, ErrEmptyAction
	}
	req := e.beginTurnLocked(act)
	e.mu.Unlock()

	return e.finishTurn(ctx, req)
}

// beginTurnLocked records the player's action and marks the turn in flight.
func (e *Engine) beginTurnLocked(action *string) models.NarrationRequest {
	if action != nil {
		e.state.History = append(e.state.History, models.HistoryEntry{Role: models.RolePlayer, Text: *action})
	}
	e.inFlight = true
	snapshot := e.state.Clone()
	return models.NarrationRequest{
		Settings: snapshot.Settings,
		Stats:    snapshot.Stats,
		History:  snapshot.History,
		Action:   action,
		Language: e.lang,
	}
}

// finishTurn asks the generator for a delta and commits it, or the fallback
// delta if that fails. It always leaves the in-flight state.
func (e *Engine) finishTurn(ctx context.Context, req models.NarrationRequest) (TurnResult, error) {
	delta, cause := e.narrate(ctx, req)

	e.mu.Lock()
	var result TurnResult
	if cause == nil {
		stats, unlocked, err := e.applier.Apply(e.state.Stats, delta)
		if err == nil {
			e.state.Stats = stats
			result.Achievement = unlocked
		} else {
			cause = err
		}
	}
	if cause != nil {
		e.logger.Printf("Warning: narration failed, using fallback: %v", cause)
		delta = FallbackDelta(e.lang)
		result.Fallback = true
		result.Cause = cause
	}
	e.commitLocked(delta)
	result.Played = true
	result.State = e.state.Clone()
	e.mu.Unlock()

	if result.Achievement != nil {
		select {
		case e.notify <- *result.Achievement:
		default:
		}
	}

	if err := e.store.Save(context.WithoutCancel(ctx), result.State); err != nil {
		result.SaveErr = fmt.Errorf("%w: %v", models.ErrPersistence, err)
		e.logger.Printf("Warning: continuing without saving: %v", err)
	}

	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
	return result, nil
}

func (e *Engine) narrate(ctx context.Context, req models.NarrationRequest) (models.NarrativeDelta, error) {
	delta, err := e.gen.Narrate(ctx, req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDelta) || errors.Is(err, models.ErrGeneratorUnavailable) {
			return models.NarrativeDelta{}, err
		}
		return models.NarrativeDelta{}, fmt.Errorf("%w: %v", models.ErrGeneratorUnavailable, err)
	}
	if err := delta.Validate(); err != nil {
		return models.NarrativeDelta{}, err
	}
	return delta, nil
}

// commitLocked appends the narration and offers its choices, unless the
// character died.
func (e *Engine) commitLocked(delta models.NarrativeDelta) {
	e.state.History = append(e.state.History, models.HistoryEntry{Role: models.RoleNarrator, Text: delta.StoryText})
	turn := &models.TurnData{StorySegment: delta.StoryText, Options: []string{}}
	if !e.state.IsDead() {
		turn.Options = append(turn.Options, delta.Choices...)
	}
	e.state.CurrentTurn = turn
	e.state.TurnCount++
}

// Reset discards the game and clears the saved snapshot. It is refused
// while a turn is in flight.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrTurnInFlight
	}
	e.state = nil
	e.mu.Unlock()

	e.logger.Printf("game reset")
	if err := e.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return nil
}
