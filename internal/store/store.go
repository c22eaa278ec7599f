// Package store persists the single saved game between sessions.
package store

import (
	"context"
	"errors"

	"github.com/tatianab/life-narrator/internal/models"
)

// Slot is the fixed key the saved game is stored under.
const Slot = "current"

// ErrNoSave is returned by Load when nothing has been saved.
var ErrNoSave = errors.New("no saved game")

// Gateway loads, saves and clears the whole game snapshot. Save must
// replace the stored snapshot atomically.
type Gateway interface {
	Load(ctx context.Context) (models.GameState, error)
	Save(ctx context.Context, state models.GameState) error
	Clear(ctx context.Context) error
	HasSave(ctx context.Context) (bool, error)
}
