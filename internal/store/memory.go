package store

import (
	"context"
	"sync"

	"github.com/tatianab/life-narrator/internal/models"
)

// Memory keeps the encoded snapshot in memory. Snapshots still go through
// the codec so a load observes the same migration as the durable stores.
type Memory struct {
	mu   sync.Mutex
	data []byte

	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (models.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return models.GameState{}, ErrNoSave
	}
	return models.DecodeSnapshot(m.data)
}

func (m *Memory) Save(ctx context.Context, state models.GameState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := models.EncodeSnapshot(state)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *Memory) HasSave(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data != nil, nil
}
