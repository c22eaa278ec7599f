package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tatianab/life-narrator/internal/models"
)

const snapshotFile = "game.yaml"

// File stores the snapshot as YAML under dir/<slot>/game.yaml.
type File struct {
	dir string
}

// NewFile returns a file store rooted at dir.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (f *File) path() string {
	return filepath.Join(f.dir, Slot, snapshotFile)
}

func (f *File) Load(ctx context.Context) (models.GameState, error) {
	if err := ctx.Err(); err != nil {
		return models.GameState{}, err
	}
	data, err := os.ReadFile(f.path())
	if errors.Is(err, os.ErrNotExist) {
		return models.GameState{}, ErrNoSave
	}
	if err != nil {
		return models.GameState{}, err
	}
	return models.DecodeSnapshot(data)
}

// Save writes to a temporary file in the same directory and renames it over
// the old snapshot, so readers never see a partial write.
func (f *File) Save(ctx context.Context, state models.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := models.EncodeSnapshot(state)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, snapshotFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path())
}

func (f *File) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(f.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *File) HasSave(ctx context.Context) (bool, error) {
	_, err := os.Stat(f.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
