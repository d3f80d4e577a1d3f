package pictures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"
)

// FileStore reads pictures from a local directory.
type FileStore struct {
	root fs.FS
	dir  string
}

// NewFileStore serves pictures stored under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: os.DirFS(dir), dir: dir}
}

// FetchPicture reads the picture referenced by the profile.
func (s *FileStore) FetchPicture(ctx context.Context, ownerID uuid.UUID, profile *types.ProfileSnapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := pictureKey(ownerID, profile)
	if err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.ErrPictureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open picture %s: %w", key, err)
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read picture %s: %w", key, err)
	}
	return data, nil
}
