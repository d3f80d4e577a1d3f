// Package pictures provides the profile picture sources used by the generator.
package pictures

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/mycv/cvgen/internal/types"
)

// MaxPictureSize is the largest picture accepted, in bytes.
const MaxPictureSize = 10 << 20

// ErrPictureTooLarge is returned when a picture exceeds MaxPictureSize.
var ErrPictureTooLarge = errors.New("profile picture too large")

// pictureKey checks ownership and returns the cleaned storage key of the profile picture.
func pictureKey(ownerID uuid.UUID, profile *types.ProfileSnapshot) (string, error) {
	if profile == nil || profile.OwnerID != ownerID {
		return "", types.ErrPictureAccessDenied
	}
	key := strings.TrimSpace(profile.PictureKey)
	if key == "" {
		return "", types.ErrPictureNotFound
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", fmt.Errorf("invalid picture key %q", key)
	}
	return cleaned, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPictureSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxPictureSize {
		return nil, ErrPictureTooLarge
	}
	return data, nil
}
