package artifacts

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sargiotti/BackEndServer/models"
)

// Store owns the temp directory holding transcoding outputs. Every artifact
// gets a fresh uuid-derived name, so concurrent requests never collide on a
// shared filename.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "failed to create artifact directory")
	}
	return &Store{dir: dir}, nil
}

// New allocates an artifact identity and local path. The file itself is
// created by the transcoding gateway.
func (s *Store) New(kind models.ArtifactKind) models.MediaArtifact {
	id := uuid.New().String()
	name := string(kind) + "-" + id + ext(kind)
	return models.MediaArtifact{
		ID:        id,
		Kind:      kind,
		LocalPath: filepath.Join(s.dir, name),
		RemoteKey: name,
		CreatedAt: time.Now(),
	}
}

func ext(kind models.ArtifactKind) string {
	if kind == models.KindFrame {
		return ".jpg"
	}
	return ".mp3"
}

// Exists reports whether the artifact's local file is present.
func (s *Store) Exists(a models.MediaArtifact) bool {
	info, err := os.Stat(a.LocalPath)
	return err == nil && !info.IsDir()
}

// Remove deletes the artifact's local file. Removing an already-gone file
// is not an error.
func (s *Store) Remove(a models.MediaArtifact) error {
	if err := os.Remove(a.LocalPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove artifact")
	}
	return nil
}

// Read returns the artifact's bytes, for inline delivery.
func (s *Store) Read(a models.MediaArtifact) ([]byte, error) {
	data, err := os.ReadFile(a.LocalPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read artifact")
	}
	return data, nil
}
