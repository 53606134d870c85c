package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/cbprofile"
)

// Ensure Store implements cbprofile.ProfileWriter at compile time.
var _ cbprofile.ProfileWriter = (*Store)(nil)

// Store writes a batch of profiles into a directory as a unit.
// Profiles are written to baseDir/name.tmp and moved to baseDir/name on
// Commit, replacing the previous batch.
type Store struct {
	baseDir string
	name    string
	writer  *Writer
}

// NewStore creates a new Store.
func NewStore(baseDir, name string) *Store {
	s := &Store{
		baseDir: baseDir,
		name:    name,
	}
	s.writer = NewWriter(s.tempDir())
	return s
}

func (s *Store) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *Store) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteProfile writes the profile into the pending batch.
func (s *Store) WriteProfile(ctx context.Context, p *cbprofile.Profile) error {
	return s.writer.WriteProfile(ctx, p)
}

// Commit replaces the final directory with the pending batch. A batch with
// no profiles leaves the final directory untouched.
func (s *Store) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the pending batch.
func (s *Store) Abort() error {
	return os.RemoveAll(s.tempDir())
}
