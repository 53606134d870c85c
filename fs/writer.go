// Package fs writes decoded profiles as JSON files.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/cbprofile"
)

// ProfilePath converts a profile URL to a relative file path.
// Example: https://www.crunchbase.com/organization/acme → organization/acme.json
func ProfilePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", cbprofile.Errorf(cbprofile.EINVALID, "invalid profile URL: %q", rawURL)
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if segment == ".." {
			return "", cbprofile.Errorf(cbprofile.EINVALID, "path traversal in profile URL: %q", rawURL)
		}
	}

	p := strings.Trim(path.Clean("/"+u.Path), "/")
	if p == "" {
		p = "index"
	}
	return filepath.FromSlash(p) + ".json", nil
}

// FormatProfile encodes a profile as an indented JSON document.
func FormatProfile(p *cbprofile.Profile) ([]byte, error) {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Ensure Writer implements cbprofile.ProfileWriter at compile time.
var _ cbprofile.ProfileWriter = (*Writer)(nil)

// Writer writes profiles as JSON files under a directory, mirroring the
// profile URL's path. Each file is written to a temporary name and renamed
// into place, so readers never see a partial document.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteProfile writes the profile to disk, replacing an earlier file for
// the same URL.
func (w *Writer) WriteProfile(ctx context.Context, p *cbprofile.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.Name == "" {
		return cbprofile.Errorf(cbprofile.EINVALID, "profile name required")
	}

	relPath, err := ProfilePath(p.URL)
	if err != nil {
		return err
	}
	content, err := FormatProfile(p)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(w.baseDir, relPath), content)
}

// writeFileAtomic writes content to a temporary file next to name and
// renames it over name.
func writeFileAtomic(name string, content []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
