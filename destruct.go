package ftldat

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Extract writes every entry to a file under dir, in archive order.
//
// Entry paths are converted from slashes to the platform separator and
// missing parent directories are created. Existing files are overwritten;
// nothing already under dir is removed, so extraction is additive. When
// the archive holds duplicate paths the last entry wins.
//
// Entry paths that would escape dir (absolute paths or ".." elements) are
// rejected with fs.ErrInvalid. A failed extraction may leave a partially
// written tree behind; no cleanup is attempted.
func (a *Archive) Extract(dir string, opts ...ExtractOption) error {
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := logOrDiscard(cfg.logger)
	log.Info("extracting archive", "dir", dir, "entries", len(a.Entries))

	for _, e := range a.Entries {
		if !fs.ValidPath(e.Path) || e.Path == "." {
			return fmt.Errorf("ftldat: extract %q: %w", e.Path, fs.ErrInvalid)
		}
		target := filepath.Join(dir, filepath.FromSlash(e.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", e.Path, err)
		}
		if err := os.WriteFile(target, e.Contents, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", e.Path, err)
		}
		log.Debug("extracted entry", "path", e.Path, "size", len(e.Contents))
	}
	return nil
}
