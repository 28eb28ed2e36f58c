package ftldat

import (
	"fmt"
	"math"
	"os"

	"github.com/buhanec/ftldat2/internal/fswalk"
)

// DefaultMinIndexSize is the minimum number of index slots Construct
// declares when no ConstructWithMinIndex option is set. Game patches add
// files to existing archives, so the index carries slack by convention.
const DefaultMinIndexSize = 2048

// Construct builds an archive from every regular file under root.
//
// Entry paths are relative to root and slash-separated on all platforms.
// Symbolic links are resolved before the regular-file check and directory
// links are followed during the walk. Files are visited in lexical order,
// so archives built from the same tree are byte-for-byte reproducible.
//
// The resulting IndexSize is the entry count or the configured minimum,
// whichever is larger.
func Construct(root string, opts ...ConstructOption) (*Archive, error) {
	cfg := constructConfig{minIndex: DefaultMinIndexSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	walker := cfg.walker
	if walker == nil {
		walker = fswalk.OS{}
	}

	log := logOrDiscard(cfg.logger)
	log.Info("constructing archive", "root", root)

	var entries []Entry
	err := walker.Walk(root, func(relPath, fsPath string) error {
		contents, err := os.ReadFile(fsPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", fsPath, err)
		}
		e := Entry{Path: relPath, Contents: contents}
		if err := e.validate(); err != nil {
			return err
		}
		log.Debug("added entry", "path", relPath, "size", len(contents))
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uint64(len(entries)) > math.MaxUint32 {
		return nil, fmt.Errorf("entry count %d: %w", len(entries), ErrFormatOverflow)
	}

	indexSize := uint32(len(entries))
	if cfg.minIndex > indexSize {
		indexSize = cfg.minIndex
	}

	log.Info("archive constructed", "entries", len(entries), "index_size", indexSize)
	return &Archive{Entries: entries, IndexSize: indexSize}, nil
}
