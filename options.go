package ftldat

import (
	"log/slog"

	"github.com/buhanec/ftldat2/internal/fswalk"
)

// constructConfig holds configuration for Construct.
type constructConfig struct {
	minIndex uint32
	walker   fswalk.Walker
	logger   *slog.Logger
}

// ConstructOption configures Construct.
type ConstructOption func(*constructConfig)

// ConstructWithMinIndex sets the minimum number of index slots the archive
// declares. The zero value declares exactly one slot per entry.
func ConstructWithMinIndex(n uint32) ConstructOption {
	return func(cfg *constructConfig) {
		cfg.minIndex = n
	}
}

// ConstructWithWalker replaces the filesystem traversal used to enumerate
// files under the root.
func ConstructWithWalker(w fswalk.Walker) ConstructOption {
	return func(cfg *constructConfig) {
		cfg.walker = w
	}
}

// ConstructWithLogger sets the logger for construction. A nil logger
// discards all output.
func ConstructWithLogger(l *slog.Logger) ConstructOption {
	return func(cfg *constructConfig) {
		cfg.logger = l
	}
}

// extractConfig holds configuration for Extract.
type extractConfig struct {
	logger *slog.Logger
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithLogger sets the logger for extraction. A nil logger discards
// all output.
func ExtractWithLogger(l *slog.Logger) ExtractOption {
	return func(cfg *extractConfig) {
		cfg.logger = l
	}
}
