// Command ftldat2 packs a directory tree into an FTL data archive or
// unpacks an archive back into a tree.
//
// Usage:
//
//	ftldat2 <source> [target]
//
// A regular-file source is treated as a packed archive and unpacked into
// target (default: the current directory). A directory source is packed
// into target (default: "<basename>.dat").
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
	"github.com/urfave/cli/v2"

	ftldat "github.com/buhanec/ftldat2"
)

func main() {
	app := &cli.App{
		Name:      "ftldat2",
		Usage:     "pack and unpack FTL data archives",
		ArgsUsage: "<source> [target]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every processed entry",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 || c.NArg() > 2 {
		_ = cli.ShowAppHelp(c)
		return fmt.Errorf("expected <source> [target], got %d arguments", c.NArg())
	}
	source := c.Args().Get(0)
	target := c.Args().Get(1)

	// One level of symlink indirection on the source.
	if info, err := os.Lstat(source); err == nil && info.Mode()&os.ModeSymlink != 0 {
		resolved, err := os.Readlink(source)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", source, err)
		}
		source = resolved
	}

	info, err := os.Stat(source)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if c.Bool("verbose") {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	if info.Mode().IsRegular() {
		return unpack(source, target, logger)
	}
	return pack(source, target, logger)
}

func unpack(source, target string, logger *slog.Logger) error {
	if target == "" {
		target = "."
	}
	a, err := ftldat.LoadFile(source)
	if err != nil {
		return err
	}
	report(logger, a)
	return a.Extract(target, ftldat.ExtractWithLogger(logger))
}

func pack(source, target string, logger *slog.Logger) error {
	if target == "" {
		target = defaultArchiveName(source)
	}
	a, err := ftldat.Construct(source, ftldat.ConstructWithLogger(logger))
	if err != nil {
		return err
	}
	report(logger, a)
	return a.SaveFile(target)
}

// defaultArchiveName derives "<basename>.dat" from the source directory.
// A source with a trailing separator has an empty basename; the cleaned
// path is used instead, mirroring a dirname fallback.
func defaultArchiveName(source string) string {
	_, base := filepath.Split(source)
	if base == "" {
		base = filepath.Clean(source)
	}
	return base + ".dat"
}

// report logs a per-entry listing with human-readable sizes.
func report(logger *slog.Logger, a *ftldat.Archive) {
	if logger == nil {
		return
	}
	var total int64
	for _, e := range a.Entries {
		logger.Debug("entry",
			"path", e.Path,
			"size", units.BytesSize(float64(len(e.Contents))))
		total += e.RecordSize()
	}
	logger.Info("archive",
		"entries", len(a.Entries),
		"index_size", a.IndexSize,
		"record_bytes", units.BytesSize(float64(total)))
}
