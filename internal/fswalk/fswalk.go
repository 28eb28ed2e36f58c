// Package fswalk enumerates regular files under a directory root.
package fswalk

import (
	"io/fs"
	"os"
	"path/filepath"
)

// WalkFunc receives one regular file: its root-relative, slash-separated
// path and the filesystem path its contents can be read from.
type WalkFunc func(relPath, fsPath string) error

// Walker enumerates every regular file reachable under a root directory.
type Walker interface {
	Walk(root string, fn WalkFunc) error
}

// OS walks the real filesystem.
//
// Symbolic links are resolved before the regular-file check and directory
// links are followed; link cycles are detected by tracking resolved
// directory paths. Entries within a directory are visited in lexical
// order.
type OS struct{}

// Walk implements Walker.
func (OS) Walk(root string, fn WalkFunc) error {
	return walk(root, "", fn, make(map[string]struct{}))
}

func walk(dir, rel string, fn WalkFunc, seen map[string]struct{}) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if _, ok := seen[resolved]; ok {
		// Directory link pointing back at an ancestor; descending would
		// never terminate.
		return nil
	}
	seen[resolved] = struct{}{}
	defer delete(seen, resolved)

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range dirents {
		childRel := d.Name()
		if rel != "" {
			childRel = rel + "/" + childRel
		}
		child := filepath.Join(dir, d.Name())

		info, err := os.Stat(child)
		if err != nil {
			return err
		}
		switch {
		case info.IsDir():
			if err := walk(child, childRel, fn, seen); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			fsPath := child
			if d.Type()&fs.ModeSymlink != 0 {
				if fsPath, err = filepath.EvalSymlinks(child); err != nil {
					return err
				}
			}
			if err := fn(childRel, fsPath); err != nil {
				return err
			}
		default:
			// Sockets, devices and other irregular files are skipped.
		}
	}
	return nil
}
