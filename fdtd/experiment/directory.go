package experiment

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	RunsDir       = "runs"
	LatestSymlink = "latest"
)

// RunDir is the output directory of one simulation run.
type RunDir struct {
	Path    string // Absolute path to the run directory
	ID      string
	Created time.Time
}

// Create makes a new run directory under root and points root/latest at it.
// An empty root selects RunsDir.
func Create(root string) (*RunDir, error) {
	if root == "" {
		root = RunsDir
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating runs directory: %w", err)
	}

	now := time.Now().UTC()
	id := RunID(NewNamer(now.UnixNano()), now)
	absPath, err := filepath.Abs(filepath.Join(root, id))
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	if err := os.Mkdir(absPath, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}

	latest := filepath.Join(root, LatestSymlink)
	_ = os.Remove(latest)
	if err := os.Symlink(id, latest); err != nil {
		fmt.Printf("Warning: failed to create latest symlink: %v\n", err)
	}

	return &RunDir{Path: absPath, ID: id, Created: now}, nil
}

// File returns the absolute path for a file in the run directory
func (r *RunDir) File(name string) string {
	return filepath.Join(r.Path, name)
}

// Snapshot returns the path of the field image taken at a tick.
func (r *RunDir) Snapshot(tick int) string {
	return r.File(fmt.Sprintf("field_%06d.png", tick))
}

// CopyFile copies srcPath into the run directory under its base name
func (r *RunDir) CopyFile(srcPath string) error {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", srcPath, err)
	}
	if err := os.WriteFile(r.File(filepath.Base(srcPath)), content, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(srcPath), err)
	}
	return nil
}
