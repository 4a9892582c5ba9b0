package rt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LockfileName is the name of Cargo's lockfile.
const LockfileName = "Cargo.lock"

// Dependency is a locked (library name, version) pair. Names use '_' in
// place of '-' as crate names do.
type Dependency struct {
	Name    string
	Version string
}

type cargoLock struct {
	Root     *lockEntry  `toml:"root"`
	Packages []lockEntry `toml:"package"`
}

type lockEntry struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Dependencies []string `toml:"dependencies"`
}

// ReadLockfile parses a Cargo.lock into its set of locked dependencies.
// Both the legacy [root] table and the [[package]] array are understood.
func ReadLockfile(path string) (map[Dependency]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lock cargoLock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	deps := make(map[Dependency]struct{})
	add := func(name, version string) {
		if name == "" || version == "" {
			return
		}
		deps[Dependency{Name: crateName(name), Version: version}] = struct{}{}
	}

	if lock.Root != nil {
		add(lock.Root.Name, lock.Root.Version)
		for _, spec := range lock.Root.Dependencies {
			// "name version (source)"
			fields := strings.Fields(spec)
			if len(fields) >= 2 {
				add(fields[0], fields[1])
			}
		}
	}
	for _, pkg := range lock.Packages {
		add(pkg.Name, pkg.Version)
	}
	return deps, nil
}

// FindLockfile returns the lockfile of rootDir, falling back to the project
// that owns targetDir (two levels above a target/<profile> directory).
func FindLockfile(rootDir, targetDir string) (string, error) {
	candidates := []string{
		filepath.Join(rootDir, LockfileName),
		filepath.Join(filepath.Dir(filepath.Dir(filepath.Clean(targetDir))), LockfileName),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrLockfileNotFound, strings.Join(candidates, ", "))
}

func crateName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
