package rt

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// Resolver locates the compiled artifacts a doc test links against.
// It keeps no state between calls, so concurrent tests may share one.
type Resolver struct {
	log        *logrus.Logger
	extensions []string
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Resolver{log: log, extensions: ArtifactExtensions}
}

// TargetDir maps an output directory to the target profile directory.
// A directory already holding .fingerprint is returned unchanged; otherwise
// outDir is taken to be a build script OUT_DIR
// (<target>/build/<pkg>-<hash>/out) and three levels are popped.
func TargetDir(outDir string) string {
	outDir = filepath.Clean(outDir)
	if info, err := os.Stat(filepath.Join(outDir, FingerprintDir)); err == nil && info.IsDir() {
		return outDir
	}
	return filepath.Dir(filepath.Dir(filepath.Dir(outDir)))
}

// Resolve cross-references the project's lockfile with the fingerprints
// under targetDir. For every locked dependency the fingerprint with the
// exact version and the newest modification time wins; fingerprints whose
// artifact is missing are skipped. Results are sorted by library name.
func (r *Resolver) Resolve(rootDir, targetDir string) ([]Fingerprint, error) {
	lockPath, err := FindLockfile(rootDir, targetDir)
	if err != nil {
		return nil, err
	}
	locked, err := ReadLockfile(lockPath)
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{"lockfile": lockPath, "dependencies": len(locked)}).Debug("Read lockfile")

	newest := make(map[string]Fingerprint)
	fpDir := filepath.Join(targetDir, FingerprintDir)
	err = filepath.WalkDir(fpDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == fpDir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fp, err := ParseFingerprint(path, r.extensions)
		if err != nil {
			if !errors.Is(err, ErrBadFingerprint) {
				r.log.WithError(err).WithField("path", path).Debug("Skipping unreadable fingerprint")
			}
			return nil
		}
		if _, ok := locked[fp.Dependency()]; !ok {
			return nil
		}
		if fp.Artifact == "" {
			r.log.WithFields(logrus.Fields{"lib": fp.LibName, "hash": fp.Hash}).Debug("No artifact for fingerprint")
			return nil
		}
		if cur, ok := newest[fp.LibName]; !ok || cur.ModTime.Before(fp.ModTime) {
			newest[fp.LibName] = fp
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan fingerprints in %s: %w", fpDir, err)
	}

	if len(newest) == 0 && len(locked) > 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoArtifacts, targetDir)
	}

	deps := make([]Fingerprint, 0, len(newest))
	for _, fp := range newest {
		deps = append(deps, fp)
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].LibName < deps[j].LibName })

	for _, fp := range deps {
		r.log.WithFields(logrus.Fields{"lib": fp.LibName, "version": fp.Version, "artifact": fp.Artifact}).Debug("Resolved dependency")
	}
	return deps, nil
}
