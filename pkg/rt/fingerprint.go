package rt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// FingerprintDir is the directory under a target profile holding Cargo's
// per-unit build fingerprints.
const FingerprintDir = ".fingerprint"

// DepsDir is the directory under a target profile holding compiled libraries.
const DepsDir = "deps"

// ArtifactExtensions lists library file extensions in preference order.
var ArtifactExtensions = []string{"rlib", "so", "dylib", "dll"}

// Fingerprint is the build record of one compiled library.
type Fingerprint struct {
	LibName  string
	Hash     string
	Version  string
	Artifact string
	ModTime  time.Time
}

// Dependency returns the (name, version) pair the fingerprint was built for.
func (f Fingerprint) Dependency() Dependency {
	return Dependency{Name: f.LibName, Version: f.Version}
}

// ParseFingerprint decodes a fingerprint file located at
// <target>/.fingerprint/<pkg>-<hash>/lib-<name>[-<hash>].json.
// The artifact path is resolved against <target>/deps using the first of
// extensions that exists on disk; Artifact is empty when none does.
func ParseFingerprint(path string, extensions []string) (Fingerprint, error) {
	if filepath.Ext(path) != ".json" {
		return Fingerprint{}, fmt.Errorf("%w: %s is not a json file", ErrBadFingerprint, path)
	}
	stem := strings.TrimSuffix(filepath.Base(path), ".json")
	libName, hash, ok := splitFingerprintName(stem, filepath.Base(filepath.Dir(path)))
	if !ok {
		return Fingerprint{}, fmt.Errorf("%w: unexpected file name %s", ErrBadFingerprint, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fingerprint{}, err
	}
	if !gjson.ValidBytes(data) {
		return Fingerprint{}, fmt.Errorf("%w: %s is not valid JSON", ErrBadFingerprint, path)
	}

	version := gjson.GetBytes(data, "local.Precalculated")
	if !version.Exists() {
		// some cargo versions record a list of local fingerprints
		version = gjson.GetBytes(data, "local.0.Precalculated")
	}
	if !version.Exists() {
		return Fingerprint{}, fmt.Errorf("%w: %s has no precalculated version", ErrBadFingerprint, path)
	}

	fp := Fingerprint{
		LibName: libName,
		Hash:    hash,
		Version: version.String(),
		ModTime: info.ModTime(),
	}

	// <target>/.fingerprint/<pkg>-<hash>/<file>
	targetDir := filepath.Dir(filepath.Dir(filepath.Dir(path)))
	fp.Artifact, err = findArtifact(filepath.Join(targetDir, DepsDir), libName, hash, extensions)
	if err != nil {
		return Fingerprint{}, err
	}
	return fp, nil
}

// splitFingerprintName extracts the library name and hash. The legacy layout
// encodes both in the file stem ("lib-<name>-<hash>"); the current one puts
// the hash on the directory ("<pkg>-<hash>/lib-<name>").
func splitFingerprintName(stem, dir string) (libName, hash string, ok bool) {
	parts := strings.SplitN(stem, "-", 3)
	if len(parts) < 2 || parts[0] != "lib" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 && parts[2] != "" {
		return parts[1], parts[2], true
	}
	idx := strings.LastIndex(dir, "-")
	if idx < 0 || idx == len(dir)-1 {
		return "", "", false
	}
	return parts[1], dir[idx+1:], true
}

func findArtifact(depsDir, libName, hash string, extensions []string) (string, error) {
	for _, ext := range extensions {
		candidate := filepath.Join(depsDir, fmt.Sprintf("lib%s-%s.%s", libName, hash, ext))
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}
