package generator

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoSkeptic/internal/config"
	"github.com/fjglira/GoSkeptic/internal/parser"
)

// Watcher regenerates the output whenever an input document changes.
type Watcher struct {
	gen      *DefaultGenerator
	cfg      *config.Config
	log      *logrus.Logger
	debounce time.Duration
	// OnGenerate, when set, is called after every generation attempt.
	OnGenerate func(*Result, error)
}

// NewWatcher creates a Watcher for the inputs named by cfg.
func NewWatcher(gen *DefaultGenerator, cfg *config.Config, log *logrus.Logger) *Watcher {
	return &Watcher{
		gen:      gen,
		cfg:      cfg,
		log:      log,
		debounce: cfg.Watch.DebounceInterval(),
	}
}

// Run generates once and then again after every burst of relevant file
// events, until ctx is done. Generation errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	store := parser.NewTemplateStore(w.cfg.Templates.Suffix, w.cfg.Tags.Language, w.gen.registry)
	watched := w.regenerate(fw, store)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev, watched, store) {
				continue
			}
			w.log.WithFields(logrus.Fields{"path": ev.Name, "op": ev.Op.String()}).Debug("Input changed")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watch error")
		case <-timer.C:
			watched = w.regenerate(fw, store)
		}
	}
}

// regenerate runs the generator and refreshes the watch list. It returns
// the set of watched document paths.
func (w *Watcher) regenerate(fw *fsnotify.Watcher, store *parser.TemplateStore) map[string]bool {
	res, err := w.gen.Generate(w.cfg)
	if err != nil {
		w.log.WithError(err).Error("Generation failed")
	}
	if w.OnGenerate != nil {
		w.OnGenerate(res, err)
	}

	docs, derr := w.gen.Documents(w.cfg, store)
	if derr != nil {
		w.log.WithError(derr).Warn("Failed to list documents")
	}

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, doc := range docs {
		watched[filepath.Clean(doc)] = true
		watched[filepath.Clean(store.CompanionPath(doc))] = true
		dirs[filepath.Dir(doc)] = true
	}
	for _, root := range w.cfg.Input.Directories {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				dirs[path] = true
				if !w.cfg.Input.IsRecursive() && path != root {
					return filepath.SkipDir
				}
			}
			return nil
		})
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			w.log.WithError(err).WithField("dir", dir).Warn("Failed to watch directory")
		}
	}
	return watched
}

// relevant reports whether ev concerns a watched document, its companion,
// or a document that may newly appear in an input directory.
func (w *Watcher) relevant(ev fsnotify.Event, watched map[string]bool, store *parser.TemplateStore) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	path := filepath.Clean(ev.Name)
	if watched[path] {
		return true
	}
	if store.IsCompanion(path) {
		return true
	}
	for _, root := range w.cfg.Input.Directories {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if w.gen.registry.Supports(filepath.Ext(path)) {
			return true
		}
	}
	return false
}
