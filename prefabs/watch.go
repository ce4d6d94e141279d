package prefabs

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must stay quiet before its edit is
// reported. Editors often save in several writes.
const watchDebounce = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

func (k ChangeKind) String() string {
	if k == ChangeScript {
		return "script"
	}
	return "spec"
}

// Change is an edited prefab file.
type Change struct {
	Path string
	Kind ChangeKind
}

// Watcher reports edited spec and script files, one Change per file and
// burst of writes. Events is drained by the host on its own tick.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan Change
	Errors chan error
	done   chan struct{}
	once   sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:     fs,
		Events: make(chan Change, 16),
		Errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// Poll returns the changes queued since the last call without blocking.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case c := <-w.Events:
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	pending := make(map[string]ChangeKind)
	flush := time.NewTimer(watchDebounce)
	flush.Stop()
	defer flush.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if kind, ok := classify(event.Name); ok {
				pending[event.Name] = kind
				flush.Reset(watchDebounce)
			}
		case <-flush.C:
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				select {
				case w.Events <- Change{Path: path, Kind: pending[path]}:
				case <-w.done:
					return
				}
			}
			clear(pending)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
