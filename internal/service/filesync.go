package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/logger"
)

const fileSyncDebounce = 500 * time.Millisecond

// FileSync mirrors an editor session to a JSON file on disk. External
// edits to the file replace the session's composition.
type FileSync struct {
	session  *EditorSession
	path     string
	log      *logger.Logger
	emitter  EventEmitter
	debounce time.Duration

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	watchCancel context.CancelFunc
	lastWritten []byte
	done        chan struct{}
}

func NewFileSync(session *EditorSession, path string, emitter EventEmitter, log *logger.Logger) *FileSync {
	if log == nil {
		log = logger.Nop()
	}
	if emitter == nil {
		emitter = LogEmitter{Log: log}
	}
	return &FileSync{session: session, path: path, log: log, emitter: emitter, debounce: fileSyncDebounce}
}

// Export writes the current composition to the file.
func (f *FileSync) Export() error {
	data, err := json.MarshalIndent(f.session.Blocks(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode composition: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	f.mu.Lock()
	f.lastWritten = data
	f.mu.Unlock()
	return nil
}

// Apply reads the file and replaces the composition with it. Content equal
// to what Export last wrote is ignored.
func (f *FileSync) Apply(ctx context.Context) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	f.mu.Lock()
	same := f.lastWritten != nil && string(f.lastWritten) == string(data)
	f.mu.Unlock()
	if same {
		return nil
	}

	comp, err := domain.DecodeComposition(data)
	if err != nil {
		return err
	}
	if err := f.session.ReplaceComposition(ctx, comp); err != nil {
		return err
	}
	f.mu.Lock()
	f.lastWritten = data
	f.mu.Unlock()
	f.log.Info("file sync: composition replaced from file", "path", f.path, "blocks", len(comp))
	f.emitter.Emit(ctx, EventFileSynced, f.path)
	return nil
}

// Start watches the file's directory and applies debounced changes until
// Stop is called. Invalid files are logged and ignored.
func (f *FileSync) Start(ctx context.Context) error {
	absPath, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("file sync: bad path %q: %w", f.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file sync: create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file still trigger.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("file sync: watch %q: %w", filepath.Dir(absPath), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	f.mu.Lock()
	f.watcher = watcher
	f.watchCancel = cancel
	f.done = done
	f.mu.Unlock()

	// Apply runs on the loop goroutine, so Stop waiting on done also waits
	// for any apply in progress.
	go func() {
		defer close(done)
		timer := time.NewTimer(f.debounce)
		timer.Stop()
		defer timer.Stop()
		var fire <-chan time.Time
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				timer.Reset(f.debounce)
				fire = timer.C
			case <-fire:
				fire = nil
				if watchCtx.Err() != nil {
					return
				}
				if err := f.Apply(watchCtx); err != nil {
					f.log.Warn("file sync: ignoring file change", "path", absPath, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.log.Warn("file sync: watcher error", "error", err)
			}
		}
	}()

	f.log.Info("file sync: watching", "path", absPath)
	return nil
}

// Stop tears down the watcher and waits for the watch loop to exit. No
// change is applied once Stop returns.
func (f *FileSync) Stop() {
	f.mu.Lock()
	cancel, watcher, done := f.watchCancel, f.watcher, f.done
	f.watchCancel, f.watcher, f.done = nil, nil, nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Close()
	}
	if done != nil {
		<-done
	}
}
