//go:build !tinygo

package hal

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	uploadQueue = 16
	// settleDelay is how long a watched file must go without writes before
	// it is read.
	settleDelay = 250 * time.Millisecond
)

type hostUploads struct {
	ch chan Upload

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	pending map[string]*time.Timer
	done    chan struct{}
}

func newHostUploads() *hostUploads {
	return &hostUploads{ch: make(chan Upload, uploadQueue), pending: map[string]*time.Timer{}}
}

func (u *hostUploads) Uploads() <-chan Upload { return u.ch }

// offer queues an upload, dropping it when the app is not keeping up.
func (u *hostUploads) offer(up Upload) bool {
	select {
	case u.ch <- up:
		return true
	default:
		return false
	}
}

func (u *hostUploads) offerFile(p string) bool {
	data, err := os.ReadFile(p)
	if err != nil {
		err = fmt.Errorf("hal: read upload: %w", err)
	}
	return u.offer(Upload{Name: filepath.Base(p), Data: data, Err: err})
}

// offerFS queues every regular file in fsys, as handed over by a window
// drop.
func (u *hostUploads) offerFS(fsys fs.FS) int {
	n := 0
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			err = fmt.Errorf("hal: read dropped file: %w", err)
		}
		if u.offer(Upload{Name: path.Base(p), Data: data, Err: err}) {
			n++
		}
		return nil
	})
	return n
}

// watch offers files created or rewritten in dir once their writes settle.
func (u *hostUploads) watch(dir string, log Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("hal: watch inbox: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("hal: watch inbox %s: %w", dir, err)
	}
	u.mu.Lock()
	u.watcher = w
	u.done = make(chan struct{})
	done := u.done
	u.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					u.settle(ev.Name)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.WriteLineString("hal: inbox watcher: " + err.Error())
				}
			}
		}
	}()
	return nil
}

func (u *hostUploads) settle(name string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t, ok := u.pending[name]; ok {
		t.Reset(settleDelay)
		return
	}
	u.pending[name] = time.AfterFunc(settleDelay, func() {
		u.mu.Lock()
		delete(u.pending, name)
		u.mu.Unlock()
		if st, err := os.Stat(name); err == nil && st.Mode().IsRegular() {
			u.offerFile(name)
		}
	})
}

func (u *hostUploads) close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for name, t := range u.pending {
		t.Stop()
		delete(u.pending, name)
	}
	if u.watcher == nil {
		return nil
	}
	close(u.done)
	err := u.watcher.Close()
	u.watcher = nil
	return err
}
