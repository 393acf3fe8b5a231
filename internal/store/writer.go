package store

import (
	"log/slog"
	"sync"
	"time"
)

// WriteHook observes every background write.
type WriteHook func(took time.Duration, size int, err error)

// Writer moves disk writes off the simulation goroutine. Save only records
// the bytes and wakes the background goroutine; if several saves arrive while
// a write is in flight, only the latest is written.
type Writer struct {
	store Store
	log   *slog.Logger
	hook  WriteHook

	mu      sync.Mutex // guards pending, closed, lastErr
	pending []byte
	closed  bool
	lastErr error

	// io serializes access to store so Delete cannot race a write.
	io sync.Mutex

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func NewWriter(store Store, logger *slog.Logger, hook WriteHook) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		store: store,
		log:   logger.With("component", "save-writer"),
		hook:  hook,
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

// Save queues data for writing and returns immediately. The caller must not
// modify data afterwards.
func (w *Writer) Save(data []byte) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.pending = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Load flushes any queued save and reads the stored one back.
func (w *Writer) Load() ([]byte, error) {
	w.flush()
	w.io.Lock()
	defer w.io.Unlock()
	return w.store.Load()
}

// Delete drops any queued save and removes the stored one.
func (w *Writer) Delete() error {
	w.io.Lock()
	defer w.io.Unlock()

	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
	return w.store.Delete()
}

// Flush writes any queued save before returning.
func (w *Writer) Flush() error {
	w.flush()
	return w.Err()
}

// Err returns the error from the most recent write, if it failed.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Close writes the last queued save, stops the goroutine and closes the store.
func (w *Writer) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()

		close(w.quit)
		<-w.done

		err = w.Err()
		if cerr := w.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.quit:
			w.flush()
			return
		}
	}
}

func (w *Writer) flush() {
	w.io.Lock()
	defer w.io.Unlock()

	w.mu.Lock()
	data := w.pending
	w.pending = nil
	w.mu.Unlock()
	if data == nil {
		return
	}

	start := time.Now()
	err := w.store.Save(data)
	took := time.Since(start)

	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		w.log.Error("background save failed", "err", err)
	} else {
		w.log.Debug("saved", "bytes", len(data), "took", took)
	}
	if w.hook != nil {
		w.hook(took, len(data), err)
	}
}
