package store

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// slowStore blocks each Save until released.
type slowStore struct {
	mu      sync.Mutex
	saved   [][]byte
	deleted int
	closed  bool
	err     error
	gate    chan struct{}
}

func (s *slowStore) Load() ([]byte, error) { return nil, ErrNoSave }

func (s *slowStore) Save(data []byte) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, data)
	return nil
}

func (s *slowStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted++
	s.saved = nil
	return nil
}

func (s *slowStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *slowStore) writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.saved...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriterCloseFlushes(t *testing.T) {
	st := &slowStore{}
	w := NewWriter(st, quietLogger(), nil)

	if err := w.Save([]byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got := st.writes()
	if len(got) == 0 || string(got[len(got)-1]) != "one" {
		t.Fatalf("writes = %q, want last \"one\"", got)
	}
	if !st.closed {
		t.Error("store not closed")
	}
	if err := w.Save([]byte("late")); !errors.Is(err, ErrClosed) {
		t.Errorf("Save after Close error = %v, want ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}

func TestWriterLatestWins(t *testing.T) {
	st := &slowStore{gate: make(chan struct{})}
	w := NewWriter(st, quietLogger(), nil)

	_ = w.Save([]byte("first"))
	// Let the goroutine pick up "first" and block inside Save.
	time.Sleep(20 * time.Millisecond)
	_ = w.Save([]byte("second"))
	_ = w.Save([]byte("third"))

	close(st.gate)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got := st.writes()
	if len(got) == 0 || string(got[len(got)-1]) != "third" {
		t.Fatalf("writes = %q, want to end with \"third\"", got)
	}
	for _, d := range got {
		if string(d) == "second" {
			t.Errorf("superseded save was written: %q", got)
		}
	}
}

func TestWriterDeleteDropsPending(t *testing.T) {
	st := &slowStore{}
	w := NewWriter(st, quietLogger(), nil)
	defer w.Close()

	_ = w.Save([]byte("doomed"))
	if err := w.Delete(); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	if got := st.writes(); len(got) != 0 {
		t.Errorf("writes after delete = %q, want none", got)
	}
	if st.deleted != 1 {
		t.Errorf("deleted = %d, want 1", st.deleted)
	}
}

func TestWriterReportsErrors(t *testing.T) {
	st := &slowStore{err: errors.New("disk full")}
	var (
		mu    sync.Mutex
		calls int
		last  error
	)
	w := NewWriter(st, quietLogger(), func(_ time.Duration, size int, err error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = err
		if size != 4 {
			t.Errorf("hook size = %d, want 4", size)
		}
	})

	_ = w.Save([]byte("data"))
	if err := w.Flush(); err == nil {
		t.Error("Flush() error = nil, want disk full")
	}
	if err := w.Close(); err == nil {
		t.Error("Close() error = nil, want the last write error")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 || last == nil {
		t.Errorf("hook calls = %d last = %v", calls, last)
	}
}

func TestWriterLoadSeesQueuedSave(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "save.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	w := NewWriter(fs, quietLogger(), nil)
	defer w.Close()

	if _, err := w.Load(); !errors.Is(err, ErrNoSave) {
		t.Fatalf("Load() error = %v, want ErrNoSave", err)
	}
	if err := w.Save([]byte("bufos: 3\n")); err != nil {
		t.Fatal(err)
	}
	got, err := w.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != "bufos: 3\n" {
		t.Errorf("Load() = %q", got)
	}
}
