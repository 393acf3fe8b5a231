package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := Open(BackendFile, filepath.Join(dir, "saves", "save.yaml"))
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	db, err := Open(BackendSQLite, filepath.Join(dir, "db", "bufo.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		db.Close()
	})
	return map[string]Store{BackendFile: file, BackendSQLite: db}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(); !errors.Is(err, ErrNoSave) {
				t.Fatalf("Load() on empty store error = %v, want ErrNoSave", err)
			}

			first := []byte("bufos: 1\n")
			second := []byte("bufos: 2\nclick_power: 1\n")
			if err := s.Save(first); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if err := s.Save(second); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			got, err := s.Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if !bytes.Equal(got, second) {
				t.Errorf("Load() = %q, want %q", got, second)
			}

			if err := s.Delete(); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if err := s.Delete(); err != nil {
				t.Fatalf("second Delete() error: %v", err)
			}
			if _, err := s.Load(); !errors.Is(err, ErrNoSave) {
				t.Errorf("Load() after delete error = %v, want ErrNoSave", err)
			}
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("floppy", filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("error = %v, want ErrUnknownBackend", err)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "save.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Save([]byte("bufos: 1\n")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "save.yaml" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want [save.yaml]", names)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bufo.db")

	s, err := OpenSQLite(path, "")
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	if err := s.Save([]byte("bufos: 7\n")); err != nil {
		t.Fatal(err)
	}
	updated, err := s.UpdatedAt()
	if err != nil {
		t.Fatalf("UpdatedAt() error: %v", err)
	}
	if time.Since(updated) > time.Hour || time.Since(updated) < -time.Hour {
		t.Errorf("UpdatedAt() = %v, want roughly now", updated)
	}
	s.Close()

	s, err = OpenSQLite(path, DefaultSlot)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != "bufos: 7\n" {
		t.Errorf("Load() = %q", got)
	}
}

func TestSQLiteSlotsAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bufo.db")
	a, err := OpenSQLite(path, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := OpenSQLite(path, "b")
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := a.Save([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Load(); !errors.Is(err, ErrNoSave) {
		t.Errorf("slot b Load() error = %v, want ErrNoSave", err)
	}
	if _, err := b.UpdatedAt(); !errors.Is(err, ErrNoSave) {
		t.Errorf("slot b UpdatedAt() error = %v, want ErrNoSave", err)
	}
}
