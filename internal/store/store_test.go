package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "player.level"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "player.level", "3"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "player.level", "4"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, err := s.Get(ctx, "player.level")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "4" {
		t.Errorf("Get() = %q, want %q", got, "4")
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	s, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	exercise(t, s)

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() reopen error = %v", err)
	}
	got, err := reopened.Get(context.Background(), "player.level")
	if err != nil || got != "4" {
		t.Errorf("reopened Get() = %q, %v; want %q, nil", got, err, "4")
	}
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Error("OpenFile(corrupt) should fail")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		driver  string
		path    string
		wantErr bool
	}{
		{"", "", false},
		{DriverMemory, "", false},
		{DriverFile, filepath.Join(t.TempDir(), "p.json"), false},
		{DriverFile, "", true},
		{DriverPostgres, "", true},
		{"redis", "", true},
	}

	for _, tt := range tests {
		s, err := Open(ctx, tt.driver, tt.path, "")
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%q) error = %v, wantErr %v", tt.driver, err, tt.wantErr)
		}
		if s != nil {
			s.Close()
		}
	}
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("HOLLOWGATE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("HOLLOWGATE_TEST_DATABASE_URL not set")
	}
	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer s.Close()

	if _, err := s.db.Exec(`DELETE FROM hollowgate_kv WHERE key = 'player.level'`); err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestPostgresSchemaFailureClosesHandle(t *testing.T) {
	db, err := sql.Open("postgres", "host=127.0.0.1 port=1 sslmode=disable connect_timeout=1")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	ctx := context.Background()

	if _, err := adopt(ctx, db); err == nil {
		t.Fatal("adopt() on an unreachable server succeeded")
	}
	if err := db.PingContext(ctx); err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Errorf("handle still open after failed setup: ping error = %v", err)
	}
}
