package backend

import (
	"context"
	"path/filepath"
	"testing"

	"pengeluaran/internal/config"
	"pengeluaran/internal/storage"
	"pengeluaran/internal/storage/memory"
)

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		bt   BackendType
		want bool
	}{
		{SQLiteBackend, true},
		{MemoryBackend, true},
		{"sheets", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.bt.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.bt, got, tt.want)
		}
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		if err != nil {
			t.Fatalf("CreateBackend: %v", err)
		}
		if _, ok := res.Backend.(*memory.Store); !ok {
			t.Fatalf("got %T, want *memory.Store", res.Backend)
		}
		if err := res.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
		if err != nil {
			t.Fatalf("CreateBackend: %v", err)
		}
		defer res.Close()
		if _, ok := res.Backend.(*storage.SQLiteRepository); !ok {
			t.Fatalf("got %T, want *storage.SQLiteRepository", res.Backend)
		}
		if res.Cleanup == nil {
			t.Fatal("sqlite backend needs a cleanup func")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := f.CreateBackend(ctx, Config{Type: "sheets"}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestConfigFromAppConfig(t *testing.T) {
	cfg, err := ConfigFromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db"})
	if err != nil || cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" {
		t.Fatalf("ConfigFromAppConfig = %+v, %v", cfg, err)
	}
	if _, err := ConfigFromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := ConfigFromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
