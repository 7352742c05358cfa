package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if cfg.SnapshotTTL != 30*time.Second {
		t.Errorf("expected 30s snapshot TTL, got %v", cfg.SnapshotTTL)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestLoad_MySQLDSNFromParts(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "shopbook")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := "shop:secret@tcp(localhost:3306)/shopbook?parseTime=true"
	if cfg.MySQLDSN != want {
		t.Errorf("expected %q, got %q", want, cfg.MySQLDSN)
	}
}

func TestLoad_MySQLMissingParts(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("MYSQL_DSN", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing database configuration")
	}
}

func TestLoad_BadSnapshotTTL(t *testing.T) {
	t.Setenv("SNAPSHOT_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected error for bad SNAPSHOT_TTL")
	}
}
