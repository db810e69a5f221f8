package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg.Server.BaseURL != def.Server.BaseURL || cfg.Catalog.PageSize != def.Catalog.PageSize {
		t.Fatalf("want defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	data := "server:\n  base_url: https://shop.example.com\n  timeout: 5s\n"
	if err := os.WriteFile(filepath.Join(dir, File), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.BaseURL != "https://shop.example.com" {
		t.Fatalf("base_url: got %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout.Std() != 5*time.Second {
		t.Fatalf("timeout: got %v", cfg.Server.Timeout)
	}
	// untouched section keeps its default
	if cfg.Catalog.PageSize != 12 {
		t.Fatalf("page_size: got %d", cfg.Catalog.PageSize)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, File), []byte("server: ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatalf("want parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Catalog.PageSize = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("want error on zero page size")
	}
}
