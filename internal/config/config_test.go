package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Store.Backend != StoreFile {
		t.Errorf("Store.Backend = %s, want %s", cfg.Store.Backend, StoreFile)
	}
	if cfg.Paths.Components != "./components" {
		t.Errorf("Paths.Components = %s", cfg.Paths.Components)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", ConfigFileName)

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Store.Backend = StoreSQLite
	cfg.KiCad.Executable = "/opt/kicad/bin/kicad"
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %s", loaded.Server.Addr)
	}
	if loaded.Store.Backend != StoreSQLite {
		t.Errorf("Store.Backend = %s", loaded.Store.Backend)
	}
	if loaded.KiCad.Executable != "/opt/kicad/bin/kicad" {
		t.Errorf("KiCad.Executable = %s", loaded.KiCad.Executable)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	data := "store:\n  backend: sqlite\npaths:\n  circuits: /data/circuits\n"
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want default", cfg.Server.Addr)
	}
	if want := filepath.Join("/data/circuits", "circuits.db"); cfg.Store.SQLite != want {
		t.Errorf("Store.SQLite = %s, want %s", cfg.Store.SQLite, want)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "parse config"},
		{"bad backend", "store:\n  backend: postgres\n", "unknown store backend"},
		{"bad level", "log:\n  level: chatty\n", "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), ConfigFileName)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := LoadFromPath(configPath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Setenv(EnvConfigPath, configPath)
	if got := FindConfigPath(); got != configPath {
		t.Errorf("FindConfigPath() = %s, want %s", got, configPath)
	}

	cfg, path, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != configPath || cfg.Server.Addr != DefaultAddr {
		t.Errorf("Load() = %+v from %s", cfg, path)
	}
}
