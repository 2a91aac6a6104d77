package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembly.DefaultOrigin != "0x4200" {
		t.Errorf("Expected DefaultOrigin=0x4200, got %s", cfg.Assembly.DefaultOrigin)
	}
	if cfg.Assembly.WarningsAsFatal {
		t.Error("Expected WarningsAsFatal=false")
	}
	if cfg.Output.Format != "bin" {
		t.Errorf("Expected Format=bin, got %s", cfg.Output.Format)
	}
	if cfg.Output.EmitSymbols {
		t.Error("Expected EmitSymbols=false")
	}
	if cfg.Logging.Verbose {
		t.Error("Expected Verbose=false")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "z80asm" && path != "config.toml" {
			t.Errorf("Expected path in z80asm directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembly.DefaultOrigin = "0x5000"
	cfg.Assembly.WarningsAsFatal = true
	cfg.Output.Format = "intelhex"
	cfg.Output.EmitSymbols = true
	cfg.Logging.Verbose = true

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembly.DefaultOrigin != "0x5000" {
		t.Errorf("Expected DefaultOrigin=0x5000, got %s", loaded.Assembly.DefaultOrigin)
	}
	if !loaded.Assembly.WarningsAsFatal {
		t.Error("Expected WarningsAsFatal=true")
	}
	if loaded.Output.Format != "intelhex" {
		t.Errorf("Expected Format=intelhex, got %s", loaded.Output.Format)
	}
	if !loaded.Output.EmitSymbols {
		t.Error("Expected EmitSymbols=true")
	}
	if !loaded.Logging.Verbose {
		t.Error("Expected Verbose=true")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.Assembly.DefaultOrigin != "0x4200" {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[assembly]
warnings_as_fatal = "not a bool"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
