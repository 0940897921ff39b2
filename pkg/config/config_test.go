package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigMissingFile verifies defaults are returned when no file exists
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Render.Format != "png" {
		t.Errorf("Expected default format png, got %s", cfg.Render.Format)
	}
	if cfg.Render.DefaultSlice != -1 {
		t.Errorf("Expected default slice -1, got %d", cfg.Render.DefaultSlice)
	}
	if len(cfg.Render.Orientations) != 3 {
		t.Errorf("Expected 3 default orientations, got %v", cfg.Render.Orientations)
	}
	if cfg.Processing.NumCores < 1 {
		t.Errorf("Expected at least one core, got %d", cfg.Processing.NumCores)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "niftislice.yaml")

	cfg := DefaultConfig()
	cfg.Render.Format = "tiff"
	cfg.Render.Orientations = []string{"xz"}
	cfg.Server.Address = ":9000"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Render.Format != "tiff" {
		t.Errorf("Expected format tiff, got %s", loaded.Render.Format)
	}
	if len(loaded.Render.Orientations) != 1 || loaded.Render.Orientations[0] != "xz" {
		t.Errorf("Expected orientations [xz], got %v", loaded.Render.Orientations)
	}
	if loaded.Server.Address != ":9000" {
		t.Errorf("Expected address :9000, got %s", loaded.Server.Address)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("render:\n  format: jpeg\n  jpegQuality: 75\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Render.Format != "jpeg" || cfg.Render.JPEGQuality != 75 {
		t.Errorf("Expected jpeg/75, got %s/%d", cfg.Render.Format, cfg.Render.JPEGQuality)
	}
	if cfg.Output.Dir != "slices" {
		t.Errorf("Expected default output dir to survive, got %s", cfg.Output.Dir)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	testCases := map[string]string{
		"bad yaml":    "render: [",
		"bad format":  "render:\n  format: gif\n",
		"bad quality": "render:\n  jpegQuality: 0\n",
	}

	for name, content := range testCases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file to exist: %v", err)
	}
}
