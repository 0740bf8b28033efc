package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigFromEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	t.Setenv(EnvLogLevel, "")

	yamlCfg := "log_level: debug\nreserved_field_names:\n  - id\n  - order\n  - created_on\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	want := []string{"id", "order", "created_on"}
	if !reflect.DeepEqual(cfg.ReservedFieldNames, want) {
		t.Errorf("ReservedFieldNames = %v, want %v", cfg.ReservedFieldNames, want)
	}

	t.Setenv(EnvLogLevel, "error")
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env override", cfg.LogLevel)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvLogLevel, "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.ReservedFieldNames, DefaultReservedFieldNames) {
		t.Errorf("ReservedFieldNames = %v, want defaults", cfg.ReservedFieldNames)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("reserved_field_names: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := DefaultConfig().LoadFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{BaseDir: "rel"}, false},
		{"empty dir", Config{}, true},
		{"blank reserved word", Config{BaseDir: "x", ReservedFieldNames: []string{" "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !filepath.IsAbs(tt.cfg.BaseDir) {
				t.Errorf("BaseDir = %q, want absolute", tt.cfg.BaseDir)
			}
		})
	}
}
