package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7743 {
		t.Errorf("default port = %d, want 7743", cfg.Port)
	}
	if cfg.ImagesProvider != ProviderLocal {
		t.Errorf("default provider = %q, want local", cfg.ImagesProvider)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("default region = %q", cfg.S3.Region)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardkeep.yml")
	content := `port: 9000
data_dir: /srv/cards
images_provider: s3
s3:
  bucket: card-scans
  prefix: archive
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.DataDir != "/srv/cards" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ImagesProvider != ProviderS3 || cfg.S3.Bucket != "card-scans" || cfg.S3.Prefix != "archive" {
		t.Errorf("s3 cfg = %+v", cfg.S3)
	}
	// Unset file keys keep their defaults.
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("region = %q, want default retained", cfg.S3.Region)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardkeep.yml")
	if err := os.WriteFile(path, []byte("port: 9000\ndata_dir: fromfile\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CARDKEEP_DATA_DIR", "fromenv")
	t.Setenv("CARDKEEP_S3_BUCKET", "env-bucket")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "fromenv" {
		t.Errorf("data_dir = %q, want env override", cfg.DataDir)
	}
	if cfg.S3.Bucket != "env-bucket" {
		t.Errorf("s3.bucket = %q, want nested env override", cfg.S3.Bucket)
	}
	if cfg.Port != 9000 {
		t.Errorf("port = %d, file value should survive", cfg.Port)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardkeep.yml")
	if err := os.WriteFile(path, []byte(":\t gibberish ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.ImagesDir = "images"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c := valid()
	c.Port = 0
	if err := c.Validate(); err == nil {
		t.Error("port 0 should be rejected")
	}

	c = valid()
	c.DataDir = ""
	if err := c.Validate(); err == nil {
		t.Error("empty data_dir should be rejected")
	}

	c = valid()
	c.ImagesDir = ""
	if err := c.Validate(); err == nil {
		t.Error("local provider without images_dir should be rejected")
	}

	c = valid()
	c.ImagesProvider = ProviderS3
	if err := c.Validate(); err == nil {
		t.Error("s3 provider without bucket should be rejected")
	}
	c.S3.Bucket = "b"
	if err := c.Validate(); err != nil {
		t.Errorf("s3 provider with bucket rejected: %v", err)
	}

	c = valid()
	c.ImagesProvider = "ftp"
	if err := c.Validate(); err == nil {
		t.Error("unknown provider should be rejected")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardkeep.yml")
	cfg := DefaultConfig()
	cfg.DataDir = "/srv/cards"
	cfg.ImagesDir = "/srv/images"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DataDir != cfg.DataDir || loaded.ImagesDir != cfg.ImagesDir || loaded.Port != cfg.Port {
		t.Errorf("round-trip mismatch: %+v vs %+v", loaded, cfg)
	}
}
