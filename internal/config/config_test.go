package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pterobot.yaml")
	body := `
listen_addr: "0.0.0.0:9000"
database_path: "/var/lib/pterobot/state.db"
vault_secret: "file-secret"
admin_token: "file-token"
allow_private_panels: true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PTEROBOT_VAULT_SECRET", "env-secret")
	t.Setenv("PTEROBOT_LISTEN_ADDR", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VaultSecret != "env-secret" {
		t.Fatalf("expected env to win, got %q", cfg.VaultSecret)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("expected file value for listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.AdminToken != "file-token" || !cfg.AllowPrivatePanels {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadMissingFileUsesEnvAndDefaults(t *testing.T) {
	t.Setenv("PTEROBOT_VAULT_SECRET", "env-secret")
	t.Setenv("PTEROBOT_ADMIN_TOKEN", "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != Default().ListenAddr || cfg.DatabasePath != Default().DatabasePath {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.AllowPrivatePanels {
		t.Fatal("expected private panels disallowed by default")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("PTEROBOT_VAULT_SECRET", "")
	t.Setenv("PTEROBOT_ADMIN_TOKEN", "")

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "vault_secret") {
		t.Fatalf("expected vault secret error, got %v", err)
	}

	t.Setenv("PTEROBOT_VAULT_SECRET", "s")
	_, err = Load("")
	if err == nil || !strings.Contains(err.Error(), "admin_token") {
		t.Fatalf("expected admin token error, got %v", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
