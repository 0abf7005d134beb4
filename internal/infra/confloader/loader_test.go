package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Vault struct {
		DataDir string `koanf:"data_dir"`
		Target  string `koanf:"target"`
	} `koanf:"vault"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessionvault.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
vault:
  data_dir: /var/lib/sessionvault
  target: native
log:
  level: debug
`)

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.DataDir != "/var/lib/sessionvault" {
		t.Errorf("DataDir = %q, want /var/lib/sessionvault", cfg.Vault.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Load")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: info
`)

	t.Setenv("SESSIONVAULT_LOG_LEVEL", "error")

	var cfg testConfig
	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("Level = %q, want error (env should win over file)", cfg.Log.Level)
	}
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("SVTEST_VAULT_TARGET", "web")

	var cfg testConfig
	l := NewLoader(WithEnvPrefix("SVTEST_"))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Vault.Target != "web" {
		t.Errorf("Target = %q, want web", cfg.Vault.Target)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile("/nonexistent/sessionvault.yaml"))
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() should fail for a missing config file")
	}
}

func TestLoadMap(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"vault.target": "native",
		"log.level":    "warn",
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if got := l.GetString("vault.target"); got != "native" {
		t.Errorf("GetString(vault.target) = %q, want native", got)
	}
	if got := l.GetString("log.level"); got != "warn" {
		t.Errorf("GetString(log.level) = %q, want warn", got)
	}
}

func TestGetters(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"vault.demotion_threshold": 2,
		"vault.metrics_enabled":    true,
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if got := l.GetInt("vault.demotion_threshold"); got != 2 {
		t.Errorf("GetInt = %d, want 2", got)
	}
	if !l.GetBool("vault.metrics_enabled") {
		t.Error("GetBool = false, want true")
	}
	if l.Get("missing") != nil {
		t.Error("Get(missing) should be nil")
	}
}

func TestMapProviderReadBytes(t *testing.T) {
	p := mapProvider{"a": 1}
	if _, err := p.ReadBytes(); err == nil {
		t.Error("ReadBytes should not be supported")
	}
	m, err := p.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m["a"] != 1 {
		t.Errorf("Read() = %v, want map with a=1", m)
	}
}
