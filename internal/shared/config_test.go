package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustRead(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		if config.Behavior.LargeSearchLimit != 20 || config.Behavior.SmallSearchLimit != 4 {
			t.Errorf("expected search limits 20/4, got %d/%d", config.Behavior.LargeSearchLimit, config.Behavior.SmallSearchLimit)
		}

		if config.Client.DeviceID != "" {
			t.Errorf("expected no default device, got %s", config.Client.DeviceID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Server.Host != DefaultConfig().Server.Host {
			t.Errorf("created config server host doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[client]
device_id = "device-1"
country = "GB"

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Client.DeviceID != "device-1" || config.Client.Country != "GB" {
			t.Errorf("expected client settings to load, got %+v", config.Client)
		}

		if config.Behavior.SmallSearchLimit != 4 {
			t.Errorf("expected missing sections to keep defaults, got small limit %d", config.Behavior.SmallSearchLimit)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "out", "config.toml")
		config := DefaultConfig()
		config.Server.Port = 4242

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Server.Port != 4242 {
			t.Errorf("expected port 4242, got %d", loaded.Server.Port)
		}
	})

	t.Run("PollInterval", func(t *testing.T) {
		if got := (BehaviorConfig{}).PollInterval(); got != 5*time.Second {
			t.Errorf("expected 5s default, got %v", got)
		}
		if got := (BehaviorConfig{PollIntervalSeconds: 2}).PollInterval(); got != 2*time.Second {
			t.Errorf("expected 2s, got %v", got)
		}
	})
}

func TestClientConfig(t *testing.T) {
	t.Run("no device by default", func(t *testing.T) {
		cc := NewClientConfig(filepath.Join(t.TempDir(), "config.toml"), nil)
		if _, ok := cc.DeviceID(); ok {
			t.Error("expected no device id")
		}
	})

	t.Run("SetDeviceID persists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		cc := NewClientConfig(path, DefaultConfig())

		if err := cc.SetDeviceID("abc123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		id, ok := cc.DeviceID()
		if !ok || id != "abc123" {
			t.Errorf("expected device abc123, got %q (%v)", id, ok)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Client.DeviceID != "abc123" {
			t.Errorf("expected persisted device abc123, got %s", loaded.Client.DeviceID)
		}
	})

	t.Run("failed write keeps previous value", func(t *testing.T) {
		cc := NewClientConfig("", DefaultConfig())

		err := cc.SetDeviceID("abc123")
		if !errors.Is(err, ErrConfigWrite) {
			t.Fatalf("expected ErrConfigWrite, got %v", err)
		}
		if _, ok := cc.DeviceID(); ok {
			t.Error("expected device to stay unset after failed write")
		}
	})
}
