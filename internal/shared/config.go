package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "sptx"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Client      ClientSettings    `toml:"client"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Behavior    BehaviorConfig    `toml:"behavior"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map returns the credentials in the form expected by services.NewSpotifyService.
func (c SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"redirect_uri":  c.RedirectURI,
	}
}

// ClientSettings holds the persisted playback target and market.
type ClientSettings struct {
	DeviceID string `toml:"device_id"`
	Country  string `toml:"country"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// BehaviorConfig tunes polling and page sizes.
type BehaviorConfig struct {
	PollIntervalSeconds int     `toml:"poll_interval_seconds"`
	LargeSearchLimit    int     `toml:"large_search_limit"`
	SmallSearchLimit    int     `toml:"small_search_limit"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`
}

// PollInterval returns the playback polling interval, defaulting to five seconds.
func (b BehaviorConfig) PollInterval() time.Duration {
	if b.PollIntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(b.PollIntervalSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// SaveConfig encodes config as TOML and writes it to path, creating parent directories.
func SaveConfig(path string, config *Config) error {
	if path == "" {
		return fmt.Errorf("%w: empty config path", ErrConfigWrite)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfigPath resolves $XDG_CONFIG_HOME/sptx/config.toml.
func DefaultConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, "config.toml"))
}

// DatabasePath returns the configured database path, or $XDG_DATA_HOME/sptx/sptx.db when unset.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	return xdg.DataFile(filepath.Join(appName, appName+".db"))
}

// LogPath returns $XDG_STATE_HOME/sptx/sptx.log.
func LogPath() (string, error) {
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// ClientConfig is the persisted device selection backed by the config file.
//
// Writes go through [SaveConfig]; the in-memory value only changes once the write succeeds.
type ClientConfig struct {
	mu     sync.Mutex
	path   string
	config *Config
}

// NewClientConfig wraps config, persisting changes to path.
func NewClientConfig(path string, config *Config) *ClientConfig {
	if config == nil {
		config = DefaultConfig()
	}
	return &ClientConfig{path: path, config: config}
}

// DeviceID returns the selected output device, if any.
func (c *ClientConfig) DeviceID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.config.Client.DeviceID
	return id, id != ""
}

// SetDeviceID stores id as the selected output device and saves the config file.
func (c *ClientConfig) SetDeviceID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := *c.config
	next.Client.DeviceID = id
	if err := SaveConfig(c.path, &next); err != nil {
		return err
	}

	c.config.Client.DeviceID = id
	return nil
}

// Config returns the wrapped configuration.
func (c *ClientConfig) Config() *Config {
	return c.config
}
