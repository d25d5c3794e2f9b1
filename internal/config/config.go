// Package config loads the settings of an import run from the environment
// and an optional INI credentials file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/Another0Noob/mangadex-mal-import/internal/mangadexapi"
)

const envPrefix = "MANGADEX"

// credentialKeys are the required credentials, in the order they are reported
// when missing.
var credentialKeys = []string{"grant_type", "username", "password", "client_id", "client_secret"}

// Config holds everything an import run needs.
type Config struct {
	GrantType    string `mapstructure:"grant_type"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`

	API     APIConfig     `mapstructure:"api"`
	Import  ImportConfig  `mapstructure:"import"`
	Logging LoggingConfig `mapstructure:"logging"`

	// LockPath is the lock file that keeps two runs from sharing the rate limit.
	LockPath string `mapstructure:"lock_path"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	AuthURL string `mapstructure:"auth_url"`
}

// ImportConfig holds the pacing between remote calls.
type ImportConfig struct {
	ImportInterval  time.Duration `mapstructure:"import_interval"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `mapstructure:"level"`
	// Format is auto, console or json.
	Format string `mapstructure:"format"`
}

// Options are command line overrides. Empty fields are ignored.
type Options struct {
	CredentialsFile string
	LogLevel        string
	LogFormat       string
}

// MissingError lists every required setting that has no value.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

// Load reads defaults, the credentials file and the environment, in
// increasing order of precedence. It does not validate credentials.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range credentialKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if opts.CredentialsFile != "" {
		creds, err := loadCredentialsFile(opts.CredentialsFile)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(creds); err != nil {
			return nil, fmt.Errorf("merge credentials: %w", err)
		}
	}

	if opts.LogLevel != "" {
		v.Set("logging.level", opts.LogLevel)
	}
	if opts.LogFormat != "" {
		v.Set("logging.format", opts.LogFormat)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", mangadexapi.DefaultBaseURL)
	v.SetDefault("api.auth_url", mangadexapi.DefaultAuthURL)
	v.SetDefault("import.import_interval", 250*time.Millisecond)
	v.SetDefault("import.cleanup_interval", 200*time.Millisecond)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("lock_path", filepath.Join(os.TempDir(), "mangadex-mal-import.lock"))
}

// loadCredentialsFile reads the [mangadex] section of an INI file.
func loadCredentialsFile(path string) (map[string]any, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load auth config %s: %w", path, err)
	}
	sec := file.Section("mangadex")
	out := make(map[string]any, len(credentialKeys))
	for _, key := range credentialKeys {
		if val := strings.TrimSpace(sec.Key(key).String()); val != "" {
			out[key] = val
		}
	}
	return out, nil
}

// Validate reports all missing credentials at once.
func (c *Config) Validate() error {
	values := map[string]string{
		"grant_type":    c.GrantType,
		"username":      c.Username,
		"password":      c.Password,
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
	}
	var missing []string
	for _, key := range credentialKeys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, EnvName(key))
		}
	}
	if len(missing) > 0 {
		return &MissingError{Names: missing}
	}
	if c.Import.ImportInterval < 0 || c.Import.CleanupInterval < 0 {
		return errors.New("import intervals must not be negative")
	}
	return nil
}

// EnvName returns the environment variable that sets key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// AuthForm returns the credentials in the shape the API client expects.
func (c *Config) AuthForm() mangadexapi.AuthForm {
	return mangadexapi.AuthForm{
		GrantType:    c.GrantType,
		Username:     c.Username,
		Password:     c.Password,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
	}
}
