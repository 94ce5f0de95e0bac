package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	envPrefix = "aca"

	DefaultBaseURL   = "https://management.azure.com"
	DefaultAlertName = "dailyAnomalyByResource"
	// PlaceholderRecipient stands in when no notification address is
	// configured, so the alert payload never carries an empty recipient
	// list.
	PlaceholderRecipient = "your@email.com"

	defaultTimeoutSeconds = 30

	configDirName  = "aca"
	configFileName = "config.toml"

	keyBaseURL        = "management.base_url"
	keyAccessToken    = "access.token"
	keyAlertName      = "alert.name"
	keyRecipients     = "alert.recipients"
	keyTimeoutSeconds = "request.timeout_seconds"
)

// Config is everything the wiring layer needs that isn't a per-invocation
// flag. Values resolve as defaults < config file < ACA_* environment.
type Config struct {
	BaseURL        string
	AccessToken    string
	AlertName      string
	Recipients     []string
	RequestTimeout time.Duration
}

type fileSchema struct {
	Alert struct {
		Name       string   `toml:"name"`
		Recipients []string `toml:"recipients"`
	} `toml:"alert"`
	Management struct {
		BaseURL        string `toml:"base_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"management"`
}

func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keyBaseURL, DefaultBaseURL)
	cfg.SetDefault(keyAccessToken, "")
	cfg.SetDefault(keyAlertName, DefaultAlertName)
	cfg.SetDefault(keyRecipients, "")
	cfg.SetDefault(keyTimeoutSeconds, defaultTimeoutSeconds)

	if err := applyFileDefaults(cfg); err != nil {
		return Config{}, err
	}

	timeout := cfg.GetInt(keyTimeoutSeconds)
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return Config{
		BaseURL:        cfg.GetString(keyBaseURL),
		AccessToken:    cfg.GetString(keyAccessToken),
		AlertName:      cfg.GetString(keyAlertName),
		Recipients:     SplitRecipients(cfg.GetString(keyRecipients)),
		RequestTimeout: time.Duration(timeout) * time.Second,
	}, nil
}

// applyFileDefaults folds an optional ~/.config/aca/config.toml into the
// default layer; environment variables still win.
func applyFileDefaults(cfg *viper.Viper) error {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}

	path := filepath.Join(configDir, configDirName, configFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var file fileSchema
	if err := toml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	if file.Alert.Name != "" {
		cfg.SetDefault(keyAlertName, file.Alert.Name)
	}
	if len(file.Alert.Recipients) > 0 {
		cfg.SetDefault(keyRecipients, strings.Join(file.Alert.Recipients, ","))
	}
	if file.Management.BaseURL != "" {
		cfg.SetDefault(keyBaseURL, file.Management.BaseURL)
	}
	if file.Management.TimeoutSeconds > 0 {
		cfg.SetDefault(keyTimeoutSeconds, file.Management.TimeoutSeconds)
	}

	return nil
}

// SplitRecipients parses a comma-separated address list, dropping empty
// entries.
func SplitRecipients(raw string) []string {
	parts := strings.Split(raw, ",")
	recipients := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		recipients = append(recipients, trimmed)
	}
	return recipients
}
