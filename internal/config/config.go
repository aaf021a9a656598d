// Package config loads d2cms settings from the environment, an optional
// .env file and an optional YAML config file, in that order of precedence
// (flags bound by the CLI override all three).
//
// Every key maps to a D2CMS_ environment variable: "wp.api_root" is read
// from D2CMS_WP_API_ROOT.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Dyc3r/docs2cms/internal/wordpress"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalid wraps every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	envPrefix = "D2CMS"

	// FileName is the config file searched for in the working directory,
	// without extension.
	FileName = ".d2cms"

	defaultTimeout  = 10 * time.Second
	defaultAuthMode = "basic"
	defaultLogLevel = "info"
)

// Config keys.
const (
	KeyAPIRoot  = "wp.api_root"
	KeyAPIKey   = "wp.api_key"
	KeyAPIUser  = "wp.api_user"
	KeyTimeout  = "wp.timeout"
	KeyAuthMode = "auth.mode"
	KeyDocsDir  = "docs.dir"
	KeyLogLevel = "log.level"
	KeyLogFile  = "log.file"
)

// Keys lists every configuration key in display order.
func Keys() []string {
	return []string{
		KeyAPIRoot, KeyAPIUser, KeyAPIKey, KeyTimeout, KeyAuthMode,
		KeyDocsDir, KeyLogLevel, KeyLogFile,
	}
}

// Config is the resolved runtime configuration.
type Config struct {
	APIRoot  string        `json:"wp_api_root"`
	APIKey   string        `json:"-"`
	APIUser  string        `json:"wp_api_user"`
	Timeout  time.Duration `json:"wp_timeout"`
	AuthMode string        `json:"auth_mode"`
	DocsDir  string        `json:"docs_dir"`
	LogLevel string        `json:"log_level"`
	LogFile  string        `json:"log_file,omitempty"`
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	v := viper.New()
	ApplyDefaults(v)
	return v
}

// ApplyDefaults configures defaults and env bindings on v.
func ApplyDefaults(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyAuthMode, defaultAuthMode)
	v.SetDefault(KeyLogLevel, defaultLogLevel)

	// AutomaticEnv only answers Get for keys viper knows about.
	for _, k := range []string{KeyAPIRoot, KeyAPIKey, KeyAPIUser, KeyDocsDir, KeyLogFile} {
		_ = v.BindEnv(k)
	}
}

// LoadDotEnv loads a .env file from the working directory into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ReadFile reads path into v, or searches the working directory for
// .d2cms.yaml when path is empty. Only an explicitly named file must exist.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load resolves the configuration held by v. It normalises values but does
// not validate them; see Config.ValidateDocs and Config.ValidateRemote.
func Load(v *viper.Viper) Config {
	cfg := Config{
		APIRoot:  wordpress.NormalizeAPIRoot(v.GetString(KeyAPIRoot)),
		APIKey:   strings.TrimSpace(v.GetString(KeyAPIKey)),
		APIUser:  strings.TrimSpace(v.GetString(KeyAPIUser)),
		Timeout:  v.GetDuration(KeyTimeout),
		AuthMode: strings.ToLower(strings.TrimSpace(v.GetString(KeyAuthMode))),
		DocsDir:  expandDir(v.GetString(KeyDocsDir)),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFile:  strings.TrimSpace(v.GetString(KeyLogFile)),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return cfg
}

// Get returns the display value of key. The API key is masked.
func (c Config) Get(key string) (string, error) {
	switch key {
	case KeyAPIRoot:
		return c.APIRoot, nil
	case KeyAPIKey:
		return mask(c.APIKey), nil
	case KeyAPIUser:
		return c.APIUser, nil
	case KeyTimeout:
		return c.Timeout.String(), nil
	case KeyAuthMode:
		return c.AuthMode, nil
	case KeyDocsDir:
		return c.DocsDir, nil
	case KeyLogLevel:
		return c.LogLevel, nil
	case KeyLogFile:
		return c.LogFile, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// expandDir resolves "~" and makes dir absolute.
func expandDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
