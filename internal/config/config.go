package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvBaseURL   = "STUDYFORGE_BASE_URL"
	EnvHistory   = "STUDYFORGE_HISTORY"
	EnvLogFile   = "STUDYFORGE_LOG_FILE"
	EnvLogLevel  = "LOG_LEVEL"
	EnvAltScreen = "STUDYFORGE_ALT_SCREEN"
	EnvCacheDir  = "STUDYFORGE_CACHE_DIR"

	DefaultBaseURL  = "http://localhost:8080"
	DefaultLogLevel = "info"

	stateSubdir = "studyforge"
)

// Config holds the client settings.
type Config struct {
	BaseURL     string
	HistoryPath string
	LogFile     string
	LogLevel    string
	AltScreen   bool
	// CacheDir holds PDFs downloaded from URLs before they are uploaded.
	CacheDir string
}

// LoadEnvFiles loads the given dotenv files, skipping the ones that do not
// exist. Variables already set in the environment win.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads the configuration from the environment, with defaults.
func Load() Config {
	dir := stateDir()
	return Config{
		BaseURL:     getenv(EnvBaseURL, DefaultBaseURL),
		HistoryPath: getenv(EnvHistory, filepath.Join(dir, "history.json")),
		LogFile:     getenv(EnvLogFile, filepath.Join(dir, "studyforge.log")),
		LogLevel:    getenv(EnvLogLevel, DefaultLogLevel),
		AltScreen:   getenvBool(EnvAltScreen, true),
		CacheDir:    getenv(EnvCacheDir, filepath.Join(dir, "pdfs")),
	}
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid base url %q: scheme must be http or https", c.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid base url %q: missing host", c.BaseURL)
	}
	if c.HistoryPath == "" {
		return errors.New("history path must not be empty")
	}
	return nil
}

func stateDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, stateSubdir)
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
