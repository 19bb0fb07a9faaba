package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where daykeep stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration
	AIBaseURL   string // DAYKEEP_AI_BASE_URL (default: https://api.openai.com/v1)
	AIAPIKey    string // DAYKEEP_AI_API_KEY
	AIChatModel string // DAYKEEP_AI_CHAT_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if a model provider is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads AI configuration from environment variables.
func (p *Profile) FromEnv() {
	if p.AIBaseURL == "" {
		p.AIBaseURL = getEnvOrDefault("DAYKEEP_AI_BASE_URL", "https://api.openai.com/v1")
	}
	if p.AIAPIKey == "" {
		p.AIAPIKey = os.Getenv("DAYKEEP_AI_API_KEY")
	}
	if p.AIChatModel == "" {
		p.AIChatModel = getEnvOrDefault("DAYKEEP_AI_CHAT_MODEL", "gpt-4o-mini")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported db driver %q: only 'sqlite' and 'postgres' are supported", p.Driver)
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/daykeep"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return errors.Wrap(err, "failed to check data dir")
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("daykeep_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
