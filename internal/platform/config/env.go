package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded when no explicit dotenv path is configured.
const DefaultEnvFile = ".env"

// EnvFileKey names the variable that points at an alternate dotenv file.
const EnvFileKey = "CARDAPP_ENV_FILE"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the configured dotenv file into the process
// environment. Variables already present in the environment win, and a missing
// file is not an error so production deployments can rely on real env only.
func LoadDotEnv() (string, error) {
	path := strings.TrimSpace(os.Getenv(EnvFileKey))
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load dotenv %s: %w", path, err)
	}
	return path, nil
}
