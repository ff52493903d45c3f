package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFileVar names an alternative dotenv file.
const envFileVar = "SUMTUTOR_ENV_FILE"

// loadDotEnv loads SUMTUTOR_* settings from .env (or the file named by
// SUMTUTOR_ENV_FILE) when present. The process environment wins.
func loadDotEnv() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) && os.Getenv(envFileVar) == "" {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}
