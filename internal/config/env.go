package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile holds API keys for local runs.
const DefaultEnvFile = ".env"

// LoadEnv loads the given env files into the process environment and
// returns the ones that were read. Missing files are skipped and variables
// already set in the environment win.
func LoadEnv(files ...string) ([]string, error) {
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return loaded, err
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}
