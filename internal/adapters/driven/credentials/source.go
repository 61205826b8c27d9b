// Package credentials discovers API keys for chat providers from the
// environment and .env files.
package credentials

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CredentialSource = (*Source)(nil)

// GenericKeyEnv overrides the provider variable for any provider.
//
//nolint:gosec // G101: variable name, not a credential.
const GenericKeyEnv = "FINDER_LLM_API_KEY"

// Source looks keys up in the process environment, then in .env files
// in the given directories, nearest first.
type Source struct {
	lookupEnv func(string) (string, bool)
	dirs      []string
}

// NewSource creates a source reading .env files from dirs.
func NewSource(dirs ...string) *Source {
	return &Source{lookupEnv: os.LookupEnv, dirs: dirs}
}

// DefaultDirs returns the working directory and the home directory.
func DefaultDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}
	return dirs
}

// APIKey returns the key for provider.
func (s *Source) APIKey(provider domain.AIProvider) (string, bool) {
	names := []string{GenericKeyEnv}
	if env := provider.APIKeyEnv(); env != "" {
		names = append(names, env)
	}

	for _, name := range names {
		if v, ok := s.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}

	for _, dir := range s.dirs {
		path := filepath.Join(dir, ".env")
		values, err := godotenv.Read(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("Reading %s: %v", path, err)
			}
			continue
		}
		for _, name := range names {
			if v := strings.TrimSpace(values[name]); v != "" {
				logger.Debug("Using %s from %s", name, path)
				return v, true
			}
		}
	}
	return "", false
}
