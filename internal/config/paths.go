// ABOUTME: Centralized path resolution for catalint directories
// ABOUTME: Respects the CATALINT_HOME environment variable for isolation

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv names the variable that overrides the catalint home directory
const HomeEnv = "CATALINT_HOME"

// MustHome returns the catalint home directory.
// Checks CATALINT_HOME first, falls back to ~/.catalint.
// Panics if CATALINT_HOME is set but invalid (whitespace-only or relative path).
// Panics if the user home directory cannot be determined.
func MustHome() string {
	if home := os.Getenv(HomeEnv); home != "" {
		home = strings.TrimSpace(home)
		if home == "" {
			panic(HomeEnv + " is set but contains only whitespace")
		}
		if !filepath.IsAbs(home) {
			panic(HomeEnv + " must be an absolute path: " + home)
		}
		return home
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic("cannot determine home directory: " + err.Error())
	}
	return filepath.Join(homeDir, ".catalint")
}

// ConfigPath returns the optional settings file under home
func ConfigPath(home string) string {
	return filepath.Join(home, "config.toml")
}
