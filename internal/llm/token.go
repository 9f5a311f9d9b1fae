package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoGitHubToken is returned when no Copilot credential can be found.
var ErrNoGitHubToken = errors.New("GitHub token not found: set GITHUB_TOKEN or authenticate with GitHub Copilot in your IDE")

// LoadGitHubToken loads the GitHub OAuth token. GITHUB_TOKEN wins, then the
// Copilot hosts.json and apps.json files in the user config directory.
func LoadGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	configDir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("getting config directory: %w", err)
	}

	for _, name := range []string{"hosts.json", "apps.json"} {
		token, err := loadTokenFromFile(filepath.Join(configDir, "github-copilot", name))
		if err == nil && token != "" {
			return token, nil
		}
	}

	return "", ErrNoGitHubToken
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return local, nil
		}
		return filepath.Join(home, "AppData", "Local"), nil
	}

	return filepath.Join(home, ".config"), nil
}

// loadTokenFromFile reads the oauth_token of the github.com entry.
func loadTokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var hosts map[string]map[string]any
	if err := json.Unmarshal(data, &hosts); err != nil {
		return "", err
	}

	for host, entry := range hosts {
		if !strings.Contains(host, "github.com") {
			continue
		}
		if token, ok := entry["oauth_token"].(string); ok {
			return token, nil
		}
	}

	return "", fmt.Errorf("oauth_token not found in %s", path)
}
