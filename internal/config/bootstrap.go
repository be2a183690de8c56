package config

import (
	"errors"
	"os"
	"path/filepath"
)

const defaultYAML = `source:
  kind: json
  url: https://raw.githubusercontent.com/SimplifyJobs/Summer2026-Internships/dev/.github/scripts/listings.json

store:
  backend: sheets
  sheet_id: ""        # or set SHEET_ID in the environment
  worksheet: Sheet1

pipeline:
  on_empty: warn
`

// EnsureUserConfig makes sure a config file exists in the data dir, seeding
// it with the default template on first run, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, []byte(defaultYAML), 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
