package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Option Scanner Configuration

[data]
# Directory for bhavcopy files and persisted state (quote cache, blacklist, meta)
# dir = "~/.config/option-scanner/data"
# Instrument master JSON path
# master_path = "~/.config/option-scanner/data/NSE.json"

[quotes]
# Quote API base URL
base_url = "https://api.upstox.com/v3"
# Instrument master download URL (gzip JSON)
master_url = "https://assets.upstox.com/market-quote/instruments/exchange/NSE.json.gz"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# Option Scanner Credentials
#
# The Upstox access token expires daily. Prefer 'scanner auth set'
# which stores it day-scoped, or the UPSTOX_ACCESS_TOKEN environment
# variable. A token placed here is used as a fallback.

[upstox]
access_token = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are sensitive, restrict permissions
	return os.WriteFile(path, []byte(credentialsTemplate), 0600)
}
