package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// configPath returns the azure CLI config file location, honoring
// AZURE_CONFIG_DIR like the official tooling does.
func configPath() string {
	if dir := os.Getenv("AZURE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".azure", "config")
}

// ResolveSubscription returns the subscription ID to operate on:
// AZURE_SUBSCRIPTION_ID when set, otherwise the [defaults] subscription
// entry of the azure CLI config file.
func ResolveSubscription() (string, error) {
	if sub := os.Getenv("AZURE_SUBSCRIPTION_ID"); sub != "" {
		return sub, nil
	}

	path := configPath()
	if path != "" {
		if sub := subscriptionFromConfig(path); sub != "" {
			return sub, nil
		}
	}

	return "", fmt.Errorf("no subscription configured: set AZURE_SUBSCRIPTION_ID or add a [defaults] subscription entry to %s", path)
}

func subscriptionFromConfig(path string) string {
	cfg, err := ini.Load(path)
	if err != nil {
		return ""
	}
	return cfg.Section("defaults").Key("subscription").String()
}
