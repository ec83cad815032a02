package cmd

import (
	"fmt"
	"os"

	"github.com/bendechrai/devports/internal/config"
	"github.com/bendechrai/devports/internal/registry"
)

// openEngine loads the config and opens the registry store. The returned
// cleanup func closes the store.
func openEngine() (*config.Config, *registry.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := registry.OpenStore(cfg.RegistryPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open registry: %w", err)
	}

	engine := registry.NewEngine(cfg, store)
	cleanup := func() { _ = store.Close() }

	return cfg, engine, cleanup, nil
}

// readTemplate reads a template file into a string.
func readTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}
