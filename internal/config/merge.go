package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNilConfig is returned by MergeOverlay for a nil target.
var ErrNilConfig = errors.New("nil config")

// MergeOverlay reads a project overlay and applies it onto target key by key.
// Only the server, list, display and logging sections are read. Keys the
// overlay sets replace the target's values; everything else, such as a
// stored token, is kept.
func MergeOverlay(target *Config, overlayPath string) error {
	if target == nil {
		return ErrNilConfig
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay %s: %w", overlayPath, err)
	}

	sections := map[string]any{
		"server":  &target.Server,
		"list":    &target.List,
		"display": &target.Display,
		"logging": &target.Logging,
	}
	for key, node := range overlay {
		dst, ok := sections[key]
		if !ok {
			continue
		}
		if err = node.Decode(dst); err != nil {
			return fmt.Errorf("overlay section %q: %w", key, err)
		}
	}
	return nil
}
