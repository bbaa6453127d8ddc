package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/fintrack/internal/logging"
)

// ProjectFileName is the per-directory overlay file, e.g. to point a
// checkout at a staging backend.
const ProjectFileName = ".fintrack.yaml"

// EnvProjectConfig overrides overlay discovery.
const EnvProjectConfig = "FINTRACK_PROJECT_CONFIG"

// ResolveProjectConfig finds the overlay file to merge on top of the global
// config. It checks (in order):
//  1. flagValue (--project-config CLI flag)
//  2. FINTRACK_PROJECT_CONFIG env var
//  3. a .fintrack.yaml in startDir or any parent directory
//
// Returns an absolute path or "" when no overlay applies.
func ResolveProjectConfig(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return absPath(ctx, flagValue)
	}
	if env := os.Getenv(EnvProjectConfig); env != "" {
		return absPath(ctx, env)
	}

	dir := absPath(ctx, startDir)
	for dir != "" {
		candidate := filepath.Join(dir, ProjectFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// NewWithProjectConfig creates a Config from the global config with the
// overlay at overlayPath merged on top. Environment overrides are
// re-applied afterwards so they keep precedence over both files.
func NewWithProjectConfig(ctx context.Context, overlayPath string) *Config {
	cfg := New()
	if overlayPath == "" {
		return cfg
	}

	if err := MergeOverlay(cfg, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return New()
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

func absPath(ctx context.Context, p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("path", p).
			Msg("failed to resolve absolute path")
		return p
	}
	return abs
}
