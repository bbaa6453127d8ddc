package config

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SchemaVersion is the config file schema written by this build.
const SchemaVersion = "1.0.0"

// supportedSchema is the range of config schema versions this build can read.
const supportedSchema = ">= 1.0.0, < 2.0.0"

// Schema version errors.
var (
	ErrInvalidSchemaVersion     = errors.New("config version is not valid semver")
	ErrUnsupportedSchemaVersion = errors.New("config version is not supported by this build")
)

// CheckSchemaVersion reports whether a config file written with version v can
// be read. An empty version is treated as the current schema.
func CheckSchemaVersion(v string) error {
	if v == "" {
		return nil
	}
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSchemaVersion, v)
	}
	constraint, err := semver.NewConstraint(supportedSchema)
	if err != nil {
		return err
	}
	if !constraint.Check(parsed) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchemaVersion, parsed, supportedSchema)
	}
	return nil
}
