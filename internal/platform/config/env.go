// Package config loads process configuration from environment variables.
//
// All Camposanto environment variables share the CAMPOSANTO_ prefix so one
// grep of a deployment's environment shows its full configuration.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
