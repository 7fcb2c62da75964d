package manifest

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds environment overrides for the CLI and manifest.
type Env struct {
	Manifest  string `env:"EXTENSIBLE_MANIFEST"`
	HostName  string `env:"EXTENSIBLE_HOST_NAME"`
	Verbosity *int   `env:"EXTENSIBLE_VERBOSITY"`
}

// ParseEnv loads overrides from the process environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ParseEnvFrom loads overrides from the given variables instead of the
// process environment.
func ParseEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// ApplyEnv overrides manifest fields set in e.
func (m *Manifest) ApplyEnv(e Env) {
	if e.HostName != "" {
		m.Host.Name = e.HostName
	}
	if e.Verbosity != nil {
		m.Host.Verbosity = *e.Verbosity
	}
}
