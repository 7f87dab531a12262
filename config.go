package inplace

import "log/slog"

// Config controls construction-time behavior shared by every variant.
// The zero value is valid and equivalent to DefaultConfig().
type Config struct {
	// Logger receives the shadow verifier's mismatch reports; the
	// arena does not use it (it logs unmap failures to slog.Default()).
	// It is never consulted on the Read/Write hot path. A nil Logger
	// defaults to slog.Default().
	Logger *slog.Logger

	// VerifyOnConstruct, when true, calls EnableVerification
	// immediately after construction instead of requiring a separate
	// call.
	VerifyOnConstruct bool
}

// Validate checks the config for internal consistency. Config currently
// has no invalid states, but Validate exists so callers have a single,
// stable place to check construction-time config errors as the type
// grows (mirrors the teacher's buffer.Config.Validate).
func (c Config) Validate() error {
	return nil
}

// DefaultConfig returns the configuration used when a variant is
// constructed without an explicit Config.
func DefaultConfig() Config {
	return Config{Logger: slog.Default()}
}

func resolveConfig(configs []Config) (Config, error) {
	if len(configs) == 0 {
		return DefaultConfig(), nil
	}
	cfg := configs[0]
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg, nil
}
