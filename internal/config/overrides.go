package config

// RuntimeOverrides holds configuration values that can be overridden at
// runtime via CLI flags.
type RuntimeOverrides struct {
	LogLevel *string
	LogFile  *string
}

// NewWithOverrides loads, validates and returns the typed configuration with
// any runtime overrides applied.
func NewWithOverrides(overrides *RuntimeOverrides) (*ConfigSchema, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg, err := c.Schema()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		if overrides.LogLevel != nil {
			cfg.Log.Level = *overrides.LogLevel
		}
		if overrides.LogFile != nil {
			cfg.Log.File = *overrides.LogFile
		}
	}
	return cfg, nil
}
