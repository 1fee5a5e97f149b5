package lisp

// Config carries the four integers spec.md §4.1 says the Context
// factory takes. Unlike the teacher's stringly-typed settings map,
// the fields here are fixed: the spec pins the factory to exactly
// four named knobs, so a map would only hide a typo behind a runtime
// panic instead of a compile error.
type Config struct {
	// SoftLimit makes the allocator log a one-time warning when it is
	// crossed, and an unforced GC runs only once it is exceeded.
	// Allocation itself never starts a collection.
	SoftLimit uint64
	// HardLimit cancels the running evaluation once crossed.
	HardLimit uint64
	// Verbose enables diagnostic logging of GC and limit events.
	Verbose bool
	// TimeoutSeconds is the per-Eval wall-clock budget. Zero disables it.
	TimeoutSeconds int
}

// NewConfig returns the defaults libisp ships in mem.c: a 64KiB soft
// limit, a 128KiB hard limit, silent verbosity, and no timeout.
func NewConfig() *Config {
	return &Config{
		SoftLimit:      65535,
		HardLimit:      131071,
		Verbose:        false,
		TimeoutSeconds: 0,
	}
}

func (c *Config) validate() error {
	if c.HardLimit <= c.SoftLimit {
		return &ConfigError{Message: "hard memory limit must exceed soft memory limit"}
	}
	if c.TimeoutSeconds < 0 {
		return &ConfigError{Message: "timeout seconds must not be negative"}
	}
	return nil
}
