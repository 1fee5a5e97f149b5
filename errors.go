package lisp

import "fmt"

// ConfigError is returned by NewContext when the four factory integers
// described in spec.md §4.1 don't form a valid configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ReadError is the structural failure a Reader reports when source
// text can't be parsed into a value graph (spec.md §6, §7.1). It never
// enters the value graph; callers must not evaluate after seeing one.
type ReadError struct {
	Message string
	Pos     int
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s @ byte %d", e.Message, e.Pos)
}

// SetupError reports a violation of the Context lifecycle contract,
// such as calling SetupEnvironment twice or registering a primitive
// after setup has run.
type SetupError struct {
	Message string
}

func (e *SetupError) Error() string { return e.Message }
