package body

import "fmt"

// ReadError is returned when the content of a file value cannot be read.
type ReadError struct {
	Name string
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading file value of '%s' (%s): %v", e.Name, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Cause() error { return e.Err }

// ConfigurationError is returned when a Builder was set up with something it
// cannot use, such as a nil or failing custom query string renderer.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Cause() error { return e.Err }
