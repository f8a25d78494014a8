package vehicle

import "fmt"

// DuplicateNameError reports a vehicle name that is already reserved.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("vehicle name %q is already in use", e.Name)
}

// InvalidConfigError reports a rejected construction parameter.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
