package lib

import "fmt"

// WrapError attaches cause to the sentinel error, so both of them can be checked with errors.Is
func WrapError(parent error, cause error) error {
	if cause == nil {
		return parent
	}
	return fmt.Errorf("%w: %w", parent, cause)
}
