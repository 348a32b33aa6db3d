package pipeline

import (
	"fmt"
	"strings"
)

// MissingColumnError reports that a column required by a stage is absent.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("pipeline: required column %q not found (available: %s)",
		e.Column, strings.Join(e.Available, ", "))
}
