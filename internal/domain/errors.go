package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)

// InvalidTransitionError reports an attempted status change that is not
// an edge of the entity's transition table. The entity is left untouched
// when this is returned.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %s to %s", e.Entity, e.From, e.To)
}
