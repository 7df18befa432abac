package odm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("duplicate document")
	ErrValidation     = errors.New("validation failed")
	// the backing table or collection was never initialized
	ErrNotInitialized = errors.New("collection not initialized")
)

// ValidationError lists the failed fields and the violated rule for each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}

func fromValidatorErrors(errs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Fields: make(map[string]string, len(errs))}
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		ve.Fields[fe.Field()] = rule
	}
	return ve
}
