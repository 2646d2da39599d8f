package errors

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

// Not found also covers "exists but owned by someone else" for reads scoped by user.
var (
	ErrCategoryNotFound = errors.New("Category not found")
	ErrExpenseNotFound  = errors.New("Expense not found")
)

var (
	ErrCategoryNameTaken = errors.New("A category with this name already exists")
	ErrCategoryInUse     = errors.New("Cannot delete category with existing expenses")
)

var ErrExpenseForbidden = errors.New("Forbidden: you don't have permission to modify this expense")
