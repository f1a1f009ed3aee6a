package syncx

import (
	"fmt"
	"strings"
	"sync"
)

// MultiError collects errors from concurrent goroutines and implements the
// error interface. errors.Is and errors.As see every collected error.
type MultiError struct {
	errors []error
	mu     sync.Mutex
}

// NewMultiError creates a new MultiError instance
func NewMultiError() *MultiError {
	return &MultiError{}
}

// Add records err; nil is ignored
func (me *MultiError) Add(err error) {
	if err == nil {
		return
	}

	me.mu.Lock()
	me.errors = append(me.errors, err)
	me.mu.Unlock()
}

// Errors returns a copy of all collected errors
func (me *MultiError) Errors() []error {
	me.mu.Lock()
	defer me.mu.Unlock()

	result := make([]error, len(me.errors))
	copy(result, me.errors)
	return result
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (me *MultiError) Unwrap() []error {
	return me.Errors()
}

// Error implements the error interface
func (me *MultiError) Error() string {
	errs := me.Errors()

	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}

	messages := make([]string, 0, len(errs))
	for i, err := range errs {
		messages = append(messages, fmt.Sprintf("[%d] %s", i+1, err.Error()))
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(errs), strings.Join(messages, "\n"))
}

// Count returns the number of errors collected
func (me *MultiError) Count() int {
	me.mu.Lock()
	defer me.mu.Unlock()
	return len(me.errors)
}

// ToError returns nil if no errors were collected, otherwise me
func (me *MultiError) ToError() error {
	if me.Count() == 0 {
		return nil
	}
	return me
}
