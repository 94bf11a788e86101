package errors

import (
	"errors"
	"fmt"
	"sync"
)

// ErrorCollector gathers page failures when a build runs in force mode.
type ErrorCollector struct {
	errors []error
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

// Add records err. Nil errors are ignored.
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// Len returns the number of collected errors
func (ec *ErrorCollector) Len() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Err folds the collected page errors into one, or nil when there are none.
func (ec *ErrorCollector) Err() error {
	return ec.Summarize("pages")
}

// Summarize folds the collected errors into one that counts them as failed
// things of the given kind.
func (ec *ErrorCollector) Summarize(kind string) error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	switch len(ec.errors) {
	case 0:
		return nil
	case 1:
		return ec.errors[0]
	default:
		return fmt.Errorf("%d %s failed: %w", len(ec.errors), kind, errors.Join(ec.errors...))
	}
}
