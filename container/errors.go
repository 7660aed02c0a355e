package container

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors for errors.Is checks. The typed errors below carry the
// details (service name, dependency chain, underlying cause) and match their
// sentinel via an Is method.
var (
	// ErrInvalidFactory is reported by Register when the supplied factory is
	// not an invocable function, or its signature cannot satisfy the declared
	// dependency list.
	ErrInvalidFactory = errors.New("container: invalid factory")

	// ErrNotFound is reported by Get for a name with no registered definition.
	ErrNotFound = errors.New("container: service not registered")

	// ErrCircularDependency is reported by Get when the dependency graph
	// loops back onto a service already being resolved in the same call.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrConstruction is reported by Get when a factory itself fails.
	ErrConstruction = errors.New("container: service construction failed")
)

// InvalidFactoryError is returned by Register for a factory that is not a
// function or whose signature does not match the declared dependencies.
type InvalidFactoryError struct {
	Name   string
	Reason string
}

func (e *InvalidFactoryError) Error() string {
	return "container: invalid factory for " + strconv.Quote(e.Name) + ": " + e.Reason
}

func (e *InvalidFactoryError) Is(target error) bool { return target == ErrInvalidFactory }

// NotFoundError is returned by Get for an unregistered service name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "container: service " + strconv.Quote(e.Name) + " is not registered"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CircularDependencyError is returned by Get when resolution re-enters a
// service that is already on the current resolution stack. Chain holds the
// offending path, first repeated entry to itself, e.g. ["a", "b", "c", "a"].
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Chain, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ConstructionError wraps an error returned (or a panic raised) by a service
// factory. The original cause is preserved and reachable through Unwrap, so
// errors.Is and errors.As see through to it.
type ConstructionError struct {
	Name  string
	Cause error
}

func (e *ConstructionError) Error() string {
	return "container: building " + strconv.Quote(e.Name) + ": " + e.Cause.Error()
}

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

// Unwrap returns the underlying factory error.
func (e *ConstructionError) Unwrap() error { return e.Cause }

// Root returns the innermost cause of the construction failure.
func (e *ConstructionError) Root() error {
	err := e.Cause
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		next := u.Unwrap()
		if next == nil {
			return err
		}
		err = next
	}
}
