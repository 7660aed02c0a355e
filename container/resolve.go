package container

import "fmt"

// Resolve gets a service and type-asserts it to T.
//
//	// Instead of: gen := c.Get("css").(*css.Generator)
//	// Write:      gen, err := container.Resolve[*css.Generator](c, "css")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: service %q resolved to %T, want %T", name, v, zero)
	}
	return typed, nil
}

// MustResolve is Resolve for wiring code where a miss is a programming error.
// It panics instead of returning an error.
func MustResolve[T any](c *Container, name string) T {
	v, err := Resolve[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}
