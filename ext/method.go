package ext

import "fmt"

// Arity-specialized handler adapters. They check the shape of the call and
// unpack Args so handlers can take their parameters directly.

// Method0Func handles an operation with no parameters.
type Method0Func func(c *Call) error

// Method1Func handles a one-parameter operation.
type Method1Func func(c *Call, a1 Value) error

// Method2Func handles a two-parameter operation.
type Method2Func func(c *Call, a1, a2 Value) error

// Method3Func handles a three-parameter operation.
type Method3Func func(c *Call, a1, a2, a3 Value) error

// Method4Func handles a four-parameter operation.
type Method4Func func(c *Call, a1, a2, a3, a4 Value) error

func checkArity(c *Call, n int) error {
	if len(c.Args) != n {
		return fmt.Errorf("%w: %s handler takes %d arguments, got %d", ErrArity, c.Op, n, len(c.Args))
	}
	return nil
}

// Method0 adapts a zero-argument handler.
func Method0(fn Method0Func) Handler {
	return func(c *Call) error {
		if err := checkArity(c, 0); err != nil {
			return err
		}
		return fn(c)
	}
}

// Method1 adapts a one-argument handler.
func Method1(fn Method1Func) Handler {
	return func(c *Call) error {
		if err := checkArity(c, 1); err != nil {
			return err
		}
		return fn(c, c.Args[0])
	}
}

// Method2 adapts a two-argument handler.
func Method2(fn Method2Func) Handler {
	return func(c *Call) error {
		if err := checkArity(c, 2); err != nil {
			return err
		}
		return fn(c, c.Args[0], c.Args[1])
	}
}

// Method3 adapts a three-argument handler.
func Method3(fn Method3Func) Handler {
	return func(c *Call) error {
		if err := checkArity(c, 3); err != nil {
			return err
		}
		return fn(c, c.Args[0], c.Args[1], c.Args[2])
	}
}

// Method4 adapts a four-argument handler.
func Method4(fn Method4Func) Handler {
	return func(c *Call) error {
		if err := checkArity(c, 4); err != nil {
			return err
		}
		return fn(c, c.Args[0], c.Args[1], c.Args[2], c.Args[3])
	}
}

// Passthrough is a handler that continues with its arguments unchanged.
func Passthrough(c *Call) error {
	return c.Next(c.Args...)
}
