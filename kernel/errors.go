package kernel

import (
	"errors"
	"fmt"
)

// Sentinel errors for the kernel package.
var (
	// ErrOutOfMemory is returned when an allocation would grow memory past
	// its page limit.
	ErrOutOfMemory = errors.New("kernel: out of memory")

	// ErrOutOfBounds is returned when an address range falls outside memory.
	ErrOutOfBounds = errors.New("kernel: address out of bounds")

	// ErrUnbalancedRestore is returned by Restore without a matching Save.
	ErrUnbalancedRestore = errors.New("kernel: restore without save")

	// ErrNoBlurKernel is returned by Blur before SetupBlur, or after the
	// blur kernel was released by Restore.
	ErrNoBlurKernel = errors.New("kernel: blur kernel not set up")

	// ErrInvalidArgument is returned for negative sizes and similar misuse.
	ErrInvalidArgument = errors.New("kernel: invalid argument")
)

// FaultError reports a runtime fault raised inside a kernel operation.
type FaultError struct {
	Op    string
	Value any
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("kernel: fault in %s: %v", e.Op, e.Value)
}

// Unwrap returns the fault value if it is an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// trampoline runs fn, converting a panic into a *FaultError.
func trampoline(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FaultError{Op: op, Value: r}
		}
	}()
	return fn()
}

func boundsError(addr Ptr, n int, size int) error {
	return fmt.Errorf("%w: [%d, %d) exceeds %d bytes", ErrOutOfBounds, addr, int(addr)+n, size)
}
