package physics

import "fmt"

// IntegrityError reports that the graph and the simulation state no
// longer line up. It is raised as a panic: it means the caller's
// bookkeeping is broken and no further tick can be trusted.
type IntegrityError struct {
	Op     string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("physics: integrity violation in %s: %s", e.Op, e.Detail)
}

func integrityf(op, format string, args ...any) *IntegrityError {
	return &IntegrityError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
