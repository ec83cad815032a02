package registry

import (
	"fmt"
	"strings"
)

// UnknownTypeError reports a service type with no configured range.
type UnknownTypeError struct {
	Type  string
	Valid []string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown port type %q (valid types: %s)", e.Type, strings.Join(e.Valid, ", "))
}

// AlreadyAllocatedError reports that a (project, service) pair already
// holds a port.
type AlreadyAllocatedError struct {
	Existing PortAllocation
}

func (e *AlreadyAllocatedError) Error() string {
	return fmt.Sprintf("%s/%s already has port %d allocated",
		e.Existing.Project, e.Existing.Service, e.Existing.Port)
}

// PortAllocatedError reports a reserve attempt on a port owned by an
// allocation.
type PortAllocatedError struct {
	Holder PortAllocation
}

func (e *PortAllocatedError) Error() string {
	return fmt.Sprintf("port %d is allocated to %s/%s",
		e.Holder.Port, e.Holder.Project, e.Holder.Service)
}

// PortReservedError reports a reserve attempt on an already reserved port.
type PortReservedError struct {
	Port   int
	Reason string
}

func (e *PortReservedError) Error() string {
	return fmt.Sprintf("port %d is already reserved (%s)", e.Port, e.Reason)
}

// NoAvailablePortsError reports an exhausted range.
type NoAvailablePortsError struct {
	Type  string
	Start int
	End   int
}

func (e *NoAvailablePortsError) Error() string {
	return fmt.Sprintf("no available ports for type %q in range %d-%d", e.Type, e.Start, e.End)
}

// InvalidArgumentsError reports a caller protocol violation.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return "invalid arguments: " + e.Reason
}
