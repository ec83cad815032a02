package registry

import (
	"fmt"
	"os"
	"time"

	"github.com/bendechrai/devports/internal/config"
	"github.com/bendechrai/devports/internal/lockfile"
)

// Engine exposes the port allocation operations. Every mutation is a
// lock-scoped read-modify-write cycle: the registry is reloaded fresh
// under the cross-process lock, changed, and persisted before the lock
// drops. Nothing is cached across operations.
type Engine struct {
	cfg   *config.Config
	store Store

	// probe reports whether something is listening on a port. Overridable
	// in tests.
	probe func(port int) bool

	// Warnf receives non-fatal warnings such as the post-allocation
	// liveness notice.
	Warnf func(format string, args ...any)

	now func() time.Time
}

// TypeStatus summarizes one configured type's range usage.
type TypeStatus struct {
	Type      string
	Range     config.PortRange
	Used      int
	Available int

	// Next is the first port in the range not claimed by an allocation
	// or reservation, or 0 when the range is full. Deliberately
	// registry-only: no live probe, so it can disagree with what
	// Allocate would actually pick.
	Next int
}

// NewEngine creates an allocation engine over cfg and store.
func NewEngine(cfg *config.Config, store Store) *Engine {
	e := &Engine{
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
	e.probe = func(port int) bool {
		return IsPortLive(cfg.ProbeHost, port, cfg.ProbeTimeout())
	}
	e.Warnf = func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
	return e
}

// withRegistry runs mutate against a fresh registry snapshot while
// holding the cross-process lock. The snapshot is persisted only when
// mutate asks for it, and only if mutate succeeded, so a failed
// operation never leaves a partial write.
func (e *Engine) withRegistry(mutate func(reg *Registry) (save bool, err error)) error {
	release, err := lockfile.Acquire(e.cfg.LockPath, lockfile.Options{
		Retries: e.cfg.LockRetries,
		Stale:   e.cfg.LockStale(),
	})
	if err != nil {
		return fmt.Errorf("failed to lock registry: %w", err)
	}
	defer release()

	reg, err := e.store.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	save, err := mutate(reg)
	if err != nil {
		return err
	}
	if !save {
		return nil
	}

	if err := e.store.SaveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	return nil
}

// Allocate claims a new port for (project, service) from the named
// type's range. After the registry is persisted and the lock released,
// the chosen port is re-probed; a live result is surfaced as a warning
// rather than an error, since the window between scan and the caller
// binding the port is unguarded either way.
func (e *Engine) Allocate(project, service, portType, note string) (*PortAllocation, error) {
	rng, ok := e.cfg.Ranges[portType]
	if !ok {
		return nil, &UnknownTypeError{Type: portType, Valid: e.cfg.TypeNames()}
	}

	var out *PortAllocation
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		if existing := reg.FindAllocation(project, service); existing != nil {
			return false, &AlreadyAllocatedError{Existing: *existing}
		}

		port, found := FindAvailablePort(rng.Start, rng.End, reg.UsedPorts(), e.probe)
		if !found {
			return false, &NoAvailablePortsError{Type: portType, Start: rng.Start, End: rng.End}
		}

		alloc := PortAllocation{
			Port:        port,
			Project:     project,
			Service:     service,
			Type:        portType,
			AllocatedAt: e.now().UTC(),
			Note:        note,
		}
		reg.Allocations = append(reg.Allocations, alloc)
		out = &alloc
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit liveness check, outside the lock. Non-fatal.
	if e.probe(out.Port) {
		e.Warnf("port %d allocated to %s/%s is already in use by another process",
			out.Port, project, service)
	}

	return out, nil
}

// GetOrAllocate returns the existing allocation for (project, service)
// if one exists, otherwise allocates a new port. Repeated calls always
// yield the same port, which keeps template re-rendering idempotent.
func (e *Engine) GetOrAllocate(project, service, portType string) (*PortAllocation, error) {
	var existing *PortAllocation
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		if a := reg.FindAllocation(project, service); a != nil {
			cp := *a
			existing = &cp
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return e.Allocate(project, service, portType, "")
}

// Release removes allocations for a project. Exactly one of service or
// all must be supplied. Returns the number of allocations removed; the
// registry is persisted even for a zero-count result.
func (e *Engine) Release(project, service string, all bool) (int, error) {
	if all && service != "" {
		return 0, &InvalidArgumentsError{Reason: "specify a service or --all, not both"}
	}
	if !all && service == "" {
		return 0, &InvalidArgumentsError{Reason: "specify a service or --all"}
	}

	removed := 0
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		kept := reg.Allocations[:0]
		for _, a := range reg.Allocations {
			if a.Project == project && (all || a.Service == service) {
				removed++
				continue
			}
			kept = append(kept, a)
		}
		reg.Allocations = kept
		return true, nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// ReleaseByPort removes the allocation holding the exact port, if any.
// Reports whether one was removed; the registry is written only when a
// removal actually happened.
func (e *Engine) ReleaseByPort(port int) (bool, error) {
	removed := false
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		for i, a := range reg.Allocations {
			if a.Port == port {
				reg.Allocations = append(reg.Allocations[:i], reg.Allocations[i+1:]...)
				removed = true
				break
			}
		}
		return removed, nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// Reserve blocks a port from allocation without tying it to a project.
func (e *Engine) Reserve(port int, reason string) (*Reservation, error) {
	var out *Reservation
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		if holder := reg.AllocationByPort(port); holder != nil {
			return false, &PortAllocatedError{Holder: *holder}
		}
		if existing := reg.ReservationByPort(port); existing != nil {
			return false, &PortReservedError{Port: port, Reason: existing.Reason}
		}

		res := Reservation{Port: port, Reason: reason, ReservedAt: e.now().UTC()}
		reg.Reservations = append(reg.Reservations, res)
		out = &res
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Unreserve removes the reservation on a port, if any. Conditional save,
// mirroring ReleaseByPort.
func (e *Engine) Unreserve(port int) (bool, error) {
	removed := false
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		for i, r := range reg.Reservations {
			if r.Port == port {
				reg.Reservations = append(reg.Reservations[:i], reg.Reservations[i+1:]...)
				removed = true
				break
			}
		}
		return removed, nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// Status reports per-type usage from a fresh registry snapshot. The
// read still takes the lock so it can never observe a half-written
// document mid-save.
func (e *Engine) Status() ([]TypeStatus, error) {
	var statuses []TypeStatus
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		used := reg.UsedPorts()

		for _, name := range e.cfg.TypeNames() {
			rng := e.cfg.Ranges[name]

			count := 0
			for _, a := range reg.Allocations {
				if a.Type == name {
					count++
				}
			}

			next, _ := FindAvailablePort(rng.Start, rng.End, used, nil)

			// Allocations can outnumber a range that was shrunk after the
			// fact; availability never reads below zero.
			available := rng.Size() - count
			if available < 0 {
				available = 0
			}

			statuses = append(statuses, TypeStatus{
				Type:      name,
				Range:     rng,
				Used:      count,
				Available: available,
				Next:      next,
			})
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return statuses, nil
}

// Snapshot returns a fresh lock-scoped copy of the registry document.
func (e *Engine) Snapshot() (*Registry, error) {
	var snap *Registry
	err := e.withRegistry(func(reg *Registry) (bool, error) {
		snap = reg
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
