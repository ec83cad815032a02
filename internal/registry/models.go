package registry

import "time"

// PortAllocation represents one claimed port for one (project, service) pair
type PortAllocation struct {
	Port        int
	Project     string
	Service     string
	Type        string
	AllocatedAt time.Time
	Note        string
}

// Reservation represents a port blocked from allocation without a project
type Reservation struct {
	Port       int
	Reason     string
	ReservedAt time.Time
}

// Registry is the single document of record: all allocations and
// reservations. It is loaded fresh for every operation and owned
// exclusively by whichever process holds the lock.
type Registry struct {
	Allocations  []PortAllocation
	Reservations []Reservation
}

// FindAllocation returns the allocation for a (project, service) pair, or nil.
func (r *Registry) FindAllocation(project, service string) *PortAllocation {
	for i := range r.Allocations {
		a := &r.Allocations[i]
		if a.Project == project && a.Service == service {
			return a
		}
	}
	return nil
}

// AllocationByPort returns the allocation holding port, or nil.
func (r *Registry) AllocationByPort(port int) *PortAllocation {
	for i := range r.Allocations {
		if r.Allocations[i].Port == port {
			return &r.Allocations[i]
		}
	}
	return nil
}

// ReservationByPort returns the reservation holding port, or nil.
func (r *Registry) ReservationByPort(port int) *Reservation {
	for i := range r.Reservations {
		if r.Reservations[i].Port == port {
			return &r.Reservations[i]
		}
	}
	return nil
}

// UsedPorts returns every port claimed by an allocation or a reservation.
func (r *Registry) UsedPorts() map[int]bool {
	used := make(map[int]bool, len(r.Allocations)+len(r.Reservations))
	for _, a := range r.Allocations {
		used[a.Port] = true
	}
	for _, rs := range r.Reservations {
		used[rs.Port] = true
	}
	return used
}
