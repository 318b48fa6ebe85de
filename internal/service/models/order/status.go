package order

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusNew            Status = "NEW"
	StatusPreparing      Status = "PREPARING"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusCompleted      Status = "COMPLETED"
	StatusRejected       Status = "REJECTED"
)

var ErrInvalidStatus = errors.New("invalid order status")

// ErrInvalidTransition is returned when strict transitions are enabled and
// the requested status is not reachable from the current one.
type ErrInvalidTransition struct {
	From Status
	To   Status
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition: cannot transition from %s to %s", e.From, e.To)
}

var transitions = map[Status][]Status{
	StatusNew:            {StatusPreparing, StatusRejected},
	StatusPreparing:      {StatusReadyForPickup, StatusCompleted, StatusRejected},
	StatusReadyForPickup: {StatusCompleted},
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusReadyForPickup, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// IsSale reports whether an order in this status counts towards sales.
func (s Status) IsSale() bool {
	return s != StatusNew && s != StatusRejected
}

// CanTransitionTo reports whether to is reachable from s in one step.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}

	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}

	return status, nil
}
