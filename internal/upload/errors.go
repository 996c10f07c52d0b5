package upload

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrUnknownFile indicates the file ID is not tracked by the session.
type ErrUnknownFile struct {
	ID uuid.UUID
}

func (e *ErrUnknownFile) Error() string {
	return fmt.Sprintf("unknown upload: %s", e.ID)
}

// ErrNotTerminal indicates a dismissal attempt on a file still in flight.
type ErrNotTerminal struct {
	ID     uuid.UUID
	Status Status
}

func (e *ErrNotTerminal) Error() string {
	return fmt.Sprintf("upload %s is %s; only completed or errored uploads can be dismissed", e.ID, e.Status)
}

// ErrInvalidTransition indicates a state change the machine does not permit.
type ErrInvalidTransition struct {
	ID   uuid.UUID
	From Status
	To   Status
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("upload %s: cannot transition %s -> %s", e.ID, e.From, e.To)
}
