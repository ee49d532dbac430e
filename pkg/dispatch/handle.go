package dispatch

import "github.com/google/uuid"

// Handle identifies a pending watched item (watch, timer, or frame delay).
// Callers only ever hold the handle; the dispatcher owns the entry behind it.
type Handle struct {
	id uuid.UUID
}

func newHandle() Handle {
	return Handle{id: uuid.New()}
}

// IsZero reports whether the handle was never issued
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

func (h Handle) String() string {
	return h.id.String()
}
