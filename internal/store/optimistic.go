package store

// Optimistic is a value that can be changed locally before the backend
// confirms it. Every proposal and every request that may confirm the value
// takes a sequence number from the same counter.
//
// Rules:
//   - Propose sets the tentative value.
//   - Confirm with seq m is applied only if m is newer than the last applied
//     confirmation. It clears the tentative value when m is at least the
//     newest proposal's seq.
//   - Fail with seq n drops the tentative value if no newer proposal exists.
//
// Optimistic is not safe for concurrent use; the Store guards it.
type Optimistic[T any] struct {
	confirmed    T
	tentative    T
	hasTentative bool

	seq      uint64 // last issued
	proposed uint64 // seq of the newest proposal
	applied  uint64 // seq of the newest applied confirmation
}

// NewOptimistic returns an Optimistic confirmed at v.
func NewOptimistic[T any](v T) Optimistic[T] {
	return Optimistic[T]{confirmed: v}
}

// Value returns the tentative value if there is one, else the confirmed value.
func (o *Optimistic[T]) Value() T {
	if o.hasTentative {
		return o.tentative
	}
	return o.confirmed
}

// Confirmed returns the last value the backend confirmed.
func (o *Optimistic[T]) Confirmed() T {
	return o.confirmed
}

// Pending reports whether a tentative value is shown.
func (o *Optimistic[T]) Pending() bool {
	return o.hasTentative
}

// Begin issues a sequence number for a request that may confirm the value.
func (o *Optimistic[T]) Begin() uint64 {
	o.seq++
	return o.seq
}

// Propose sets a tentative value and returns its sequence number.
func (o *Optimistic[T]) Propose(v T) uint64 {
	seq := o.Begin()
	o.tentative = v
	o.hasTentative = true
	o.proposed = seq
	return seq
}

// Confirm applies a backend-confirmed value. It returns false when the
// confirmation is stale and was discarded.
func (o *Optimistic[T]) Confirm(seq uint64, v T) bool {
	if seq <= o.applied {
		return false
	}
	o.applied = seq
	o.confirmed = v
	if o.hasTentative && seq >= o.proposed {
		var zero T
		o.tentative = zero
		o.hasTentative = false
	}
	return true
}

// Fail records that the request with seq failed. The tentative value is
// dropped unless a newer proposal has replaced it.
func (o *Optimistic[T]) Fail(seq uint64) {
	if o.hasTentative && seq >= o.proposed {
		var zero T
		o.tentative = zero
		o.hasTentative = false
	}
}
