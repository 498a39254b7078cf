// Package mutate implements optimistic collection mutation: the local copy
// changes immediately, the server call settles in the background, and the
// caller receives either the reconciled authoritative collection or the
// reverted pre-mutation one.
package mutate

import "context"

// Kind is the mutation class.
type Kind int

const (
	Insert Kind = iota
	Update
	Delete
)

// Op describes one mutation. Item carries the optimistic record for Insert
// and Update; ID names the target for Update and Delete.
type Op[T any] struct {
	Kind Kind
	Item T
	ID   int64
}

// Call issues the corresponding write to the server and returns the
// authoritative record, or nil when the server responds without a body.
type Call[T any] func(ctx context.Context) (*T, error)

// Result is the settled outcome of a mutation.
type Result[T any] struct {
	Items []T
	Err   error
}

// Mutator applies Ops to collections of T identified by an integer id.
type Mutator[T any] struct {
	id func(T) int64
}

func New[T any](id func(T) int64) *Mutator[T] {
	return &Mutator[T]{id: id}
}

// Apply is the pure local mutation. The input slice is never modified.
func (m *Mutator[T]) Apply(items []T, op Op[T]) []T {
	switch op.Kind {
	case Insert:
		out := make([]T, 0, len(items)+1)
		out = append(out, items...)
		return append(out, op.Item)
	case Update:
		out := append([]T(nil), items...)
		for i, it := range out {
			if m.id(it) == op.ID {
				out[i] = op.Item
				break
			}
		}
		return out
	case Delete:
		out := make([]T, 0, len(items))
		for _, it := range items {
			if m.id(it) != op.ID {
				out = append(out, it)
			}
		}
		return out
	}
	return append([]T(nil), items...)
}

// Run applies op optimistically and returns the updated collection at once,
// together with a settle channel. On server success the authoritative record
// replaces the optimistic guess at the same logical position; on failure the
// pre-mutation collection comes back with the error.
func (m *Mutator[T]) Run(ctx context.Context, items []T, op Op[T], call Call[T]) ([]T, <-chan Result[T]) {
	before := append([]T(nil), items...)
	optimistic := m.Apply(items, op)

	settle := make(chan Result[T], 1)
	go func() {
		authoritative, err := call(ctx)
		if err != nil {
			settle <- Result[T]{Items: before, Err: err}
			return
		}
		settle <- Result[T]{Items: m.reconcile(optimistic, op, authoritative)}
	}()
	return optimistic, settle
}

// reconcile swaps the server's record in for the optimistic entry. A nil
// authoritative record (void response) leaves the optimistic guess standing.
func (m *Mutator[T]) reconcile(optimistic []T, op Op[T], authoritative *T) []T {
	if authoritative == nil || op.Kind == Delete {
		return optimistic
	}
	out := append([]T(nil), optimistic...)
	switch op.Kind {
	case Insert:
		// The optimistic insert sits at the tail; the server may have
		// assigned the real id and timestamps.
		if len(out) > 0 {
			out[len(out)-1] = *authoritative
		}
	case Update:
		for i, it := range out {
			if m.id(it) == op.ID {
				out[i] = *authoritative
				break
			}
		}
	}
	return out
}

// RunBatch applies transform to every item in ids optimistically and issues
// one batch server call. The batch is all-or-nothing: any server failure
// reverts every member rather than leaving a mixed state.
func (m *Mutator[T]) RunBatch(ctx context.Context, items []T, ids []int64, transform func(T) T, call func(ctx context.Context) error) ([]T, <-chan Result[T]) {
	before := append([]T(nil), items...)

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	optimistic := append([]T(nil), items...)
	for i, it := range optimistic {
		if _, ok := set[m.id(it)]; ok {
			optimistic[i] = transform(it)
		}
	}

	settle := make(chan Result[T], 1)
	go func() {
		if err := call(ctx); err != nil {
			settle <- Result[T]{Items: before, Err: err}
			return
		}
		settle <- Result[T]{Items: optimistic}
	}()
	return optimistic, settle
}
