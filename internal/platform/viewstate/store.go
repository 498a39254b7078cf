// Package viewstate implements the per-view controller state machine shared
// by every dashboard: a canonical item collection with loading/error phases,
// synchronous filtering, selection, and a supersession guard so a stale
// fetch can never overwrite newer state.
package viewstate

import (
	"context"
	"sync"
)

// Phase is the lifecycle of one view-state instance.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the store state handed to subscribers.
// Slices are copied so no view can mutate another's data.
type Snapshot[T any] struct {
	Phase    Phase
	Items    []T
	Filtered []T
	Filter   FilterSpec
	Err      string
}

// Store owns one view's collection. Each view holds its own store; sharing
// happens only through Subscribe, which gives read-only snapshots with the
// store itself as the single mutation entry point.
type Store[T any] struct {
	mu    sync.Mutex
	id    func(T) int64
	match Matcher[T]

	phase    Phase
	items    []T
	filtered []T
	filter   FilterSpec
	errMsg   string

	// gen guards against superseded fetches: a resolution carrying a stale
	// generation is discarded instead of overwriting newer state.
	gen uint64

	selectedID  int64
	hasSelected bool
	checked     map[int64]struct{}

	subs []func(Snapshot[T])
}

// New builds a store with an id extractor and the view's filter matcher.
func New[T any](id func(T) int64, match Matcher[T]) *Store[T] {
	return &Store[T]{
		id:      id,
		match:   match,
		checked: make(map[int64]struct{}),
	}
}

// Load transitions to Loading and runs fetch on a new goroutine. If another
// Load starts before this one resolves, the older resolution is ignored.
func (s *Store[T]) Load(ctx context.Context, fetch func(context.Context) ([]T, error)) {
	gen := s.beginLoad()
	go func() {
		items, err := fetch(ctx)
		s.resolve(gen, items, err)
	}()
}

// LoadWait is Load for synchronous call sites (CLI commands, tests): it
// returns once the fetch has resolved.
func (s *Store[T]) LoadWait(ctx context.Context, fetch func(context.Context) ([]T, error)) {
	gen := s.beginLoad()
	items, err := fetch(ctx)
	s.resolve(gen, items, err)
}

func (s *Store[T]) beginLoad() uint64 {
	s.mu.Lock()
	s.phase = Loading
	s.errMsg = ""
	s.gen++
	gen := s.gen
	s.notifyLocked()
	s.mu.Unlock()
	return gen
}

func (s *Store[T]) resolve(gen uint64, items []T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// Superseded by a newer load; discard.
		return
	}
	if err != nil {
		// Keep the last known-good items: stale data beats a blank view.
		s.phase = Failed
		s.errMsg = err.Error()
		s.notifyLocked()
		return
	}
	s.phase = Ready
	s.errMsg = ""
	s.items = items
	s.pruneSelectionLocked()
	s.refilterLocked()
	s.notifyLocked()
}

// SetItems replaces the collection in place. This is the mutation entry
// point used by the optimistic mutator; it never touches the phase.
func (s *Store[T]) SetItems(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.pruneSelectionLocked()
	s.refilterLocked()
	s.notifyLocked()
}

// SetError surfaces a mutation failure without discarding the collection.
func (s *Store[T]) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	s.notifyLocked()
}

// SetFilter applies a new filter synchronously. It never triggers a network
// call and is idempotent: re-applying the current spec is a no-op.
func (s *Store[T]) SetFilter(f FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f == s.filter {
		return
	}
	s.filter = f
	s.refilterLocked()
	s.notifyLocked()
}

func (s *Store[T]) refilterLocked() {
	if s.filter.IsZero() {
		// Empty predicate set: the filtered view is the collection itself.
		s.filtered = s.items
		return
	}
	filtered := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if s.match == nil || s.match(it, s.filter) {
			filtered = append(filtered, it)
		}
	}
	s.filtered = filtered
}

// Select marks a single item for detail/edit views. Selecting an id that is
// not in the collection is a no-op, not an error.
func (s *Store[T]) Select(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return
	}
	s.selectedID = id
	s.hasSelected = true
	s.notifyLocked()
}

// Selected returns the selected item, if any.
func (s *Store[T]) Selected() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasSelected {
		var zero T
		return zero, false
	}
	return s.findLocked(s.selectedID)
}

// ClearSelected drops the single selection.
func (s *Store[T]) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasSelected = false
	s.notifyLocked()
}

// Toggle flips an id in the batch-selection set. Unknown ids are no-ops.
func (s *Store[T]) Toggle(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findLocked(id); !ok {
		return
	}
	if _, on := s.checked[id]; on {
		delete(s.checked, id)
	} else {
		s.checked[id] = struct{}{}
	}
	s.notifyLocked()
}

// ToggleAll selects every filtered item, or clears the set if everything
// filtered is already selected.
func (s *Store[T]) ToggleAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.checked) == len(s.filtered) && len(s.filtered) > 0 {
		s.checked = make(map[int64]struct{})
	} else {
		s.checked = make(map[int64]struct{}, len(s.filtered))
		for _, it := range s.filtered {
			s.checked[s.id(it)] = struct{}{}
		}
	}
	s.notifyLocked()
}

// CheckedIDs returns the batch-selection set (unordered).
func (s *Store[T]) CheckedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.checked))
	for id := range s.checked {
		ids = append(ids, id)
	}
	return ids
}

// ClearChecked empties the batch-selection set.
func (s *Store[T]) ClearChecked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = make(map[int64]struct{})
	s.notifyLocked()
}

// Items returns a copy of the canonical collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Filtered returns a copy of the filtered collection.
func (s *Store[T]) Filtered() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.filtered...)
}

// Snapshot returns the full view state as copies.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Phase returns the current lifecycle phase.
func (s *Store[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the surfaced error message, empty when none.
func (s *Store[T]) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Subscribe registers a read-only observer called after every state change.
func (s *Store[T]) Subscribe(fn func(Snapshot[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Phase:    s.phase,
		Items:    append([]T(nil), s.items...),
		Filtered: append([]T(nil), s.filtered...),
		Filter:   s.filter,
		Err:      s.errMsg,
	}
}

func (s *Store[T]) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Store[T]) findLocked(id int64) (T, bool) {
	for _, it := range s.items {
		if s.id(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) pruneSelectionLocked() {
	if s.hasSelected {
		if _, ok := s.findLocked(s.selectedID); !ok {
			s.hasSelected = false
		}
	}
	for id := range s.checked {
		if _, ok := s.findLocked(id); !ok {
			delete(s.checked, id)
		}
	}
}
