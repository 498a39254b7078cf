package schedule

import (
	"context"

	"github.com/hospreg/hospreg/internal/platform/viewstate"
)

// Source is the data access the board needs; *Service satisfies it.
type Source interface {
	List(ctx context.Context) ([]Schedule, error)
}

// Board is the schedule-management view controller: a filtered view-state
// store over the shift plan. The board is read-only; edits go through the
// service and re-load.
type Board struct {
	src   Source
	store *viewstate.Store[Schedule]
}

func NewBoard(src Source) *Board {
	return &Board{
		src: src,
		store: viewstate.New(
			func(s Schedule) int64 { return s.ID },
			MatchFilter,
		),
	}
}

// MatchFilter is the board's filter predicate: work date, shift status, and
// a case-insensitive keyword search over doctor and department names.
func MatchFilter(s Schedule, f viewstate.FilterSpec) bool {
	if !viewstate.DateMatches(f.Date, s.WorkDate) {
		return false
	}
	if !viewstate.StatusMatches(f.Status, string(s.Status)) {
		return false
	}
	if f.Search != "" {
		return viewstate.ContainsFold(f.Search,
			s.Doctor.Display(""),
			s.DepartmentName(),
		)
	}
	return true
}

// Store exposes the view state for rendering and subscription.
func (b *Board) Store() *viewstate.Store[Schedule] { return b.store }

// Load refreshes the shift plan and waits for resolution.
func (b *Board) Load(ctx context.Context) {
	b.store.LoadWait(ctx, b.src.List)
}

// LoadAsync refreshes without blocking; a stale resolution is discarded.
func (b *Board) LoadAsync(ctx context.Context) {
	b.store.Load(ctx, b.src.List)
}

// Departments lists the distinct department names present on the board, for
// the filter dropdown.
func (b *Board) Departments() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, s := range b.store.Items() {
		name := s.DepartmentName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
