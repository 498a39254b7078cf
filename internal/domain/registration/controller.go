package registration

import (
	"context"
	"fmt"

	"github.com/hospreg/hospreg/internal/platform/mutate"
	"github.com/hospreg/hospreg/internal/platform/viewstate"
)

// Source is the data access the controller needs; *Service satisfies it.
type Source interface {
	ListForDoctor(ctx context.Context) ([]Registration, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	BatchUpdateStatus(ctx context.Context, ids []int64, status Status) error
}

// Controller is the registration-management view controller: a view-state
// store over the doctor's registrations with guarded, optimistic status
// transitions.
type Controller struct {
	src   Source
	store *viewstate.Store[Registration]
	mut   *mutate.Mutator[Registration]
}

func NewController(src Source) *Controller {
	return &Controller{
		src: src,
		store: viewstate.New(
			func(r Registration) int64 { return r.ID },
			MatchFilter,
		),
		mut: mutate.New(func(r Registration) int64 { return r.ID }),
	}
}

// MatchFilter is the view's filter predicate: appointment date, status
// membership, and a case-insensitive search over patient name, patient id,
// and disease.
func MatchFilter(r Registration, f viewstate.FilterSpec) bool {
	if !viewstate.DateMatches(f.Date, r.AppointmentTime) {
		return false
	}
	if !viewstate.StatusMatches(f.Status, string(r.Status)) {
		return false
	}
	if f.Search != "" {
		return viewstate.ContainsFold(f.Search,
			r.DisplayPatient(),
			fmt.Sprintf("%d", r.PatientID),
			r.Disease,
		)
	}
	return true
}

// Store exposes the view state for rendering and subscription.
func (c *Controller) Store() *viewstate.Store[Registration] { return c.store }

// Load refreshes the collection and waits for resolution.
func (c *Controller) Load(ctx context.Context) {
	c.store.LoadWait(ctx, c.src.ListForDoctor)
}

// LoadAsync refreshes without blocking the caller; a stale resolution is
// discarded by the store.
func (c *Controller) LoadAsync(ctx context.Context) {
	c.store.Load(ctx, c.src.ListForDoctor)
}

// Transition moves one registration to a new status. The guard runs before
// anything else: a blocked transition issues no mutation and no network
// call. On success the store holds the optimistic collection immediately;
// the returned channel settles with the reconciliation outcome after the
// server call, with rollback already applied to the store on failure.
func (c *Controller) Transition(ctx context.Context, id int64, to Status) (<-chan error, error) {
	items := c.store.Items()
	cur, ok := find(items, id)
	if !ok {
		return nil, fmt.Errorf("挂号记录不存在：%d", id)
	}
	if err := CheckTransition(cur, to); err != nil {
		return nil, err
	}

	updated := cur
	updated.Status = to
	op := mutate.Op[Registration]{Kind: mutate.Update, ID: id, Item: updated}

	optimistic, settle := c.mut.Run(ctx, items, op, func(ctx context.Context) (*Registration, error) {
		if err := c.src.UpdateStatus(ctx, id, to); err != nil {
			return nil, err
		}
		return nil, nil
	})
	c.store.SetItems(optimistic)

	done := make(chan error, 1)
	go func() {
		res := <-settle
		c.store.SetItems(res.Items)
		if res.Err != nil {
			c.store.SetError(res.Err.Error())
		}
		done <- res.Err
	}()
	return done, nil
}

// TransitionChecked applies a transition to the whole batch-selection set,
// all-or-nothing. Every member must pass the guard before the optimistic
// mutation; one server failure reverts the entire batch.
func (c *Controller) TransitionChecked(ctx context.Context, to Status) (<-chan error, error) {
	ids := c.store.CheckedIDs()
	if len(ids) == 0 {
		return nil, fmt.Errorf("未选择任何挂号记录")
	}

	items := c.store.Items()
	for _, id := range ids {
		cur, ok := find(items, id)
		if !ok {
			return nil, fmt.Errorf("挂号记录不存在：%d", id)
		}
		if err := CheckTransition(cur, to); err != nil {
			return nil, err
		}
	}

	optimistic, settle := c.mut.RunBatch(ctx, items, ids,
		func(r Registration) Registration { r.Status = to; return r },
		func(ctx context.Context) error {
			return c.src.BatchUpdateStatus(ctx, ids, to)
		},
	)
	c.store.SetItems(optimistic)
	c.store.ClearChecked()

	done := make(chan error, 1)
	go func() {
		res := <-settle
		c.store.SetItems(res.Items)
		if res.Err != nil {
			c.store.SetError(res.Err.Error())
		}
		done <- res.Err
	}()
	return done, nil
}

func find(items []Registration, id int64) (Registration, bool) {
	for _, r := range items {
		if r.ID == id {
			return r, true
		}
	}
	return Registration{}, false
}
