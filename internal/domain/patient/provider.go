package patient

import (
	"context"

	"github.com/hospreg/hospreg/internal/platform/mutate"
	"github.com/hospreg/hospreg/internal/platform/viewstate"
)

// ProfileSource is the data access the provider needs; *Service satisfies it.
type ProfileSource interface {
	CurrentDetails(ctx context.Context) (*Details, error)
	UpdateProfile(ctx context.Context, id int64, b Basic) (*Basic, error)
}

// Provider owns the logged-in patient's profile for all sibling views
// (home, profile, records, registration). Views subscribe read-only; the
// provider is the single mutation entry point.
type Provider struct {
	src   ProfileSource
	store *viewstate.Store[Details]
	mut   *mutate.Mutator[Details]
}

func NewProvider(src ProfileSource) *Provider {
	return &Provider{
		src: src,
		store: viewstate.New[Details](
			func(d Details) int64 { return d.ID },
			nil, // profile views don't filter
		),
		mut: mutate.New(func(d Details) int64 { return d.ID }),
	}
}

// Store exposes the shared view state for subscription.
func (p *Provider) Store() *viewstate.Store[Details] { return p.store }

// Load resolves the current profile and waits.
func (p *Provider) Load(ctx context.Context) {
	p.store.LoadWait(ctx, func(ctx context.Context) ([]Details, error) {
		d, err := p.src.CurrentDetails(ctx)
		if err != nil {
			return nil, err
		}
		return []Details{*d}, nil
	})
}

// Current returns the cached profile.
func (p *Provider) Current() (Details, bool) {
	items := p.store.Items()
	if len(items) == 0 {
		return Details{}, false
	}
	return items[0], true
}

// UpdateProfile applies the edit optimistically and reconciles against the
// server's authoritative record, rolling back on failure.
func (p *Provider) UpdateProfile(ctx context.Context, b Basic) (<-chan error, error) {
	cur, ok := p.Current()
	if !ok {
		return nil, errNoProfile
	}

	updated := cur
	updated.Name = b.Name
	updated.Gender = b.Gender
	updated.Age = b.Age
	updated.Phone = b.Phone
	updated.Address = b.Address

	op := mutate.Op[Details]{Kind: mutate.Update, ID: cur.ID, Item: updated}
	optimistic, settle := p.mut.Run(ctx, p.store.Items(), op, func(ctx context.Context) (*Details, error) {
		auth, err := p.src.UpdateProfile(ctx, cur.ID, b)
		if err != nil {
			return nil, err
		}
		if auth == nil {
			return nil, nil
		}
		// Histories are not part of the profile write; carry them over.
		merged := updated
		merged.Name = auth.Name
		merged.Gender = auth.Gender
		merged.Age = auth.Age
		merged.Phone = auth.Phone
		merged.Address = auth.Address
		return &merged, nil
	})
	p.store.SetItems(optimistic)

	done := make(chan error, 1)
	go func() {
		res := <-settle
		p.store.SetItems(res.Items)
		if res.Err != nil {
			p.store.SetError(res.Err.Error())
		}
		done <- res.Err
	}()
	return done, nil
}

type profileError string

func (e profileError) Error() string { return string(e) }

const errNoProfile = profileError("患者信息尚未加载")
