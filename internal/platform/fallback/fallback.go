// Package fallback lets degrading views substitute a deterministic
// placeholder dataset when a fetch fails, instead of showing an error. The
// fixture is injected per call site at wiring time, so views never embed
// mock tables and tests can supply their own.
package fallback

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
)

// Func produces the fallback dataset for one entity type.
type Func[T any] func() T

// Mode controls whether degradation is allowed at all.
type Mode string

const (
	// ModeAuto substitutes fallback data on unreachable/malformed failures.
	ModeAuto Mode = "auto"
	// ModeNever disables substitution globally; every failure surfaces.
	ModeNever Mode = "never"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m == ModeAuto || m == ModeNever }

// Resolve runs fetch and, for degrading call sites, substitutes the fixture
// on unreachable or malformed failures. Rejected errors always surface: the
// server spoke, and its message belongs to the user.
func Resolve[T any](ctx context.Context, mode Mode, logger zerolog.Logger, fetch func(context.Context) (T, error), fb Func[T]) (T, error) {
	out, err := fetch(ctx)
	if err == nil {
		return out, nil
	}
	if mode == ModeNever || fb == nil || !api.IsDegradable(err) {
		return out, err
	}
	logger.Warn().Err(err).Msg("fetch failed, serving fallback dataset")
	return fb(), nil
}
