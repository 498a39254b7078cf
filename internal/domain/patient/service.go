package patient

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
)

// Service performs patient data access. All patient views are blocking:
// profile and history data is never substituted with placeholders.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "patient").Logger(),
	}
}

// ListDetails fetches every patient with embedded histories (admin view).
func (s *Service) ListDetails(ctx context.Context) ([]Details, error) {
	items, err := api.FetchInto[[]Details](ctx, s.client, "/api/patients/details")
	if err != nil {
		return nil, err
	}
	for i, d := range items {
		items[i] = Normalize(d)
	}
	return items, nil
}

// GetDetails fetches one patient profile.
func (s *Service) GetDetails(ctx context.Context, id int64) (*Details, error) {
	d, err := api.FetchInto[Details](ctx, s.client, fmt.Sprintf("/api/patients/%d/details", id))
	if err != nil {
		return nil, err
	}
	d = Normalize(d)
	return &d, nil
}

// CurrentDetails resolves the logged-in patient's profile. The backend has
// no direct endpoint for this, so the lookup chains through the session
// identity: me -> user record -> patient record -> details.
func (s *Service) CurrentDetails(ctx context.Context) (*Details, error) {
	me, err := api.FetchInto[struct {
		Username string `json:"username"`
	}](ctx, s.client, "/api/auth/me")
	if err != nil {
		return nil, err
	}

	user, err := api.FetchInto[struct {
		ID int64 `json:"id"`
	}](ctx, s.client, "/api/users/username/"+me.Username)
	if err != nil {
		return nil, err
	}

	basic, err := api.FetchInto[Basic](ctx, s.client, fmt.Sprintf("/api/patients/user/%d", user.ID))
	if err != nil {
		return nil, err
	}

	return s.GetDetails(ctx, basic.ID)
}

// UpdateProfile rewrites the editable profile fields and returns the
// authoritative record.
func (s *Service) UpdateProfile(ctx context.Context, id int64, b Basic) (*Basic, error) {
	data, err := s.client.Put(ctx, fmt.Sprintf("/api/patients/%d", id), b)
	if err != nil {
		return nil, err
	}
	updated, err := api.Decode[Basic](data)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListForDoctor fetches the doctor's patient roster.
func (s *Service) ListForDoctor(ctx context.Context) ([]Summary, error) {
	return api.FetchInto[[]Summary](ctx, s.client, "/api/doctors/patients")
}

// DetailsForDoctor fetches one patient with history from the doctor's side.
func (s *Service) DetailsForDoctor(ctx context.Context, patientID int64) (*Details, error) {
	d, err := api.FetchInto[Details](ctx, s.client, fmt.Sprintf("/api/doctors/patients/%d", patientID))
	if err != nil {
		return nil, err
	}
	d = Normalize(d)
	return &d, nil
}
