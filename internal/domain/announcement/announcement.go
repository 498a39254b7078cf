// Package announcement covers hospital-wide notices: the admin authoring
// panel and the dashboard feed.
package announcement

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

// Status is the publication lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusUpcoming  Status = "upcoming"
)

// NormalizeStatus maps raw server values onto the enumeration. Older
// records store the Chinese display strings directly.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "published", "已发布":
		return StatusPublished
	case "upcoming", "预告":
		return StatusUpcoming
	default:
		return StatusDraft
	}
}

// Label returns the display string.
func (s Status) Label() string {
	switch s {
	case StatusPublished:
		return "已发布"
	case StatusUpcoming:
		return "预告"
	default:
		return "草稿"
	}
}

// Announcement is one notice.
type Announcement struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
	Status      Status `json:"status"`
	Audience    string `json:"audience,omitempty"`
	PublishTime string `json:"publishTime,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// Service performs announcement data access. The feed is a degrading view;
// authoring writes never degrade.
type Service struct {
	client *api.Client
	mode   fallback.Mode
	logger zerolog.Logger
}

func NewService(client *api.Client, mode fallback.Mode, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		mode:   mode,
		logger: logger.With().Str("component", "announcement").Logger(),
	}
}

// List fetches every notice. Degrading view.
func (s *Service) List(ctx context.Context) ([]Announcement, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Announcement, error) {
			items, err := api.FetchInto[[]Announcement](ctx, s.client, "/api/announcements")
			if err != nil {
				return nil, err
			}
			for i, a := range items {
				items[i].Status = NormalizeStatus(string(a.Status))
			}
			return items, nil
		},
		FallbackAnnouncements,
	)
}

// Published filters the feed down to live notices.
func (s *Service) Published(ctx context.Context) ([]Announcement, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	live := items[:0]
	for _, a := range items {
		if a.Status == StatusPublished {
			live = append(live, a)
		}
	}
	return live, nil
}

// Create files a new notice.
func (s *Service) Create(ctx context.Context, a Announcement) (*Announcement, error) {
	data, err := s.client.Post(ctx, "/api/announcements", a)
	if err != nil {
		return nil, err
	}
	created, err := api.Decode[Announcement](data)
	if err != nil {
		return nil, err
	}
	created.Status = NormalizeStatus(string(created.Status))
	return &created, nil
}

// Update rewrites a notice.
func (s *Service) Update(ctx context.Context, a Announcement) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/api/announcements/%d", a.ID), a)
	return err
}

// Delete removes a notice.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/announcements/%d", id))
	return err
}

// FallbackAnnouncements is the offline feed.
func FallbackAnnouncements() []Announcement {
	return []Announcement{
		{ID: 1, Title: "冬季流感接诊指引", Status: StatusPublished, Audience: "全院 · 6 科室", Owner: "陆晚舟"},
		{ID: 2, Title: "急诊绿色通道演练", Status: StatusUpcoming, Audience: "儿科、骨科", Owner: "陈俊"},
		{ID: 3, Title: "夜间值班临时调整", Status: StatusDraft, Audience: "内科、外科", Owner: "沈意"},
		{ID: 4, Title: "设备巡检计划", Status: StatusPublished, Audience: "全院", Owner: "王若初"},
	}
}
