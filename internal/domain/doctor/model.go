package doctor

import "strings"

// LeaveStatus is the leave-request review lifecycle.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// NormalizeLeaveStatus maps raw server values onto the enumeration,
// defaulting to pending.
func NormalizeLeaveStatus(raw string) LeaveStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "approved":
		return LeaveApproved
	case "rejected":
		return LeaveRejected
	default:
		return LeavePending
	}
}

// Doctor is the profile card the doctor workspace shows.
type Doctor struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Intro      string `json:"introduction,omitempty"`
}

// WorkingHour is one weekday row of a doctor's schedule settings.
type WorkingHour struct {
	Weekday   int    `json:"weekday"`
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// LeaveRequest is a doctor's leave application.
type LeaveRequest struct {
	ID        int64       `json:"id"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Reason    string      `json:"reason,omitempty"`
	Status    LeaveStatus `json:"status"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// Task is a workspace to-do item.
type Task struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Time    string `json:"time,omitempty"`
	Done    bool   `json:"done"`
	Urgency string `json:"urgency,omitempty"`
}

// Notification is a workspace inbox entry.
type Notification struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Time    string `json:"time,omitempty"`
	Read    bool   `json:"read"`
}

const defaultAvatar = "/files/Default.gif"

// NormalizeAvatar canonicalizes avatar references. The server stores bare
// filenames, older records carry full /files/ paths, and imported profiles
// may hold absolute URLs; all three must render.
func NormalizeAvatar(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultAvatar
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "/files/") {
		return raw
	}
	return "/files/" + strings.TrimPrefix(raw, "/")
}

// Normalize canonicalizes a decoded doctor profile.
func Normalize(d Doctor) Doctor {
	d.Avatar = NormalizeAvatar(d.Avatar)
	return d
}

// NormalizeLeaves canonicalizes every status in a decoded leave list.
func NormalizeLeaves(items []LeaveRequest) []LeaveRequest {
	for i, l := range items {
		items[i].Status = NormalizeLeaveStatus(string(l.Status))
	}
	return items
}
