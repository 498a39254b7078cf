package doctor

import "testing"

func TestNormalizeAvatar(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"", "/files/Default.gif"},
		{"  ", "/files/Default.gif"},
		{"li.png", "/files/li.png"},
		{"/li.png", "/files/li.png"},
		{"/files/li.png", "/files/li.png"},
		{"http://cdn.example.com/li.png", "http://cdn.example.com/li.png"},
		{"https://cdn.example.com/li.png", "https://cdn.example.com/li.png"},
	}
	for _, c := range cases {
		if got := NormalizeAvatar(c.raw); got != c.want {
			t.Errorf("NormalizeAvatar(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeLeaveStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want LeaveStatus
	}{
		{"APPROVED", LeaveApproved},
		{" rejected ", LeaveRejected},
		{"pending", LeavePending},
		{"", LeavePending},
		{"whatever", LeavePending},
	}
	for _, c := range cases {
		if got := NormalizeLeaveStatus(c.raw); got != c.want {
			t.Errorf("NormalizeLeaveStatus(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestFallbackWorkingHours_WeekdaysOnly(t *testing.T) {
	hours := FallbackWorkingHours()
	if len(hours) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(hours))
	}
	for _, h := range hours {
		if want := h.Weekday <= 5; h.Enabled != want {
			t.Errorf("weekday %d enabled=%v", h.Weekday, h.Enabled)
		}
	}
}
