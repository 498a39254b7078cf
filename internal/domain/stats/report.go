package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/hospreg/hospreg/internal/domain/registration"
)

// TimeRange selects the report window and its bucketing.
type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

var weekdayLabels = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Per-visit assumptions the backend does not provide. The report charts
// need consistent placeholders, not live billing data.
const (
	assumedVisitMinutes = 20
	assumedVisitFee     = 100
)

// satisfactionShares and ageShares are fixed proportions of the window's
// registration count.
var satisfactionShares = []struct {
	rating int
	share  float64
}{
	{5, 0.7}, {4, 0.2}, {3, 0.08}, {2, 0.01}, {1, 0.01},
}

var ageShares = []struct {
	rng   string
	share float64
}{
	{"0-18", 0.15}, {"19-30", 0.25}, {"31-45", 0.2}, {"46-60", 0.25}, {"60+", 0.15},
}

// BuildReport aggregates the doctor's registrations into the chart bundle
// for one time range, anchored on now. Registrations with unparseable
// appointment times are skipped.
func BuildReport(regs []registration.Registration, rng TimeRange, now time.Time) Report {
	start := windowStart(rng, now)

	var window []time.Time
	var deptNames []string
	for _, r := range regs {
		at, ok := parseAppointment(r.AppointmentTime)
		if !ok || at.Before(start) || at.After(now) {
			continue
		}
		window = append(window, at)
		deptNames = append(deptNames, r.DepartmentName())
	}

	return Report{
		Workload:        workload(window, rng, now),
		Departments:     departments(deptNames),
		Satisfaction:    satisfaction(len(window)),
		Income:          income(window, rng, now),
		AgeDistribution: ages(len(window)),
	}
}

func windowStart(rng TimeRange, now time.Time) time.Time {
	y, m, d := now.Date()
	switch rng {
	case RangeWeek:
		// Week buckets start on Sunday, matching the weekday labels.
		return time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	case RangeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
}

func parseAppointment(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func workload(window []time.Time, rng TimeRange, now time.Time) []WorkloadPoint {
	counts := map[string]int{}
	for _, at := range window {
		counts[bucketKey(at, rng)]++
	}

	point := func(key string) WorkloadPoint {
		n := counts[key]
		avg := 0
		if n > 0 {
			avg = assumedVisitMinutes
		}
		return WorkloadPoint{Date: key, Count: n, AvgDuration: avg}
	}

	switch rng {
	case RangeDay:
		points := make([]WorkloadPoint, 0, 24)
		for h := 0; h < 24; h++ {
			points = append(points, point(fmt.Sprintf("%02d:00", h)))
		}
		return points
	case RangeWeek:
		points := make([]WorkloadPoint, 0, 7)
		for _, day := range weekdayLabels {
			points = append(points, point(day))
		}
		return points
	default:
		if len(counts) == 0 {
			return []WorkloadPoint{{Date: now.Format("2006-01-02")}}
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		points := make([]WorkloadPoint, 0, len(keys))
		for _, k := range keys {
			points = append(points, point(k))
		}
		return points
	}
}

func bucketKey(at time.Time, rng TimeRange) string {
	switch rng {
	case RangeDay:
		return fmt.Sprintf("%02d:00", at.Hour())
	case RangeWeek:
		return weekdayLabels[int(at.Weekday())]
	default:
		return at.Format("2006-01-02")
	}
}

func departments(names []string) []DepartmentCount {
	counts := map[string]int{}
	for _, n := range names {
		counts[n]++
	}
	out := make([]DepartmentCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, DepartmentCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func satisfaction(total int) []SatisfactionShare {
	out := make([]SatisfactionShare, 0, len(satisfactionShares))
	for _, s := range satisfactionShares {
		out = append(out, SatisfactionShare{Rating: s.rating, Count: int(float64(total) * s.share)})
	}
	return out
}

func income(window []time.Time, rng TimeRange, now time.Time) []IncomePoint {
	switch rng {
	case RangeWeek:
		sunday := windowStart(RangeWeek, now)
		points := make([]IncomePoint, 0, 7)
		for i := 0; i < 7; i++ {
			day := sunday.AddDate(0, 0, i)
			key := day.Format("2006-01-02")
			n := 0
			for _, at := range window {
				if at.Format("2006-01-02") == key {
					n++
				}
			}
			points = append(points, IncomePoint{Period: key, Amount: n * assumedVisitFee})
		}
		return points
	case RangeMonth:
		return []IncomePoint{{Period: now.Format("2006-01"), Amount: len(window) * assumedVisitFee}}
	default:
		return []IncomePoint{{Period: now.Format("2006-01-02"), Amount: len(window) * assumedVisitFee}}
	}
}

func ages(total int) []AgeShare {
	out := make([]AgeShare, 0, len(ageShares))
	for _, a := range ageShares {
		out = append(out, AgeShare{Range: a.rng, Count: int(float64(total) * a.share)})
	}
	return out
}
