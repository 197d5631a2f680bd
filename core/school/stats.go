package school

import (
	"sort"
	"time"

	"github.com/trezcool/pamoja/core"
	"github.com/trezcool/pamoja/core/student"
)

// DefaultRankLimit is the top-performer count returned when the caller does
// not ask for a specific limit.
const DefaultRankLimit = 10

// Stats is a school's derived donation aggregate. ActiveStudents counts
// enrollment; there is no activity filter.
type Stats struct {
	TotalRaised    float64 `json:"total_raised"`
	TotalDonations int     `json:"total_donations"`
	ActiveStudents int     `json:"active_students"`
}

// ComputeStats derives a school's stats from its student roster and each
// student's donation set. A school with no students yields all-zero stats.
func ComputeStats(students []student.Student, donationsByStudent map[int][]student.Donation) Stats {
	var stats Stats
	for _, st := range students {
		for _, don := range donationsByStudent[st.ID] {
			stats.TotalRaised += don.Amount
			stats.TotalDonations++
		}
	}
	stats.ActiveStudents = len(students)
	return stats
}

// RankedStudent is a student annotated with their raised total and goal
// progress. GoalProgress here is NOT capped at 100; dashboards cap their own
// goal-progress figures independently.
type RankedStudent struct {
	student.Student
	AmountRaised float64 `json:"amount_raised"`
	GoalProgress int     `json:"goal_progress"`
}

// RankStudents ranks a school's students descending by amount raised and
// keeps the first limit entries. The sort is stable: students with equal
// totals keep their enumeration order.
func RankStudents(students []student.Student, donationsByStudent map[int][]student.Donation, limit int) []RankedStudent {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	ranked := make([]RankedStudent, 0, len(students))
	for _, st := range students {
		stats := student.ComputeStats(donationsByStudent[st.ID])
		ranked = append(ranked, RankedStudent{
			Student:      st,
			AmountRaised: stats.TotalRaised,
			GoalProgress: core.RoundPct(stats.TotalRaised, st.Goal),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].AmountRaised > ranked[j].AmountRaised })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// UpcomingEvents keeps events dated now or later, ascending by date, first n.
// The input slice is not modified.
func UpcomingEvents(events []Event, now time.Time, n int) []Event {
	upcoming := make([]Event, 0, len(events))
	for _, evt := range events {
		if !evt.Date.Before(now) {
			upcoming = append(upcoming, evt)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	if len(upcoming) > n {
		upcoming = upcoming[:n]
	}
	return upcoming
}

// DaysRemaining returns the days left in a school's campaign: a fixed window
// counted from the school's creation date, clamped at 0. There is no
// persisted campaign end date.
func DaysRemaining(createdAt, now time.Time, windowDays int) int {
	elapsed := int(now.Sub(createdAt).Hours() / 24)
	if elapsed < 0 { // future-dated creation time never extends the window
		elapsed = 0
	}
	if remaining := windowDays - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}
