package student

import (
	"sort"

	"github.com/trezcool/pamoja/core"
)

// Stats is a student's derived donation aggregate. All fields are computed
// fresh on every call; nothing is cached or persisted.
type Stats struct {
	TotalRaised     float64 `json:"total_raised"`
	TotalDonations  int     `json:"total_donations"`
	LargestDonation float64 `json:"largest_donation"`
	AverageDonation float64 `json:"average_donation"`
}

// ComputeStats derives donation stats from a student's donation set.
// A student with no donations yields all-zero stats; this is not an error.
func ComputeStats(donations []Donation) Stats {
	var stats Stats
	for _, don := range donations {
		stats.TotalRaised += don.Amount
		if don.Amount > stats.LargestDonation {
			stats.LargestDonation = don.Amount
		}
	}
	stats.TotalDonations = len(donations)
	if stats.TotalDonations > 0 {
		stats.AverageDonation = stats.TotalRaised / float64(stats.TotalDonations)
	}
	return stats
}

// GradeGroup is one grade label's share of a school's total.
type GradeGroup struct {
	Grade       string  `json:"grade"`
	TotalRaised float64 `json:"total_raised"`
	Percentage  int     `json:"percentage"`
}

// GradeRollup partitions a school's students by grade label and sums each
// group's raised total. Percentage is each group's share of the school total,
// 0 for every group when the school total is 0. Groups are sorted descending
// by TotalRaised; ties keep first-appearance order.
func GradeRollup(students []Student, donationsByStudent map[int][]Donation) []GradeGroup {
	var (
		order  []string
		totals = make(map[string]float64)
	)
	for _, st := range students {
		if _, ok := totals[st.Grade]; !ok {
			order = append(order, st.Grade)
		}
		totals[st.Grade] += ComputeStats(donationsByStudent[st.ID]).TotalRaised
	}

	var schoolTotal float64
	for _, t := range totals {
		schoolTotal += t
	}

	groups := make([]GradeGroup, 0, len(order))
	for _, grade := range order {
		groups = append(groups, GradeGroup{
			Grade:       grade,
			TotalRaised: totals[grade],
			Percentage:  core.RoundPct(totals[grade], schoolTotal),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].TotalRaised > groups[j].TotalRaised })
	return groups
}

// RecentDonations sorts donations descending by creation time and keeps the
// first n. The input slice is not modified.
func RecentDonations(donations []Donation, n int) []Donation {
	recent := make([]Donation, len(donations))
	copy(recent, donations)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}
