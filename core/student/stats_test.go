package student

import (
	"reflect"
	"testing"
	"time"
)

func donations(amounts ...float64) []Donation {
	dons := make([]Donation, 0, len(amounts))
	for i, amt := range amounts {
		dons = append(dons, Donation{ID: i + 1, Amount: amt})
	}
	return dons
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name      string
		donations []Donation
		want      Stats
	}{
		{name: "no donations"},
		{name: "nil donations", donations: nil},
		{
			name:      "single donation",
			donations: donations(50),
			want:      Stats{TotalRaised: 50, TotalDonations: 1, LargestDonation: 50, AverageDonation: 50},
		},
		{
			name:      "multiple donations",
			donations: donations(30, 40),
			want:      Stats{TotalRaised: 70, TotalDonations: 2, LargestDonation: 40, AverageDonation: 35},
		},
		{
			name:      "largest not last",
			donations: donations(10, 80, 25, 5),
			want:      Stats{TotalRaised: 120, TotalDonations: 4, LargestDonation: 80, AverageDonation: 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStats(tt.donations); got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGradeRollup(t *testing.T) {
	students := []Student{
		{ID: 1, Grade: "3rd"},
		{ID: 2, Grade: "4th"},
		{ID: 3, Grade: "3rd"},
		{ID: 4, Grade: "5th"},
	}

	tests := []struct {
		name               string
		students           []Student
		donationsByStudent map[int][]Donation
		want               []GradeGroup
	}{
		{name: "no students", want: []GradeGroup{}},
		{
			name:     "no donations keeps first-appearance order",
			students: students,
			want: []GradeGroup{
				{Grade: "3rd"},
				{Grade: "4th"},
				{Grade: "5th"},
			},
		},
		{
			name:     "grades sorted descending by total",
			students: students,
			donationsByStudent: map[int][]Donation{
				1: donations(10),
				2: donations(60),
				3: donations(30),
				4: {},
			},
			want: []GradeGroup{
				{Grade: "4th", TotalRaised: 60, Percentage: 60},
				{Grade: "3rd", TotalRaised: 40, Percentage: 40},
				{Grade: "5th", TotalRaised: 0, Percentage: 0},
			},
		},
		{
			name:     "ties keep first-appearance order",
			students: students,
			donationsByStudent: map[int][]Donation{
				1: donations(50),
				2: donations(25, 25),
				4: donations(50),
			},
			want: []GradeGroup{
				{Grade: "3rd", TotalRaised: 50, Percentage: 33},
				{Grade: "4th", TotalRaised: 50, Percentage: 33},
				{Grade: "5th", TotalRaised: 50, Percentage: 33},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeRollup(tt.students, tt.donationsByStudent); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GradeRollup() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecentDonations(t *testing.T) {
	now := time.Now().UTC()
	d1 := Donation{ID: 1, Amount: 10, CreatedAt: now.Add(-3 * time.Hour)}
	d2 := Donation{ID: 2, Amount: 20, CreatedAt: now.Add(-1 * time.Hour)}
	d3 := Donation{ID: 3, Amount: 30, CreatedAt: now.Add(-2 * time.Hour)}

	tests := []struct {
		name      string
		donations []Donation
		n         int
		want      []Donation
	}{
		{name: "empty", n: 5, want: []Donation{}},
		{name: "newest first", donations: []Donation{d1, d2, d3}, n: 5, want: []Donation{d2, d3, d1}},
		{name: "truncated to n", donations: []Donation{d1, d2, d3}, n: 2, want: []Donation{d2, d3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecentDonations(tt.donations, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecentDonations() = %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("input not modified", func(t *testing.T) {
		in := []Donation{d1, d2, d3}
		RecentDonations(in, 2)
		if !reflect.DeepEqual(in, []Donation{d1, d2, d3}) {
			t.Errorf("RecentDonations() modified its input: %+v", in)
		}
	})
}
