package school

import (
	"reflect"
	"testing"
	"time"

	"github.com/trezcool/pamoja/core/student"
)

func donations(amounts ...float64) []student.Donation {
	dons := make([]student.Donation, 0, len(amounts))
	for i, amt := range amounts {
		dons = append(dons, student.Donation{ID: i + 1, Amount: amt})
	}
	return dons
}

func TestComputeStats(t *testing.T) {
	students := []student.Student{
		{ID: 1, Goal: 100},
		{ID: 2, Goal: 200},
		{ID: 3},
	}

	tests := []struct {
		name               string
		students           []student.Student
		donationsByStudent map[int][]student.Donation
		want               Stats
	}{
		{name: "no students"},
		{
			name:     "students without donations still count",
			students: students,
			want:     Stats{ActiveStudents: 3},
		},
		{
			name:     "totals summed across roster",
			students: students,
			donationsByStudent: map[int][]student.Donation{
				1: donations(30, 40),
				2: donations(50),
			},
			want: Stats{TotalRaised: 120, TotalDonations: 3, ActiveStudents: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStats(tt.students, tt.donationsByStudent); got != tt.want {
				t.Errorf("ComputeStats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRankStudents(t *testing.T) {
	stA := student.Student{ID: 1, FirstName: "A", Goal: 100}
	stB := student.Student{ID: 2, FirstName: "B", Goal: 200}
	byStudent := map[int][]student.Donation{
		1: donations(30, 40),
		2: donations(50),
	}

	t.Run("descending by amount raised", func(t *testing.T) {
		want := []RankedStudent{
			{Student: stA, AmountRaised: 70, GoalProgress: 70},
			{Student: stB, AmountRaised: 50, GoalProgress: 25},
		}
		if got := RankStudents([]student.Student{stA, stB}, byStudent, 10); !reflect.DeepEqual(got, want) {
			t.Errorf("RankStudents() = %+v, want %+v", got, want)
		}
	})

	t.Run("goal progress is not capped", func(t *testing.T) {
		st := student.Student{ID: 1, Goal: 50}
		got := RankStudents([]student.Student{st}, map[int][]student.Donation{1: donations(75)}, 10)
		if got[0].GoalProgress != 150 {
			t.Errorf("GoalProgress = %d, want 150", got[0].GoalProgress)
		}
	})

	t.Run("zero goal yields zero progress", func(t *testing.T) {
		st := student.Student{ID: 1}
		got := RankStudents([]student.Student{st}, map[int][]student.Donation{1: donations(75)}, 10)
		if got[0].GoalProgress != 0 {
			t.Errorf("GoalProgress = %d, want 0", got[0].GoalProgress)
		}
	})

	t.Run("ties keep enrollment order", func(t *testing.T) {
		sts := []student.Student{
			{ID: 1, FirstName: "First"},
			{ID: 2, FirstName: "Second"},
			{ID: 3, FirstName: "Third"},
		}
		byStudent := map[int][]student.Donation{
			1: donations(50),
			2: donations(25, 25),
			3: donations(50),
		}
		got := RankStudents(sts, byStudent, 10)
		for i, st := range sts {
			if got[i].ID != st.ID {
				t.Errorf("rank %d = student %d, want %d", i, got[i].ID, st.ID)
			}
		}
	})

	t.Run("limit truncates", func(t *testing.T) {
		got := RankStudents([]student.Student{stA, stB}, byStudent, 1)
		if len(got) != 1 || got[0].ID != stA.ID {
			t.Errorf("RankStudents() = %+v, want only student %d", got, stA.ID)
		}
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		sts := make([]student.Student, 0, DefaultRankLimit+2)
		for i := 1; i <= DefaultRankLimit+2; i++ {
			sts = append(sts, student.Student{ID: i})
		}
		if got := RankStudents(sts, nil, 0); len(got) != DefaultRankLimit {
			t.Errorf("len(RankStudents()) = %d, want %d", len(got), DefaultRankLimit)
		}
	})
}

func TestUpcomingEvents(t *testing.T) {
	now := time.Now().UTC()
	past := Event{ID: 1, Date: now.Add(-24 * time.Hour)}
	today := Event{ID: 2, Date: now}
	soon := Event{ID: 3, Date: now.Add(24 * time.Hour)}
	later := Event{ID: 4, Date: now.Add(72 * time.Hour)}

	tests := []struct {
		name   string
		events []Event
		n      int
		want   []Event
	}{
		{name: "empty", n: 3, want: []Event{}},
		{name: "past excluded, now included", events: []Event{past, today}, n: 3, want: []Event{today}},
		{name: "ascending by date", events: []Event{later, past, soon}, n: 3, want: []Event{soon, later}},
		{name: "truncated to n", events: []Event{later, today, soon}, n: 2, want: []Event{today, soon}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UpcomingEvents(tt.events, now, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UpcomingEvents() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	createdAt := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "campaign start", now: createdAt, want: 30},
		{name: "mid campaign", now: createdAt.AddDate(0, 0, 12), want: 18},
		{name: "partial day not counted", now: createdAt.Add(36 * time.Hour), want: 29},
		{name: "last day", now: createdAt.AddDate(0, 0, 29), want: 1},
		{name: "campaign end", now: createdAt.AddDate(0, 0, 30), want: 0},
		{name: "clamped at zero", now: createdAt.AddDate(0, 0, 45), want: 0},
		{name: "future creation time never extends the window", now: createdAt.AddDate(0, 0, -5), want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(createdAt, tt.now, 30); got != tt.want {
				t.Errorf("DaysRemaining() = %d, want %d", got, tt.want)
			}
		})
	}
}
