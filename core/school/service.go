package school

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core"
	"github.com/trezcool/pamoja/core/student"
)

const (
	// dashboard composition sizes
	dashboardTopN    = 5
	dashboardRecentN = 5
	dashboardEventsN = 3
)

var (
	// errors
	ErrNotFound      = errors.New("school not found")
	ErrEventNotFound = errors.New("event not found")
	ErrSchoolExists  = errors.New("this account already has a registered school")
)

type (
	Repository interface {
		CreateSchool(sch School) (School, error)
		GetSchoolByID(id int) (School, error)
		GetSchoolByOwnerID(ownerID int) (School, error)
		QueryAllSchools() ([]School, error)
		CreateEvent(evt Event) (Event, error)
		GetEventByID(id int) (Event, error)
		QueryEventsBySchoolID(schoolID int) ([]Event, error)
		UpdateEvent(evt Event) (Event, error)
		DeleteEventByID(id int) error
	}

	// Roster is the student-side data the school aggregations read.
	// student.Repository satisfies it.
	Roster interface {
		QueryStudentsBySchoolID(schoolID int) ([]student.Student, error)
		QueryDonationsByStudentID(studentID int) ([]student.Donation, error)
	}

	Service interface {
		Create(ownerID int, ns NewSchool) (School, error)
		GetByID(id int) (School, error)
		GetByOwnerID(ownerID int) (School, error)
		QueryAll() ([]School, error)
		SchoolExists(id int) error

		Stats(schoolID int) (Stats, error)
		TopStudents(schoolID, limit int) ([]RankedStudent, error)
		Dashboard(schoolID int) (Dashboard, error)
		PublicPage(schoolID int) (PublicPage, error)

		CreateEvent(schoolID int, ne NewEvent) (Event, error)
		GetEvent(eventID int) (Event, error)
		UpdateEvent(eventID int, ue UpdateEvent) (Event, error)
		DeleteEvent(eventID int) error
		UpcomingEvents(schoolID int) ([]Event, error)
	}

	service struct {
		repo   Repository
		roster Roster
		conf   *core.Config
	}
)

var (
	_ Service                 = (*service)(nil)
	_ student.SchoolDirectory = (*service)(nil)
)

func NewService(repo Repository, roster Roster, conf *core.Config) Service {
	return &service{
		repo:   repo,
		roster: roster,
		conf:   conf,
	}
}

func (svc *service) Create(ownerID int, ns NewSchool) (School, error) {
	if _, err := svc.repo.GetSchoolByOwnerID(ownerID); err == nil {
		return School{}, core.NewValidationError(ErrSchoolExists)
	} else if errors.Cause(err) != ErrNotFound {
		return School{}, err
	}

	var goal float64
	if core.CleanString(ns.Goal) != "" {
		var err error
		if goal, err = core.ParseAmount(ns.Goal); err != nil {
			return School{}, core.NewValidationError(err, core.FieldError{Field: "goal", Error: err.Error()})
		}
	}

	sch := School{
		OwnerID:   ownerID,
		Name:      core.CleanString(ns.Name),
		City:      core.CleanString(ns.City),
		Goal:      goal,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateSchool(sch)
}

func (svc *service) GetByID(id int) (School, error) {
	return svc.repo.GetSchoolByID(id)
}

func (svc *service) GetByOwnerID(ownerID int) (School, error) {
	return svc.repo.GetSchoolByOwnerID(ownerID)
}

func (svc *service) QueryAll() ([]School, error) {
	return svc.repo.QueryAllSchools()
}

func (svc *service) SchoolExists(id int) error {
	if _, err := svc.repo.GetSchoolByID(id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return student.ErrSchoolNotFound
		}
		return err
	}
	return nil
}

// donationsByStudent fetches each student's donation set sequentially in
// enumeration order so downstream ordering stays deterministic.
func (svc *service) donationsByStudent(students []student.Student) (map[int][]student.Donation, error) {
	byStudent := make(map[int][]student.Donation, len(students))
	for _, st := range students {
		dons, err := svc.roster.QueryDonationsByStudentID(st.ID)
		if err != nil {
			return nil, err
		}
		byStudent[st.ID] = dons
	}
	return byStudent, nil
}

func (svc *service) rosterWithDonations(schoolID int) ([]student.Student, map[int][]student.Donation, error) {
	students, err := svc.roster.QueryStudentsBySchoolID(schoolID)
	if err != nil {
		return nil, nil, err
	}
	byStudent, err := svc.donationsByStudent(students)
	if err != nil {
		return nil, nil, err
	}
	return students, byStudent, nil
}

func (svc *service) Stats(schoolID int) (Stats, error) {
	if _, err := svc.repo.GetSchoolByID(schoolID); err != nil {
		return Stats{}, err
	}
	students, byStudent, err := svc.rosterWithDonations(schoolID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(students, byStudent), nil
}

func (svc *service) TopStudents(schoolID, limit int) ([]RankedStudent, error) {
	if _, err := svc.repo.GetSchoolByID(schoolID); err != nil {
		return nil, err
	}
	students, byStudent, err := svc.rosterWithDonations(schoolID)
	if err != nil {
		return nil, err
	}
	return RankStudents(students, byStudent, limit), nil
}

type Dashboard struct {
	School          School             `json:"school"`
	Stats           Stats              `json:"stats"`
	GoalProgress    int                `json:"goal_progress"` // capped at 100
	DaysRemaining   int                `json:"days_remaining"`
	TopStudents     []RankedStudent    `json:"top_students"`
	RecentDonations []student.Donation `json:"recent_donations"`
	UpcomingEvents  []Event            `json:"upcoming_events"`
}

// PublicPage is the dashboard shape shown to anonymous visitors; it omits
// the owner-only donation feed.
type PublicPage struct {
	School         School          `json:"school"`
	Stats          Stats           `json:"stats"`
	GoalProgress   int             `json:"goal_progress"` // capped at 100
	DaysRemaining  int             `json:"days_remaining"`
	TopStudents    []RankedStudent `json:"top_students"`
	UpcomingEvents []Event         `json:"upcoming_events"`
}

func (svc *service) Dashboard(schoolID int) (Dashboard, error) {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return Dashboard{}, err
	}
	students, byStudent, err := svc.rosterWithDonations(schoolID)
	if err != nil {
		return Dashboard{}, err
	}
	events, err := svc.repo.QueryEventsBySchoolID(schoolID)
	if err != nil {
		return Dashboard{}, err
	}

	var all []student.Donation
	for _, st := range students {
		all = append(all, byStudent[st.ID]...)
	}

	now := time.Now().UTC()
	stats := ComputeStats(students, byStudent)
	return Dashboard{
		School:          sch,
		Stats:           stats,
		GoalProgress:    core.CappedPct(stats.TotalRaised, sch.Goal),
		DaysRemaining:   DaysRemaining(sch.CreatedAt, now, svc.conf.CampaignWindowDays),
		TopStudents:     RankStudents(students, byStudent, dashboardTopN),
		RecentDonations: student.RecentDonations(all, dashboardRecentN),
		UpcomingEvents:  UpcomingEvents(events, now, dashboardEventsN),
	}, nil
}

func (svc *service) PublicPage(schoolID int) (PublicPage, error) {
	dash, err := svc.Dashboard(schoolID)
	if err != nil {
		return PublicPage{}, err
	}
	return PublicPage{
		School:         dash.School,
		Stats:          dash.Stats,
		GoalProgress:   dash.GoalProgress,
		DaysRemaining:  dash.DaysRemaining,
		TopStudents:    dash.TopStudents,
		UpcomingEvents: dash.UpcomingEvents,
	}, nil
}

func (svc *service) CreateEvent(schoolID int, ne NewEvent) (Event, error) {
	if _, err := svc.repo.GetSchoolByID(schoolID); err != nil {
		return Event{}, err
	}
	now := time.Now().UTC()
	evt := Event{
		SchoolID:  schoolID,
		Title:     core.CleanString(ne.Title),
		Location:  core.CleanString(ne.Location),
		Date:      ne.Date.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateEvent(evt)
}

func (svc *service) GetEvent(eventID int) (Event, error) {
	return svc.repo.GetEventByID(eventID)
}

func (svc *service) UpdateEvent(eventID int, ue UpdateEvent) (Event, error) {
	evt, err := svc.repo.GetEventByID(eventID)
	if err != nil {
		return Event{}, err
	}
	if ue.Title != nil {
		evt.Title = core.CleanString(*ue.Title)
	}
	if ue.Location != nil {
		evt.Location = core.CleanString(*ue.Location)
	}
	if ue.Date != nil {
		evt.Date = ue.Date.UTC()
	}
	evt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(evt)
}

func (svc *service) DeleteEvent(eventID int) error {
	if _, err := svc.repo.GetEventByID(eventID); err != nil {
		return err
	}
	return svc.repo.DeleteEventByID(eventID)
}

func (svc *service) UpcomingEvents(schoolID int) ([]Event, error) {
	if _, err := svc.repo.GetSchoolByID(schoolID); err != nil {
		return nil, err
	}
	events, err := svc.repo.QueryEventsBySchoolID(schoolID)
	if err != nil {
		return nil, err
	}
	return UpcomingEvents(events, time.Now().UTC(), dashboardEventsN), nil
}
