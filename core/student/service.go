package student

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core"
)

// dashboardRecentN is the number of recent donations shown on dashboards.
const dashboardRecentN = 5

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrSchoolNotFound = errors.New("school not found")
)

type (
	Repository interface {
		CreateStudent(st Student) (Student, error)
		GetStudentByID(id int) (Student, error)
		QueryStudentsBySchoolID(schoolID int) ([]Student, error)
		CreateDonation(don Donation) (Donation, error)
		QueryDonationsByStudentID(studentID int) ([]Donation, error)
	}

	// SchoolDirectory is the subset of the school side needed to validate enrollment.
	SchoolDirectory interface {
		SchoolExists(id int) error
	}

	Service interface {
		Register(schoolID, ownerID int, ns NewStudent) (Student, error)
		GetByID(id int) (Student, error)
		QueryBySchool(schoolID int) ([]Student, error)
		Donate(studentID int, nd NewDonation) (Donation, error)
		Donations(studentID int) ([]Donation, error)
		Stats(studentID int) (Stats, error)
		Dashboard(studentID int) (Dashboard, error)
	}

	service struct {
		repo    Repository
		schools SchoolDirectory
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, schools SchoolDirectory, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		schools: schools,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Register(schoolID, ownerID int, ns NewStudent) (Student, error) {
	if err := svc.schools.SchoolExists(schoolID); err != nil {
		return Student{}, err
	}

	goal, err := parseOptionalAmount(ns.Goal, "goal")
	if err != nil {
		return Student{}, err
	}

	st := Student{
		OwnerID:   ownerID,
		SchoolID:  schoolID,
		FirstName: core.CleanString(ns.FirstName),
		LastName:  core.CleanString(ns.LastName),
		Grade:     core.CleanString(ns.Grade),
		Goal:      goal,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateStudent(st)
}

func (svc *service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *service) QueryBySchool(schoolID int) ([]Student, error) {
	return svc.repo.QueryStudentsBySchoolID(schoolID)
}

func (svc *service) Donate(studentID int, nd NewDonation) (Donation, error) {
	st, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Donation{}, err
	}

	amount, err := core.ParseAmount(nd.Amount)
	if err != nil {
		return Donation{}, core.NewValidationError(err, core.FieldError{Field: "amount", Error: err.Error()})
	}

	don := Donation{
		StudentID: st.ID,
		DonorName: core.CleanString(nd.DonorName),
		Amount:    amount,
		Reference: uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
	don, err = svc.repo.CreateDonation(don)
	if err != nil {
		return Donation{}, err
	}
	if email := core.CleanString(nd.DonorEmail, true /* lower */); email != "" {
		svc.sendReceiptMail(don, st, email)
	}
	return don, nil
}

func (svc *service) Donations(studentID int) ([]Donation, error) {
	if _, err := svc.repo.GetStudentByID(studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryDonationsByStudentID(studentID)
}

// Stats computes a student's donation aggregate from their full donation set.
func (svc *service) Stats(studentID int) (Stats, error) {
	if _, err := svc.repo.GetStudentByID(studentID); err != nil {
		return Stats{}, err
	}
	donations, err := svc.repo.QueryDonationsByStudentID(studentID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(donations), nil
}

type Dashboard struct {
	Student         Student      `json:"student"`
	Stats           Stats        `json:"stats"`
	GoalProgress    int          `json:"goal_progress"` // capped at 100
	ClassRankings   []GradeGroup `json:"class_rankings"`
	RecentDonations []Donation   `json:"recent_donations"`
}

// Dashboard composes the student dashboard: personal stats, capped goal
// progress, the school's grade rollup ("class rankings") and the school's
// most recent donations.
func (svc *service) Dashboard(studentID int) (Dashboard, error) {
	st, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Dashboard{}, err
	}
	donations, err := svc.repo.QueryDonationsByStudentID(st.ID)
	if err != nil {
		return Dashboard{}, err
	}
	stats := ComputeStats(donations)

	classmates, err := svc.repo.QueryStudentsBySchoolID(st.SchoolID)
	if err != nil {
		return Dashboard{}, err
	}
	donationsByStudent := make(map[int][]Donation, len(classmates))
	for _, cm := range classmates {
		dons, err := svc.repo.QueryDonationsByStudentID(cm.ID)
		if err != nil {
			return Dashboard{}, err
		}
		donationsByStudent[cm.ID] = dons
	}

	// the donation feed is school-wide, not limited to the student
	var all []Donation
	for _, cm := range classmates {
		all = append(all, donationsByStudent[cm.ID]...)
	}

	return Dashboard{
		Student:         st,
		Stats:           stats,
		GoalProgress:    core.CappedPct(stats.TotalRaised, st.Goal),
		ClassRankings:   GradeRollup(classmates, donationsByStudent),
		RecentDonations: RecentDonations(all, dashboardRecentN),
	}, nil
}

func (svc *service) sendReceiptMail(don Donation, st Student, email string) {
	body := fmt.Sprintf(
		"Thank you for supporting %s!\n\n"+
			"Amount: %.2f\nReference: %s\n\n"+
			"Your donation brings %s closer to their fundraising goal.\n",
		st.FullName(), don.Amount, don.Reference, st.FirstName,
	)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:       []mail.Address{{Name: don.DonorName, Address: email}},
		Subject:  "Donation Receipt",
		BodyText: body,
	})
}

func parseOptionalAmount(s, field string) (float64, error) {
	if core.CleanString(s) == "" {
		return 0, nil
	}
	amt, err := core.ParseAmount(s)
	if err != nil {
		return 0, core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return amt, nil
}
