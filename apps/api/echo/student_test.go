package echoapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/pamoja/core/student"
	"github.com/trezcool/pamoja/core/user"
)

func Test_studentApi_register(t *testing.T) {
	env := setup(t)

	owner := createUser(t, env.usrRepo, "Org", "org", "org@test.cd", "", user.OrganizerRoles, true)
	other := createUser(t, env.usrRepo, "Other", "other", "other@test.cd", "", user.OrganizerRoles, true)
	sch := createSchool(t, env.schoolRepo, owner.ID, "Bumi High", "Goma", 5000)

	path := fmt.Sprintf("/v1/schools/%d/students", sch.ID)
	body := []byte(`{"first_name": "Ami", "last_name": "K", "grade": "3rd", "goal": "100"}`)

	tests := []httpTest{
		{
			name:     "anonymous",
			path:     path,
			body:     body,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "non-owner",
			path:     path,
			body:     body,
			token:    getToken(t, env, other),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "unknown school",
			path:     "/v1/schools/666/students",
			body:     body,
			token:    getToken(t, env, owner),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "missing fields",
			path:     path,
			body:     []byte(`{"first_name": "Ami"}`),
			token:    getToken(t, env, owner),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"last_name": "this field is required",
				"grade":     "this field is required",
			}),
		},
		{
			name:     "invalid goal",
			path:     path,
			body:     []byte(`{"first_name": "Ami", "last_name": "K", "grade": "3rd", "goal": "-5"}`),
			token:    getToken(t, env, owner),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"goal": "a non-negative decimal amount is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("owner enrolls a student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, path, getToken(t, env, owner), body)
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var st student.Student
		decodeBody(t, rec, &st)
		if st.SchoolID != sch.ID {
			t.Errorf("SchoolID = %d, want %d", st.SchoolID, sch.ID)
		}
		if st.Goal != 100 {
			t.Errorf("Goal = %v, want 100", st.Goal)
		}
		if st.FullName() != "Ami K" {
			t.Errorf("FullName() = %q, want %q", st.FullName(), "Ami K")
		}
	})
}

func Test_studentApi_donate(t *testing.T) {
	env := setup(t)

	owner := createUser(t, env.usrRepo, "Org", "org", "org@test.cd", "", user.OrganizerRoles, true)
	sch := createSchool(t, env.schoolRepo, owner.ID, "Bumi High", "Goma", 0)
	st := createStudent(t, env.studentRepo, owner.ID, sch.ID, "Ami", "K", "3rd", 100)

	path := fmt.Sprintf("/v1/students/%d/donations", st.ID)

	tests := []httpTest{
		{
			name:     "missing amount",
			path:     path,
			body:     []byte(`{"donor_name": "Tante"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"amount": "this field is required"}),
		},
		{
			name:     "invalid amount",
			path:     path,
			body:     []byte(`{"donor_name": "Tante", "amount": "ten"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"amount": "a non-negative decimal amount is required"}),
		},
		{
			name:     "invalid donor email",
			path:     path,
			body:     []byte(`{"amount": "10", "donor_email": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"donor_email": "donor_email must be a valid email address"}),
		},
		{
			name:     "unknown student",
			path:     "/v1/students/666/donations",
			body:     []byte(`{"amount": "10"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("anonymous donor", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, path, []byte(`{"donor_name": "Tante", "amount": "25.50"}`))
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var don student.Donation
		decodeBody(t, rec, &don)
		if don.StudentID != st.ID {
			t.Errorf("StudentID = %d, want %d", don.StudentID, st.ID)
		}
		if don.Amount != 25.5 {
			t.Errorf("Amount = %v, want 25.5", don.Amount)
		}
		if don.Reference == "" {
			t.Error("empty reference")
		}
	})

	t.Run("donations listed", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path)
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var dons []student.Donation
		decodeBody(t, rec, &dons)
		if len(dons) != 1 || dons[0].Amount != 25.5 {
			t.Errorf("donations = %+v, want the single 25.5 donation", dons)
		}
	})
}

func Test_studentApi_stats(t *testing.T) {
	env := setup(t)

	owner := createUser(t, env.usrRepo, "Org", "org", "org@test.cd", "", user.OrganizerRoles, true)
	sch := createSchool(t, env.schoolRepo, owner.ID, "Bumi High", "Goma", 0)
	st := createStudent(t, env.studentRepo, owner.ID, sch.ID, "Ami", "K", "3rd", 100)

	path := fmt.Sprintf("/v1/students/%d/stats", st.ID)

	t.Run("no donations", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, student.Stats{})}, rec)
	})

	createDonation(t, env.studentRepo, st.ID, "Tante", 30)
	createDonation(t, env.studentRepo, st.ID, "Oncle", 40)

	t.Run("with donations", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, student.Stats{TotalRaised: 70, TotalDonations: 2, LargestDonation: 40, AverageDonation: 35}),
		}, rec)
	})
}

func Test_studentApi_dashboard(t *testing.T) {
	env := setup(t)

	now := time.Now().UTC()
	owner := createUser(t, env.usrRepo, "Org", "org", "org@test.cd", "", user.OrganizerRoles, true)
	stuUsr := createUser(t, env.usrRepo, "Ami", "ami", "ami@test.cd", "", user.StudentRoles, true)
	stranger := createUser(t, env.usrRepo, "Other", "other", "other@test.cd", "", user.OrganizerRoles, true)

	sch := createSchool(t, env.schoolRepo, owner.ID, "Bumi High", "Goma", 5000)
	stA := createStudent(t, env.studentRepo, stuUsr.ID, sch.ID, "Ami", "K", "3rd", 100)
	stB := createStudent(t, env.studentRepo, owner.ID, sch.ID, "Ben", "M", "4th", 200)
	createDonation(t, env.studentRepo, stA.ID, "Tante", 30, now.Add(-1*time.Hour))
	donNew := createDonation(t, env.studentRepo, stA.ID, "Oncle", 40, now)
	donClassmate := createDonation(t, env.studentRepo, stB.ID, "Papa", 50, now.Add(-30*time.Minute))

	path := fmt.Sprintf("/v1/students/%d/dashboard", stA.ID)

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, path)
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("stranger", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, env, stranger))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})}, rec)
	})

	check := func(t *testing.T, token string) {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var dash student.Dashboard
		decodeBody(t, rec, &dash)

		if dash.Student.ID != stA.ID {
			t.Errorf("Student.ID = %d, want %d", dash.Student.ID, stA.ID)
		}
		if want := (student.Stats{TotalRaised: 70, TotalDonations: 2, LargestDonation: 40, AverageDonation: 35}); dash.Stats != want {
			t.Errorf("Stats = %+v, want %+v", dash.Stats, want)
		}
		if dash.GoalProgress != 70 {
			t.Errorf("GoalProgress = %d, want 70", dash.GoalProgress)
		}
		// school total 120: 3rd raised 70 (58%), 4th raised 50 (42%)
		if len(dash.ClassRankings) != 2 ||
			dash.ClassRankings[0].Grade != "3rd" || dash.ClassRankings[0].Percentage != 58 ||
			dash.ClassRankings[1].Grade != "4th" || dash.ClassRankings[1].Percentage != 42 {
			t.Errorf("ClassRankings = %+v", dash.ClassRankings)
		}
		// the donation feed is school-wide: classmates' donations included, newest first
		if len(dash.RecentDonations) != 3 ||
			dash.RecentDonations[0].ID != donNew.ID ||
			dash.RecentDonations[1].ID != donClassmate.ID {
			t.Errorf("RecentDonations = %+v, want [%d, %d, ...]", dash.RecentDonations, donNew.ID, donClassmate.ID)
		}
	}

	t.Run("student owner", func(t *testing.T) { check(t, getToken(t, env, stuUsr)) })
	t.Run("school owner", func(t *testing.T) { check(t, getToken(t, env, owner)) })
}
