package echoapi

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/pamoja/core"
	"github.com/trezcool/pamoja/core/school"
	"github.com/trezcool/pamoja/core/student"
	"github.com/trezcool/pamoja/core/user"
	emailsvc "github.com/trezcool/pamoja/services/email"
	"github.com/trezcool/pamoja/storage/database/dummydb"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testEnv struct {
	conf        *core.Config
	usrRepo     user.Repository
	schoolRepo  school.Repository
	studentRepo student.Repository
	usrSvc      user.Service
	schoolSvc   school.Service
	studentSvc  student.Service
	server      Server
}

func testConf() *core.Config {
	return &core.Config{
		Env:                       "TEST",
		TestMode:                  true,
		AppName:                   "Pamoja",
		SecretKey:                 []byte("secret"),
		FrontendBaseURL:           "http://localhost:8080",
		CampaignWindowDays:        30,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

type testLogger struct {
	std *log.Logger
}

var _ core.Logger = (*testLogger)(nil)

func (l testLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.print(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.print(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.print(msg, args) }

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	conf := testConf()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrRepo := dummydb.NewUserRepository(db)
	schoolRepo := dummydb.NewSchoolRepository(db)
	studentRepo := dummydb.NewStudentRepository(db)

	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	schoolSvc := school.NewService(schoolRepo, studentRepo, conf)
	studentSvc := student.NewService(studentRepo, schoolSvc, mailSvc, conf)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testLogger{std: log.New(os.Stdout, "TEST : ", log.LstdFlags)},
		UserSvc:    usrSvc,
		SchoolSvc:  schoolSvc,
		StudentSvc: studentSvc,
		Validate:   validate,
		Translator: translator,
	})

	return &testEnv{
		conf:        conf,
		usrRepo:     usrRepo,
		schoolRepo:  schoolRepo,
		studentRepo: studentRepo,
		usrSvc:      usrSvc,
		schoolSvc:   schoolSvc,
		studentSvc:  studentSvc,
		server:      server,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, env *testEnv, usr user.User) string {
	claims := GetUserClaims(env.conf, usr)
	token, err := GenerateToken(env.conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("decodeBody() failed: %v; body: %s", err, rec.Body.String())
	}
}

// seed helpers; they write through the repositories directly.

func createUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func createSchool(
	t *testing.T,
	repo school.Repository,
	ownerID int,
	name, city string,
	goal float64,
	createdAt ...time.Time,
) school.School {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	sch, err := repo.CreateSchool(school.School{
		OwnerID:   ownerID,
		Name:      name,
		City:      city,
		Goal:      goal,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createSchool() failed: %v", err)
	}
	return sch
}

func createStudent(
	t *testing.T,
	repo student.Repository,
	ownerID, schoolID int,
	firstName, lastName, grade string,
	goal float64,
) student.Student {
	st, err := repo.CreateStudent(student.Student{
		OwnerID:   ownerID,
		SchoolID:  schoolID,
		FirstName: firstName,
		LastName:  lastName,
		Grade:     grade,
		Goal:      goal,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return st
}

func createDonation(
	t *testing.T,
	repo student.Repository,
	studentID int,
	donorName string,
	amount float64,
	createdAt ...time.Time,
) student.Donation {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	don, err := repo.CreateDonation(student.Donation{
		StudentID: studentID,
		DonorName: donorName,
		Amount:    amount,
		Reference: "ref",
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createDonation() failed: %v", err)
	}
	return don
}

func createEvent(
	t *testing.T,
	repo school.Repository,
	schoolID int,
	title, location string,
	date time.Time,
) school.Event {
	tstamp := time.Now().UTC()
	evt, err := repo.CreateEvent(school.Event{
		SchoolID:  schoolID,
		Title:     title,
		Location:  location,
		Date:      date.UTC(),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createEvent() failed: %v", err)
	}
	return evt
}
