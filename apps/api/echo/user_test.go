package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/pamoja/core/user"
)

func Test_userApi_login(t *testing.T) {
	env := setup(t)

	usr := createUser(t, env.usrRepo, "Awe", "awe", "awe@test.cd", "S3cret!Pwd", nil, true)
	createUser(t, env.usrRepo, "Naughty", "ndog", "ndog@test.cd", "S3cret!Pwd", nil, false)

	tests := []httpTest{
		{
			name:     "empty body",
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "unknown user",
			body:     []byte(`{"username": "lol", "password": "S3cret!Pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"username": "awe", "password": "nope"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"username": "ndog", "password": "S3cret!Pwd"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login with username", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(`{"username": "awe", "password": "S3cret!Pwd"}`))
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var res LoginResponse
		decodeBody(t, rec, &res)
		if res.Token == "" {
			t.Error("empty token")
		}
	})

	t.Run("login with email", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login", []byte(`{"username": "awe@test.cd", "password": "S3cret!Pwd"}`))
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("login updates last login", func(t *testing.T) {
		refreshed, err := env.usrRepo.GetUserByID(usr.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if refreshed.LastLogin.IsZero() {
			t.Error("LastLogin not set")
		}
	})
}

func Test_userApi_signup(t *testing.T) {
	env := setup(t)

	createUser(t, env.usrRepo, "Taken", "taken", "taken@test.cd", "", nil, true)

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     []byte(`{"email": "new@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":     "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name:     "weak password",
			body:     []byte(`{"name": "New", "email": "new@test.cd", "password": "password"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"password": "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character",
			}),
		},
		{
			name:     "email taken",
			body:     []byte(`{"name": "New", "email": "taken@test.cd", "password": "S3cret!Pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": user.ErrEmailExists.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/signup", tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("signup creates an organizer", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/signup", []byte(`{"name": "New", "email": "new@test.cd", "password": "S3cret!Pwd"}`))
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var usr user.User
		decodeBody(t, rec, &usr)
		if !usr.IsOrganizer() {
			t.Errorf("roles = %v, want organizer", usr.Roles)
		}
		if !usr.IsActive {
			t.Error("new user should be active")
		}
	})
}

func Test_userApi_query(t *testing.T) {
	env := setup(t)

	organizer := createUser(t, env.usrRepo, "Org", "org", "org@test.cd", "", user.OrganizerRoles, true)
	admin := createUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", user.AdminRoles, true)

	tests := []httpTest{
		{
			name:     "anonymous",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "non-admin",
			token:    getToken(t, env, organizer),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "admin",
			token:    getToken(t, env, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []user.User{organizer, admin}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	env := setup(t)

	usr1 := createUser(t, env.usrRepo, "One", "one", "one@test.cd", "", user.OrganizerRoles, true)
	usr2 := createUser(t, env.usrRepo, "Two", "two", "two@test.cd", "", user.OrganizerRoles, true)
	admin := createUser(t, env.usrRepo, "Admin", "admin", "admin@test.cd", "", user.AdminRoles, true)

	tests := []httpTest{
		{
			name:     "own account",
			path:     "/v1/users/1",
			token:    getToken(t, env, usr1),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, usr1),
		},
		{
			name:     "someone else's account",
			path:     "/v1/users/1",
			token:    getToken(t, env, usr2),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "admin can read anyone",
			path:     "/v1/users/2",
			token:    getToken(t, env, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, usr2),
		},
		{
			name:     "unknown user",
			path:     "/v1/users/666",
			token:    getToken(t, env, admin),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	env := setup(t)

	usr := createUser(t, env.usrRepo, "Awe", "awe", "awe@test.cd", "", nil, true)

	t.Run("anonymous", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("authed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, env, usr))
		env.server.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var res LoginResponse
		decodeBody(t, rec, &res)
		if res.Token == "" {
			t.Error("empty token")
		}
	})
}
