package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppingify/internal/auth"
)

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", auth.CookieName)
	return nil
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/users/register", 0, `{"email":" Test@Test.com ","password":"Password"}`)
	assertOK(t, rec)

	cookie := authCookie(t, rec)
	id, ok := s.tokens.Resolve(cookie.Value)
	require.True(t, ok)
	assert.True(t, cookie.HttpOnly)

	user := s.repo.user(id)
	assert.Equal(t, "test@test.com", user.Email)
	assert.True(t, auth.CheckPasswordHash("Password", user.PasswordHash))
	assert.Empty(t, user.Items)
	assert.Empty(t, user.ShoppingHistory)
	assert.True(t, strings.HasPrefix(user.ActiveShoppingList.Name, "default--"))
	assert.Empty(t, user.ActiveShoppingList.List)
}

func TestRegisterEmailTaken(t *testing.T) {
	s := newTestServer(t)
	s.repo.addUser(t, "test@test.com", "Password")

	rec := s.do(t, http.MethodPost, "/api/users/register", 0, `{"email":"TEST@test.com","password":"Other"}`)
	assertError(t, rec, http.StatusConflict, "Email is already used")
	assert.Empty(t, rec.Result().Cookies())
}

func TestRegisterStoreFailure(t *testing.T) {
	s := newTestServer(t)
	s.repo.saveErr = errDB

	rec := s.do(t, http.MethodPost, "/api/users/register", 0, `{"email":"test@test.com","password":"Password"}`)
	assertError(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestCredentialValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", ``, "Email is not valid"},
		{"missing email", `{"password":"Password"}`, "Email is not valid"},
		{"email not a string", `{"email":12,"password":"Password"}`, "Email is not valid"},
		{"blank email", `{"email":"   ","password":"Password"}`, "Email is not valid"},
		{"no domain", `{"email":"test","password":"Password"}`, "Email is not valid"},
		{"short tld", `{"email":"test@test.c","password":"Password"}`, "Email is not valid"},
		{"email checked first", `{"email":"test","password":""}`, "Email is not valid"},
		{"missing password", `{"email":"test@test.com"}`, "Password is not valid"},
		{"password not a string", `{"email":"test@test.com","password":true}`, "Password is not valid"},
		{"blank password", `{"email":"test@test.com","password":"   "}`, "Password is not valid"},
	}

	for _, path := range []string{"/api/users/register", "/api/users/login"} {
		for _, tt := range tests {
			t.Run(path+" "+tt.name, func(t *testing.T) {
				s := newTestServer(t)
				rec := s.do(t, http.MethodPost, path, 0, tt.body)
				assertError(t, rec, http.StatusBadRequest, tt.want)
			})
		}
	}
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	id := s.repo.addUser(t, "test@test.com", "Password")

	rec := s.do(t, http.MethodPost, "/api/users/login", 0, `{"email":" test@tesT.com","password":"Password"}`)
	assertOK(t, rec)

	got, ok := s.tokens.Resolve(authCookie(t, rec).Value)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	s := newTestServer(t)
	s.repo.addUser(t, "test@test.com", "Password")

	unknown := s.do(t, http.MethodPost, "/api/users/login", 0, `{"email":"other@test.com","password":"Password"}`)
	wrong := s.do(t, http.MethodPost, "/api/users/login", 0, `{"email":"test@test.com","password":"password"}`)

	assertError(t, unknown, http.StatusUnauthorized, "Email or password incorrect")
	assertError(t, wrong, http.StatusUnauthorized, "Email or password incorrect")
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Empty(t, wrong.Result().Cookies())
}

func TestLoginStoreFailure(t *testing.T) {
	s := newTestServer(t)
	s.repo.findErr = errDB

	rec := s.do(t, http.MethodPost, "/api/users/login", 0, `{"email":"test@test.com","password":"Password"}`)
	assertError(t, rec, http.StatusInternalServerError, "Internal server error")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/users/logout", 0, "")
	assertOK(t, rec)

	cookie := authCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
