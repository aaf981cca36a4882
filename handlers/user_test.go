package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"roame/middleware"
	"roame/models"
	"roame/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Signup(ctx context.Context, req user.SignupRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockUsers) VerifyOTP(ctx context.Context, email, otp string) (*user.AuthResponse, error) {
	args := m.Called(email, otp)
	r, _ := args.Get(0).(*user.AuthResponse)
	return r, args.Error(1)
}

func (m *mockUsers) ResendOTP(ctx context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *mockUsers) Login(ctx context.Context, username, password string) (*user.AuthResponse, error) {
	args := m.Called(username, password)
	r, _ := args.Get(0).(*user.AuthResponse)
	return r, args.Error(1)
}

func (m *mockUsers) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) Dashboard(ctx context.Context, userID string) (*user.Dashboard, error) {
	args := m.Called(userID)
	d, _ := args.Get(0).(*user.Dashboard)
	return d, args.Error(1)
}

func userRouter(svc user.UserService) *gin.Engine {
	h := &UserHandler{UserService: svc}
	r := gin.New()
	r.POST("/signup", h.SignupHandler)
	r.POST("/verify-otp", h.VerifyOTPHandler)
	r.POST("/resend-otp", h.ResendOTPHandler)
	r.POST("/login", h.LoginHandler)
	r.GET("/logout", h.LogoutHandler)
	r.GET("/dashboard", withUser("u1"), h.DashboardHandler)
	return r
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	svc := &mockUsers{}
	svc.On("Login", "asha", "Secret123").Return(&user.AuthResponse{ID: "u1", Token: "tok"}, nil)

	w := postJSON(t, userRouter(svc), "/login", map[string]string{"username": "asha", "password": "Secret123"})

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestVerifyOTPSetsSessionCookie(t *testing.T) {
	svc := &mockUsers{}
	svc.On("VerifyOTP", "asha@example.com", "123456").Return(&user.AuthResponse{ID: "u1", Token: "tok"}, nil)

	w := postJSON(t, userRouter(svc), "/verify-otp", map[string]string{"email": "asha@example.com", "otp": "123456"})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sessionCookie(w))
}

func TestLogoutClearsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	userRouter(&mockUsers{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestUserErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"input", user.InputError{Message: "Password too weak"}, http.StatusBadRequest, "Password too weak"},
		{"taken", user.ErrEmailTaken, http.StatusBadRequest, user.ErrEmailTaken.Error()},
		{"internal", errors.New("mongo down"), http.StatusInternalServerError, "Something went wrong. Please try again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := user.SignupRequest{Username: "asha", Email: "asha@example.com", Password: "x"}
			svc := &mockUsers{}
			svc.On("Signup", req).Return(tc.err)

			w := postJSON(t, userRouter(svc), "/signup", req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, decode(t, w)["error"])
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := &mockUsers{}
	svc.On("Login", "asha", "nope").Return(nil, user.ErrInvalidCredentials)

	w := postJSON(t, userRouter(svc), "/login", map[string]string{"username": "asha", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sessionCookie(w))
}

func TestDashboardUsesCurrentUser(t *testing.T) {
	svc := &mockUsers{}
	svc.On("Dashboard", "u1").Return(&user.Dashboard{User: &models.User{ID: "u1"}}, nil)

	w := httptest.NewRecorder()
	userRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
