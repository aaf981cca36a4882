package handlers

import (
	"errors"
	"net/http"

	"roame/middleware"
	"roame/services/user"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves signup, login and the dashboard.
type UserHandler struct {
	UserService   user.UserService
	SecureCookies bool
}

func (h *UserHandler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(utils.SessionDuration.Seconds()), "/", "", h.SecureCookies, true)
}

func userErrorStatus(err error) (int, bool) {
	var inputErr user.InputError
	switch {
	case errors.As(err, &inputErr),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, user.ErrUsernameTaken),
		errors.Is(err, user.ErrNoPendingSignup),
		errors.Is(err, user.ErrInvalidOTP):
		return http.StatusBadRequest, true
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, true
	}
	return http.StatusInternalServerError, false
}

func writeUserError(c *gin.Context, err error, fallback string) {
	status, public := userErrorStatus(err)
	if !public {
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, status, fallback, "")
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}

// SignupHandler handles POST /signup.
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "")
		return
	}
	if err := h.UserService.Signup(c.Request.Context(), req); err != nil {
		writeUserError(c, err, "Something went wrong. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "OTP sent to your email", "email": req.Email})
}

// VerifyOTPHandler handles POST /verify-otp and logs the new user in.
func (h *UserHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and otp are required", "")
		return
	}
	resp, err := h.UserService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		writeUserError(c, err, "Something went wrong during OTP verification.")
		return
	}
	h.setSession(c, resp.Token)
	c.JSON(http.StatusOK, gin.H{"success": "Email verified! Account created and logged in.", "user": resp})
}

// ResendOTPHandler handles POST /resend-otp.
func (h *UserHandler) ResendOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email is required", "")
		return
	}
	if err := h.UserService.ResendOTP(c.Request.Context(), req.Email); err != nil {
		writeUserError(c, err, "Something went wrong while resending OTP.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "A new OTP has been sent to your email."})
}

// LoginHandler handles POST /login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "username and password are required", "")
		return
	}
	resp, err := h.UserService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeUserError(c, err, "Login failed. Please try again.")
		return
	}
	h.setSession(c, resp.Token)
	c.JSON(http.StatusOK, gin.H{"success": "Welcome back to Roame!", "user": resp})
}

// LogoutHandler handles GET /logout.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"success": "You are logged out!"})
}

// DashboardHandler handles GET /dashboard.
func (h *UserHandler) DashboardHandler(c *gin.Context) {
	d, err := h.UserService.Dashboard(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeUserError(c, err, "Could not load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}
