package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dquelhas/taskquest/internal/application"
	"github.com/dquelhas/taskquest/pkg/helpers"
	"github.com/dquelhas/taskquest/pkg/response"
	"github.com/dquelhas/taskquest/pkg/validation"
)

// UserHandler exposes the auth gate's own surface: a single /user endpoint
// dispatched on the `action` query parameter, as the original client expects.
type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Handle dispatches /user by action. Registered for both GET and POST; each
// action enforces its own method and answers 405 otherwise.
func (h *UserHandler) Handle(c *gin.Context) {
	switch c.Query("action") {
	case "register":
		if !requireMethod(c, http.MethodPost) {
			return
		}
		h.register(c)
	case "login":
		if !requireMethod(c, http.MethodPost) {
			return
		}
		h.login(c)
	case "logout":
		if !requireMethod(c, http.MethodPost) {
			return
		}
		h.logout(c)
	case "status":
		if !requireMethod(c, http.MethodGet) {
			return
		}
		h.status(c)
	default:
		response.Error[any](c, http.StatusNotFound, "unknown or missing action", nil)
	}
}

func requireMethod(c *gin.Context, method string) bool {
	if c.Request.Method != method {
		response.Error[any](c, http.StatusMethodNotAllowed, "method not allowed for this action", nil)
		return false
	}
	return true
}

func (h *UserHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "could not register user", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": gin.H{"email": u.Email}}, "user registered", nil)
}

func (h *UserHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error[any](c, http.StatusInternalServerError, "could not log in", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user": gin.H{"email": u.Email}}, "login successful", nil)
}

func (h *UserHandler) logout(c *gin.Context) {
	if token, err := c.Cookie("access_token"); err == nil {
		if uid, ok := h.Svc.ResolveToken(c.Request.Context(), token); ok {
			h.Svc.Logout(c.Request.Context(), uid)
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logout successful", nil)
}

// status answers 200 with loggedIn:false rather than 401 so clients can
// probe the session cheaply. The points total here counts completed tasks
// only; the task listing total also counts expiration penalties.
func (h *UserHandler) status(c *gin.Context) {
	token, err := c.Cookie("access_token")
	if err != nil || token == "" {
		response.Success(c, http.StatusOK, gin.H{"loggedIn": false}, "status", nil)
		return
	}
	uid, ok := h.Svc.ResolveToken(c.Request.Context(), token)
	if !ok {
		response.Success(c, http.StatusOK, gin.H{"loggedIn": false}, "status", nil)
		return
	}
	st, err := h.Svc.Status(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("status lookup failed")
		response.Error[any](c, http.StatusInternalServerError, "could not load status", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     gin.H{"email": st.Email},
		"points":   st.Points,
	}, "status", nil)
}
