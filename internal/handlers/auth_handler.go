package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/auth"
)

type AuthHandler struct {
	staff      *auth.StaffLogin
	barber     *auth.BarberLogin
	sessionTTL time.Duration
	secure     bool
	log        *slog.Logger
}

func NewAuthHandler(
	staff *auth.StaffLogin,
	barber *auth.BarberLogin,
	sessionTTL time.Duration,
	secure bool,
	log *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		staff:      staff,
		barber:     barber,
		sessionTTL: sessionTTL,
		secure:     secure,
		log:        log,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Staff (cookie) ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	sessionID, user, err := h.staff.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sessionID, int(h.sessionTTL.Seconds()), "/", "", h.secure, true)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(middleware.SessionCookie); err == nil && id != "" {
		if err := h.staff.Logout(c.Request.Context(), id); err != nil {
			h.log.Warn("logout failed", "err", err)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.Status(http.StatusNoContent)
}

// --------- Barber app (JWT) ---------

func (h *AuthHandler) BarberLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	token, barber, err := h.barber.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber": gin.H{
			"id":    barber.ID,
			"name":  barber.Name,
			"email": barber.Email,
		},
		"token": token,
	})
}
