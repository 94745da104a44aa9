package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
)

const SessionCookie = "session_id"

// SessionAuth loads the staff session named by the session_id cookie.
func SessionAuth(store session.Store, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado.", "code": "unauthorized"})
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.Error("session lookup failed", "err", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sessão expirada.", "code": "unauthorized"})
			return
		}

		c.Set(ContextUserID, sess.UserID)
		c.Set(ContextUserRole, sess.Role)
		c.Set(ContextActorKind, audit.ActorStaff)

		c.Next()
	}
}

// RequireRole must run after SessionAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso negado.", "code": "forbidden"})
	}
}
