package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
)

const InternalSecretHeader = "X-Internal-Secret"

// InternalSecret guards server-to-server routes. An empty secret disables
// them entirely.
func InternalSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(InternalSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Não autorizado.", "code": "unauthorized"})
			return
		}
		c.Set(ContextActorKind, audit.ActorSystem)
		c.Next()
	}
}
