package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextBarberID  = "barberID"
	ContextActorKind = "actorKind"
	ContextRequestID = "requestID"
)

// RoleBarber is the JWT role of barber app tokens.
const RoleBarber = "barber"

// BarberAuth validates the HS256 bearer token of the barber mobile app.
func BarberAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token ausente.", "code": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido.", "code": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido.", "code": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido.", "code": "invalid_token_claims"})
			return
		}

		barberID, ok := claims["sub"].(float64)
		role, _ := claims["role"].(string)
		if !ok || barberID <= 0 || role != RoleBarber {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido.", "code": "invalid_token_payload"})
			return
		}

		c.Set(ContextBarberID, uint(barberID))
		c.Set(ContextUserRole, role)
		c.Set(ContextActorKind, audit.ActorBarber)

		c.Next()
	}
}

// ActorID is the authenticated staff user or barber, nil on public routes.
func ActorID(c *gin.Context) *uint {
	for _, key := range []string{ContextUserID, ContextBarberID} {
		if v, ok := c.Get(key); ok {
			if id, ok := v.(uint); ok {
				return &id
			}
		}
	}
	return nil
}

func ActorKind(c *gin.Context) string {
	return c.GetString(ContextActorKind)
}

// BarberID returns the barber of a mobile app request.
func BarberID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextBarberID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
