package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe returns the logged staff user.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := c.Get(middleware.ContextUserID)
	if !ok {
		httperr.Unauthorized(c, "unauthorized", "Não autenticado.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, userID.(uint)).Error; err != nil {
		httperr.Unauthorized(c, "unauthorized", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// GetBarberMe returns the barber behind a mobile app token.
func (h *MeHandler) GetBarberMe(c *gin.Context) {
	barberID, ok := middleware.BarberID(c)
	if !ok {
		httperr.Unauthorized(c, "unauthorized", "Não autenticado.")
		return
	}

	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).First(&barber, barberID).Error; err != nil || !barber.Active {
		httperr.Unauthorized(c, "unauthorized", "Barbeiro não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"barber": barber})
}
