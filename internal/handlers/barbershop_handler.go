package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type BarbershopHandler struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewBarbershopHandler(db *gorm.DB, log *slog.Logger) *BarbershopHandler {
	return &BarbershopHandler{db: db, log: log}
}

type UpdateBarbershopRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

// loadShop returns the single shop profile, creating a placeholder on first
// access.
func loadShop(db *gorm.DB) (*models.Barbershop, error) {
	var shop models.Barbershop
	err := db.Order("id ASC").First(&shop).Error
	if err == nil {
		return &shop, nil
	}
	if !httperr.IsNotFound(err) {
		return nil, err
	}

	shop = models.Barbershop{
		Name:              "Barbearia",
		Slug:              "barbearia",
		MinAdvanceMinutes: 120,
	}
	if err := db.Create(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	shop, err := loadShop(h.db.WithContext(c.Request.Context()))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	shop, err := loadShop(h.db.WithContext(c.Request.Context()))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_request", "Nome obrigatório.")
			return
		}
		shop.Name = name
	}
	if req.Phone != nil {
		shop.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		shop.Address = strings.TrimSpace(*req.Address)
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.WithContext(c.Request.Context()).Save(shop).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}
