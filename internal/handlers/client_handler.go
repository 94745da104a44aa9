package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher, log *slog.Logger) *ClientHandler {
	return &ClientHandler{db: db, audit: audit, log: log}
}

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}
	if c.Query("subscriber") == "true" {
		q = q.Where("is_subscriber = ?", true)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// GET
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.Respond(c, h.log, httperr.ErrBusiness("client_not_found"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	var subs []models.Subscription
	if err := db.
		Preload("Services").
		Where("client_id = ?", id).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":        client,
		"subscriptions": subs,
	})
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	client, err := clientFromRequest(req)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(client).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "client_created",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.Respond(c, h.log, httperr.ErrBusiness("client_not_found"))
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	updated, err := clientFromRequest(req)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	client.Name = updated.Name
	client.Phone = updated.Phone
	client.Email = updated.Email

	if err := db.Save(&client).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, client)
}

func clientFromRequest(req ClientRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("invalid_client")
	}

	phone := validators.NormalizePhone(req.Phone)
	if !validators.IsPhoneValid(phone) {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmailValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	return &models.Client{
		Name:  name,
		Phone: phone,
		Email: email,
	}, nil
}
