package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/httpresp"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/catalog"
)

// maxImageUpload bounds the multipart file read into memory.
const maxImageUpload = 8 << 20

type CatalogHandler struct {
	db          *gorm.DB
	uploadImage *catalog.UploadProductImage
	audit       *audit.Dispatcher
	log         *slog.Logger
}

func NewCatalogHandler(
	db *gorm.DB,
	uploadImage *catalog.UploadProductImage,
	audit *audit.Dispatcher,
	log *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{db: db, uploadImage: uploadImage, audit: audit, log: log}
}

// ======================================================
// REQUESTS
// ======================================================

type ServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	DurationMin int             `json:"duration_min" binding:"required,min=5"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Active      *bool           `json:"active"`
}

type ProductRequest struct {
	Name   string          `json:"name" binding:"required"`
	Price  decimal.Decimal `json:"price"`
	Stock  int             `json:"stock" binding:"min=0"`
	Active *bool           `json:"active"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *CatalogHandler) ListServices(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if c.Query("all") != "true" {
		q = q.Where("active = ?", true)
	}
	if category := strings.ToLower(strings.TrimSpace(c.Query("category"))); category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, services)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}

	svc := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Active:      req.Active == nil || *req.Active,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	httpresp.Created(c, svc)
}

// UpdateService changes the catalog only; prices already copied to
// appointment lines stay as they were.
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var svc models.Service
	if err := db.First(&svc, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("service_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}

	svc.Name = strings.TrimSpace(req.Name)
	svc.Description = strings.TrimSpace(req.Description)
	svc.DurationMin = req.DurationMin
	svc.Price = req.Price
	svc.Category = strings.TrimSpace(req.Category)
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := db.Save(&svc).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	httpresp.OK(c, svc)
}

// ======================================================
// PRODUCTS
// ======================================================

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if c.Query("all") != "true" {
		q = q.Where("active = ?", true)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.List(c, products)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}

	p := models.Product{
		Name:   strings.TrimSpace(req.Name),
		Price:  req.Price,
		Stock:  req.Stock,
		Active: req.Active == nil || *req.Active,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   middleware.ActorID(c),
		Action:   "product_created",
		Entity:   "product",
		EntityID: &p.ID,
	})

	httpresp.Created(c, p)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}
	if req.Price.IsNegative() {
		httperr.Respond(c, h.log, httperr.ErrBusiness("invalid_amount"))
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			err = httperr.ErrBusiness("product_not_found")
		}
		httperr.Respond(c, h.log, err)
		return
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Price = req.Price
	p.Stock = req.Stock
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := db.Save(&p).Error; err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, p)
}

// UploadImage expects a multipart "image" field.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Arquivo de imagem obrigatório.")
		return
	}
	if fh.Size > maxImageUpload {
		httperr.BadRequest(c, "invalid_image", "Imagem muito grande.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageUpload))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	p, err := h.uploadImage.Execute(c.Request.Context(), id, data, middleware.ActorID(c))
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
