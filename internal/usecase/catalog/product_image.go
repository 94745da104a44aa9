package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/infra/imagestore"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type UploadProductImage struct {
	db    *gorm.DB
	store imagestore.Store
	audit *audit.Dispatcher
	log   *slog.Logger
}

func NewUploadProductImage(db *gorm.DB, store imagestore.Store, audit *audit.Dispatcher, log *slog.Logger) *UploadProductImage {
	return &UploadProductImage{db: db, store: store, audit: audit, log: log}
}

// Execute converts the upload to WebP, stores it and points the product
// at the new URL. Old objects are left in the bucket.
func (uc *UploadProductImage) Execute(ctx context.Context, productID uint, data []byte, actorID *uint) (*models.Product, error) {
	if uc.store == nil {
		return nil, httperr.ErrBusiness("images_disabled")
	}

	var p models.Product
	if err := uc.db.WithContext(ctx).First(&p, productID).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("product_not_found")
		}
		return nil, err
	}

	webpData, err := imagestore.ToWebP(data)
	if err != nil {
		uc.log.Warn("product image rejected", "product_id", p.ID, "err", err)
		return nil, httperr.ErrBusiness("invalid_image")
	}

	key := fmt.Sprintf("products/%d-%s.webp", p.ID, uuid.NewString())
	url, err := uc.store.Put(ctx, key, webpData, "image/webp")
	if err != nil {
		return nil, err
	}

	if err := uc.db.WithContext(ctx).Model(&p).Update("image_url", url).Error; err != nil {
		return nil, err
	}
	p.ImageURL = url

	uc.audit.Dispatch(audit.Event{
		UserID:   actorID,
		Action:   "product_image_updated",
		Entity:   "product",
		EntityID: &p.ID,
	})

	return &p, nil
}
