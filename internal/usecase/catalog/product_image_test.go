package catalog

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
)

type memStore struct{ objects map[string][]byte }

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func TestUploadProductImage(t *testing.T) {
	db := testdb.New(t)
	p := models.Product{Name: "Pomada", Price: decimal.RequireFromString("35"), Active: true}
	db.Create(&p)

	buf := new(bytes.Buffer)
	_ = png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 40, 40)))

	store := &memStore{objects: map[string][]byte{}}
	uc := NewUploadProductImage(db, store, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	out, err := uc.Execute(context.Background(), p.ID, buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(out.ImageURL, "https://cdn.test/products/") || !strings.HasSuffix(out.ImageURL, ".webp") {
		t.Fatalf("url = %s", out.ImageURL)
	}
	if len(store.objects) != 1 {
		t.Fatalf("expected one object, got %d", len(store.objects))
	}

	if _, err := uc.Execute(context.Background(), p.ID, []byte("text"), nil); !httperr.IsBusiness(err, "invalid_image") {
		t.Fatalf("expected invalid_image, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), 999, buf.Bytes(), nil); !httperr.IsBusiness(err, "product_not_found") {
		t.Fatalf("expected product_not_found, got %v", err)
	}
}
