// Package imagestore converts uploaded pictures to WebP and stores them in
// an S3 compatible bucket.
package imagestore

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	MaxSide = 800
	quality = 80
)

// ToWebP decodes a JPEG, PNG or WebP image, fits it into MaxSide×MaxSide
// keeping the aspect ratio and encodes it as lossy WebP.
func ToWebP(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	img = fit(img, MaxSide)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	r := bytes.NewReader(data)
	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(r)
	case strings.Contains(ct, "png"):
		return png.Decode(r)
	case strings.Contains(ct, "webp"):
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("unsupported image type %s", ct)
}

func fit(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}

	scale := math.Min(float64(max)/float64(w), float64(max)/float64(h))
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
