// Package label renders box label images for manufacturing items.
package label

import (
	"errors"
	"fmt"

	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
	qrcode "github.com/skip2/go-qrcode"
)

var _ mfgapp.LabelRenderer = (*QRRenderer)(nil)

// QRRenderer renders label content as a square QR code PNG.
type QRRenderer struct {
	size int
}

// QRRendererOption is a functional option for configuring QRRenderer
type QRRendererOption func(*QRRenderer)

// WithSize sets the rendered image edge length in pixels
func WithSize(size int) QRRendererOption {
	return func(r *QRRenderer) {
		r.size = size
	}
}

// NewQRRenderer creates a QRRenderer. The default image size is 256 pixels.
func NewQRRenderer(opts ...QRRendererOption) *QRRenderer {
	r := &QRRenderer{size: 256}
	for _, opt := range opts {
		opt(r)
	}
	if r.size <= 0 {
		r.size = 256
	}
	return r
}

// Render encodes content as a PNG QR code
func (r *QRRenderer) Render(content string) ([]byte, error) {
	if content == "" {
		return nil, errors.New("label content is required")
	}

	png, err := qrcode.Encode(content, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render label: %w", err)
	}
	return png, nil
}

// Size returns the configured image edge length
func (r *QRRenderer) Size() int {
	return r.size
}
