package services

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

// QRGenerator renders the tracking QR code for an order.
type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// DefaultQRGenerator encodes <BaseURL>/orders/<id> as a 256px PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

// Generate returns the PNG bytes.
func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	return qrcode.Encode(TrackingURL(g.BaseURL, orderID), qrcode.Medium, 256)
}

// TrackingURL is the public page for an order.
func TrackingURL(baseURL, orderID string) string {
	return strings.TrimRight(baseURL, "/") + "/orders/" + orderID
}
