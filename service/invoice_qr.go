package service

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// InvoiceQRDecoder reads the machine-readable QR code printed on Chinese VAT
// and vehicle-sale invoices. The payload is comma-separated; the fifth field
// is the untaxed amount. Used as a fallback when the text amount cascade
// comes up empty.
type InvoiceQRDecoder struct {
	logger *slog.Logger
}

func NewInvoiceQRDecoder(logger *slog.Logger) *InvoiceQRDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceQRDecoder{logger: logger}
}

// DecodeAmount finds a QR code in the invoice image and returns the amount
// field from its payload.
func (d *InvoiceQRDecoder) DecodeAmount(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decode QR code: %w", err)
	}

	amount, err := parseInvoiceQRPayload(result.GetText())
	if err != nil {
		return "", err
	}

	d.logger.Debug("decoded invoice QR amount", "amount", amount)
	return amount, nil
}

// parseInvoiceQRPayload extracts the amount from the standard invoice QR
// payload: version, type code, invoice code, invoice number, amount, date,
// check code, all comma-separated.
func parseInvoiceQRPayload(payload string) (string, error) {
	fields := strings.Split(payload, ",")
	if len(fields) < 5 {
		return "", fmt.Errorf("unexpected invoice QR payload with %d fields", len(fields))
	}

	amount := strings.TrimSpace(fields[4])
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		return "", fmt.Errorf("invoice QR amount %q is not numeric", amount)
	}
	return amount, nil
}
