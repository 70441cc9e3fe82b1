// Package qr generates the scannable blade labels.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PayloadPrefix marks blade QR payloads so scanners can reject foreign
// codes.
const PayloadPrefix = "qrsaws:blade:"

// Payload builds the QR content for a blade code.
func Payload(bladeCode string) string {
	return PayloadPrefix + bladeCode
}

// LabelPNG renders the blade label as a PNG of the given pixel size.
func LabelPNG(bladeCode string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(Payload(bladeCode), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr label: %w", err)
	}
	return png, nil
}
