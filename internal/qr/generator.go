package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 200

// Generator produces scannable ticket images pointing at the web frontend.
type Generator interface {
	Generate(code string) (string, error)
}

type generator struct {
	frontendBaseURL string
}

// NewGenerator builds a Generator rooted at the frontend base URL.
func NewGenerator(frontendBaseURL string) Generator {
	return &generator{frontendBaseURL: strings.TrimRight(frontendBaseURL, "/")}
}

// Generate encodes the ticket page URL as a PNG QR code and returns it as an
// inline data URL.
func (g *generator) Generate(code string) (string, error) {
	payload := g.frontendBaseURL + "/ingresso/" + code
	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
