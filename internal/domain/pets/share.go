package pets

import (
	"encoding/base64"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultQRSize = 256

// ShareURL arma el link canónico {origin}/pets/{petId}.
func ShareURL(origin, petID string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/") + "/pets/" + petID
}

// QRCodePNG codifica url como PNG cuadrado de size px.
func QRCodePNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}

// ShareLink es lo que el dueño copia o muestra como QR.
type ShareLink struct {
	URL string `json:"url"`
	QR  string `json:"qr"` // data:image/png;base64,...
}

func NewShareLink(origin, petID string) (ShareLink, error) {
	url := ShareURL(origin, petID)
	png, err := QRCodePNG(url, DefaultQRSize)
	if err != nil {
		return ShareLink{}, err
	}
	return ShareLink{
		URL: url,
		QR:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
