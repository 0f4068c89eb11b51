package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxWidth = 800
	// DefaultMaxPixels acota ancho*alto antes de decodificar (~40 MP).
	DefaultMaxPixels int64 = 40_000_000
	// JPEGQuality equivale al 0.7 que usaba el canvas del cliente.
	JPEGQuality = 70

	inlinePrefix = "data:"
	jpegDataURL  = "data:image/jpeg;base64,"
)

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrInvalidInline = errors.New("invalid inline image payload")
)

// inlineTypes son los content types que aceptamos tras olfatear el payload.
var inlineTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// DownscaleAndEncode decodifica la imagen, la achica a maxWidth si hace falta
// (manteniendo proporción) y la devuelve como data URL JPEG.
// Imágenes con más de maxPixels píxeles se rechazan sin decodificarlas.
func DownscaleAndEncode(raw []byte, maxWidth int, maxPixels int64) (string, error) {
	b, err := downscaleJPEG(raw, maxWidth, maxPixels)
	if err != nil {
		return "", err
	}
	return jpegDataURL + base64.StdEncoding.EncodeToString(b), nil
}

func downscaleJPEG(raw []byte, maxWidth int, maxPixels int64) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidImage
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrInvalidImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidImage
	}

	tw, th := targetSize(w, h, maxWidth)

	// JPEG no tiene alfa: aplanamos sobre blanco.
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if tw == w && th == h {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

func targetSize(w, h, maxWidth int) (int, int) {
	if w <= maxWidth {
		return w, h
	}
	th := int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	if th < 1 {
		th = 1
	}
	return maxWidth, th
}

// IsInline indica si la referencia es un payload embebido (data URL) y no una URL remota.
func IsInline(ref string) bool {
	return strings.HasPrefix(strings.TrimSpace(ref), inlinePrefix)
}

// DecodeInline devuelve bytes y content type de un data URL base64.
// Sólo acepta imágenes: el tipo declarado debe ser image/* y el devuelto es el
// que detecta http.DetectContentType sobre los bytes, nunca el declarado.
func DecodeInline(ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if !IsInline(ref) {
		return nil, "", ErrInvalidInline
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, inlinePrefix), ",")
	if !ok {
		return nil, "", ErrInvalidInline
	}

	declared, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidInline)
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if !strings.HasPrefix(declared, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported media type %q", ErrInvalidInline, declared)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInline, err)
	}

	contentType := http.DetectContentType(data)
	if !inlineTypes[contentType] {
		return nil, "", fmt.Errorf("%w: content is %s, not an image", ErrInvalidInline, contentType)
	}
	return data, contentType, nil
}
