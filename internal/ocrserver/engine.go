package ocrserver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	// Decoders registered for image.Decode
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Engine recognizes the text of one page image. Lines are returned top to bottom.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]string, error)
}

// NormalizeImage returns data unchanged when it is PNG or JPEG and otherwise
// re-encodes it as PNG. The detected source format is returned as well.
func NormalizeImage(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unsupported image: %w", err)
	}
	if format == "png" || format == "jpeg" {
		return data, format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, format, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), format, nil
}

// SplitLines breaks engine output into trimmed, non-empty lines
func SplitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
