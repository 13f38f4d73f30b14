package tesseract

import (
	"context"
	"fmt"

	"govdoc/internal/ocrserver"

	"github.com/otiai10/gosseract/v2"
)

// Engine implements ocrserver.Engine using the gosseract client.
// Each call gets its own client, so concurrent requests are safe.
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewEngine constructs a Tesseract-backed engine for the given language packs
// (for example "chi_sim", "eng").
func NewEngine(languages ...string) *Engine {
	return &Engine{
		languages:     append([]string(nil), languages...),
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single PNG or JPEG image
func (e *Engine) Recognize(ctx context.Context, image []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	// Fully automatic page segmentation keeps letterhead, title and footer in reading order
	if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	// Keep the spacing between words as printed instead of collapsing it
	if err := c.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return nil, fmt.Errorf("set variable: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}
	return ocrserver.SplitLines(text), nil
}
