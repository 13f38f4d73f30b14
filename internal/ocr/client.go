package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"govdoc/internal/domain"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultTimeout bounds one recognition round trip
const DefaultTimeout = 15 * time.Second

// SuccessCode is the application-level code the OCR server sends on success
const SuccessCode = 200

// responseSchema describes the OCR server envelope. "data" is only required
// on success and is checked after the code.
var responseSchema = map[string]any{
	"type":     "object",
	"required": []any{"code"},
	"properties": map[string]any{
		"code": map[string]any{"type": "integer"},
		"msg":  map[string]any{"type": "string"},
		"data": map[string]any{
			"type":     "object",
			"required": []any{"raw_text"},
			"properties": map[string]any{
				"raw_text": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"structured": map[string]any{"type": "object"},
			},
		},
	},
}

// Config configures the OCR client
type Config struct {
	URL     string
	Timeout time.Duration
}

// Response is the OCR server envelope
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *Data  `json:"data,omitempty"`
}

// Data carries recognized lines top to bottom plus the server's own best-effort fields
type Data struct {
	RawText    []string    `json:"raw_text"`
	Structured *Structured `json:"structured,omitempty"`
}

// Structured is informational only; metadata is always re-derived from RawText
type Structured struct {
	DocTitle string `json:"doc_title"`
	DocNum   string `json:"doc_num"`
	Date     string `json:"date"`
}

// Client calls the remote OCR inference endpoint
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// NewClient creates an OCR client. A zero timeout falls back to DefaultTimeout.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("ocr service url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	schema, err := compileSchema(responseSchema)
	if err != nil {
		return nil, err
	}

	return &Client{
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		schema:     schema,
		logger:     logger,
	}, nil
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Recognize uploads one image and returns its text lines in reading order.
// All failures are *domain.ExtractionError; deadline expiry sets Timeout.
func (c *Client) Recognize(ctx context.Context, filename string, image []byte) ([]string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, contentType, err := multipartBody(filename, image)
	if err != nil {
		c.logger.Error("ocr.http.encode_error", "req_id", reqID, "error", err)
		return nil, domain.NewExtractionError("encode ocr request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		c.logger.Error("ocr.http.build_request_error", "req_id", reqID, "error", err)
		return nil, domain.NewExtractionError("build ocr request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Info("ocr.http.request",
		"req_id", reqID,
		"url", c.url,
		"file", filename,
		"content_length", len(image),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ocr.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		if isTimeout(ctx, err) {
			return nil, domain.NewExtractionTimeout(err)
		}
		return nil, domain.NewExtractionError("ocr service unreachable", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("ocr.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, domain.NewExtractionTimeout(err)
		}
		return nil, domain.NewExtractionError("read ocr response", err)
	}

	c.logger.Info("ocr.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, domain.NewExtractionError("ocr service failed", fmt.Errorf("non-2xx status: %d", resp.StatusCode))
	}

	payload, err := c.decode(raw)
	if err != nil {
		c.logger.Error("ocr.http.decode_error", "req_id", reqID, "error", err)
		return nil, domain.NewExtractionError("invalid ocr response", err)
	}
	if payload.Code != SuccessCode {
		return nil, domain.NewExtractionError("ocr service failed", fmt.Errorf("code %d: %s", payload.Code, payload.Msg))
	}
	if payload.Data == nil {
		return nil, domain.NewExtractionError("invalid ocr response", errors.New("missing data"))
	}

	lines := payload.Data.RawText
	if lines == nil {
		lines = []string{}
	}
	return lines, nil
}

func (c *Client) decode(raw []byte) (*Response, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal data: %w", err)
	}
	if err := c.schema.Validate(v); err != nil {
		return nil, fmt.Errorf("json does not match schema: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

func multipartBody(filename string, image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
