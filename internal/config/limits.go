package config

const (
	// MaxImagePathLength is the maximum length accepted for a capture image path.
	MaxImagePathLength = 1024

	// MaxUploadBytes bounds one image posted to the OCR inference server.
	// A 600dpi A4 colour scan stays well under it.
	MaxUploadBytes = 32 << 20
)
