package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DocumentStatus is the circulation state of a received document.
// Values are stored verbatim in the documents table.
type DocumentStatus string

const (
	StatusPending DocumentStatus = "待签收"
	StatusSigned  DocumentStatus = "已签收"
)

// UntitledPlaceholder replaces an empty extracted title on insert
const UntitledPlaceholder = "未识别标题"

// Valid reports whether s is a known status
func (s DocumentStatus) Valid() bool {
	return s == StatusPending || s == StatusSigned
}

// Validate implements validation.Validatable
func (s DocumentStatus) Validate() error {
	if !s.Valid() {
		return errors.New("unknown document status")
	}
	return nil
}

type Document struct {
	ID                 int64          `json:"id" db:"id"`
	Title              string         `json:"title" db:"title"`
	DocNumber          string         `json:"doc_num" db:"doc_num"`
	DocDate            string         `json:"doc_date" db:"doc_date"`
	FilePath           string         `json:"file_path" db:"file_path"`
	RawContent         string         `json:"raw_content" db:"raw_content"`
	Status             DocumentStatus `json:"status" db:"status"`
	CreatedAt          time.Time      `json:"create_at" db:"created_at"`
	SignatureImagePath *string        `json:"sign_img_path" db:"sign_img_path"` // reserved for handwritten sign-off capture
}

// Validate checks a record before it is written
func (d *Document) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.FilePath, validation.Required),
		validation.Field(&d.Status, validation.Required),
	)
}

// Extraction is the metadata recovered from one scanned page
type Extraction struct {
	Title      string `json:"title"`
	DocNumber  string `json:"doc_num"`
	DocDate    string `json:"doc_date"`
	RawContent string `json:"raw_content"`
}
