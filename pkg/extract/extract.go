// Package extract turns uploaded document bytes into plain text. Supported
// formats are PDF, DOCX, legacy DOC, plain text and Markdown.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// Content types accepted by Extract.
const (
	TypePDF      = "application/pdf"
	TypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeDOC      = "application/msword"
	TypeText     = "text/plain"
	TypeMarkdown = "text/markdown"
)

var (
	// ErrUnsupportedType is returned for content types Extract cannot read.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyDocument is returned when a document yields no text at all.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// TypeFromFilename maps a file extension onto a supported content type.
// Unknown extensions map to "".
func TypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	case ".doc":
		return TypeDOC
	case ".txt":
		return TypeText
	case ".md", ".markdown":
		return TypeMarkdown
	default:
		return ""
	}
}

// Extract returns the plain text of data interpreted as contentType.
// A document without any text fails with ErrEmptyDocument; the pipeline
// treats that as a terminal processing failure.
func Extract(data []byte, contentType string) (string, error) {
	var (
		text string
		err  error
	)

	switch contentType {
	case TypePDF:
		text, err = extractPDF(data)
	case TypeDOCX:
		text, err = extractDocx(data)
	case TypeDOC:
		text = stripBinary(data)
	case TypeText, TypeMarkdown:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return string(content), nil
}

// stripBinary salvages readable runes from legacy binary formats. Control
// bytes and anything non-printable is dropped, runs of whitespace collapse.
func stripBinary(data []byte) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range string(data) {
		if unicode.IsGraphic(r) && r != unicode.ReplacementChar {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return b.String()
}
