// Package ingestion walks the candidate's document folder, extracts text
// from PDF documents, separates CVs from cover letters, and fingerprints the
// document set so the profile is rebuilt only when the documents change.
package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Extractor turns one document into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// PDFToText extracts text by shelling out to the poppler pdftotext binary.
type PDFToText struct {
	// Binary overrides the executable name, mainly for tests.
	Binary string
}

// NewPDFToText returns an extractor using the pdftotext binary on PATH.
func NewPDFToText() *PDFToText {
	return &PDFToText{Binary: "pdftotext"}
}

// Extract runs pdftotext with layout preserved and returns stdout.
func (p *PDFToText) Extract(ctx context.Context, path string) (string, error) {
	binary := p.Binary
	if binary == "" {
		binary = "pdftotext"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-layout", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed for %s: %w (%s)", path, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
