package ingestion

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultTextBudget caps the combined CV text handed to extraction prompts.
const DefaultTextBudget = 20000

// coverTextHints mark a document body as a cover letter. Only the first
// coverSniffLen characters are inspected.
var coverTextHints = []string{
	"dear hiring",
	"hiring manager",
	"talent acquisition",
	"cover letter",
	"sincerely",
	"to whom it may concern",
	"subject:",
}

const coverSniffLen = 2000

// coverPathHints mark a document as a cover letter by its location or name.
var coverPathHints = []string{"coverletter", "cover letter", "motivation"}

// IsCoverLetterText reports whether the opening of a document body reads
// like a cover letter.
func IsCoverLetterText(text string) bool {
	if len(text) > coverSniffLen {
		text = text[:coverSniffLen]
	}
	lower := strings.ToLower(text)
	for _, hint := range coverTextHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// IsCoverPath reports whether any path segment or the filename marks the
// document as a cover letter.
func IsCoverPath(path string) bool {
	lower := strings.ToLower(filepath.ToSlash(path))
	for _, hint := range coverPathHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// IsCandidateDocument reports whether path looks like a CV: a PDF that is
// not marked as a cover letter by its path.
func IsCandidateDocument(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false
	}
	return !IsCoverPath(path)
}

// CollectDocuments walks root recursively and returns candidate document
// paths in walk order. A missing or empty root yields no documents.
func CollectDocuments(root string) ([]string, error) {
	if root == "" {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsCandidateDocument(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil
	}
	return paths, nil
}

// CollectTexts extracts and concatenates the text of every candidate
// document under root, skipping cover-letter bodies and extraction
// failures, bounded by maxChars (0 means DefaultTextBudget, negative means
// no cap).
func CollectTexts(ctx context.Context, root string, extractor Extractor, maxChars int) (string, error) {
	if maxChars == 0 {
		maxChars = DefaultTextBudget
	}

	paths, err := CollectDocuments(root)
	if err != nil {
		return "", err
	}

	var texts []string
	total := 0
	for _, path := range paths {
		text, err := extractor.Extract(ctx, path)
		if err != nil || text == "" {
			continue
		}
		if IsCoverLetterText(text) {
			continue
		}
		texts = append(texts, text)
		total += len(text)
		if maxChars > 0 && total >= maxChars {
			break
		}
	}

	combined := strings.Join(texts, "\n")
	if maxChars > 0 && len(combined) > maxChars {
		combined = combined[:maxChars]
	}
	return combined, nil
}
