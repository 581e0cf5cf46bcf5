package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapExtractor serves canned text keyed by base filename.
type mapExtractor struct {
	texts map[string]string
}

func (m *mapExtractor) Extract(_ context.Context, path string) (string, error) {
	text, ok := m.texts[filepath.Base(path)]
	if !ok {
		return "", errors.New("no text for " + path)
	}
	return text, nil
}

func writePDFStub(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub"), 0o644))
	return path
}

func TestIsCoverLetterText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"greeting", "Dear Hiring Manager,\nI am excited to apply...", true},
		{"sign-off", "I look forward to hearing from you.\nSincerely,\nAda", true},
		{"plain cv", "Ada Lovelace\nExperience\nAnalytical Engines Ltd", false},
		{"hint beyond sniff window ignored", strings.Repeat("x", coverSniffLen) + " dear hiring", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCoverLetterText(tt.text))
		})
	}
}

func TestIsCandidateDocument(t *testing.T) {
	assert.True(t, IsCandidateDocument("/docs/cv_data.pdf"))
	assert.True(t, IsCandidateDocument("/docs/CV_Data.PDF"))
	assert.False(t, IsCandidateDocument("/docs/notes.txt"))
	assert.False(t, IsCandidateDocument("/docs/CoverLetter_Acme.pdf"))
	assert.False(t, IsCandidateDocument("/docs/motivation/generic.pdf"))
}

func TestCollectDocuments(t *testing.T) {
	root := t.TempDir()
	cv1 := writePDFStub(t, root, "cv_main.pdf")
	cv2 := writePDFStub(t, filepath.Join(root, "nested"), "cv_data.pdf")
	writePDFStub(t, root, "coverletter_acme.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644))

	paths, err := CollectDocuments(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{cv1, cv2}, paths)
}

func TestCollectDocuments_EmptyRoot(t *testing.T) {
	paths, err := CollectDocuments("")
	require.NoError(t, err)
	assert.Empty(t, paths)

	paths, err = CollectDocuments(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestCollectTexts_SkipsCoverBodiesAndFailures(t *testing.T) {
	root := t.TempDir()
	writePDFStub(t, root, "cv_main.pdf")
	writePDFStub(t, root, "sneaky.pdf") // cover letter by body, not by name
	writePDFStub(t, root, "broken.pdf") // extractor fails

	ex := &mapExtractor{texts: map[string]string{
		"cv_main.pdf": "Ada Lovelace\nExperience: analysis",
		"sneaky.pdf":  "Dear Hiring Manager, please consider me",
	}}

	combined, err := CollectTexts(context.Background(), root, ex, 0)
	require.NoError(t, err)
	assert.Contains(t, combined, "Ada Lovelace")
	assert.NotContains(t, combined, "Dear Hiring Manager")
}

func TestCollectTexts_Budget(t *testing.T) {
	root := t.TempDir()
	writePDFStub(t, root, "cv_a.pdf")
	writePDFStub(t, root, "cv_b.pdf")

	ex := &mapExtractor{texts: map[string]string{
		"cv_a.pdf": strings.Repeat("a", 80),
		"cv_b.pdf": strings.Repeat("b", 80),
	}}

	combined, err := CollectTexts(context.Background(), root, ex, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(combined), 100)
}

func TestHashDocuments(t *testing.T) {
	root := t.TempDir()
	path := writePDFStub(t, root, "cv_main.pdf")

	first := HashDocuments(root)
	assert.Equal(t, first, HashDocuments(root), "hash is stable for an unchanged folder")

	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 stub with more bytes"), 0o644))
	assert.NotEqual(t, first, HashDocuments(root), "hash changes when a document changes")

	writePDFStub(t, root, "cv_new.pdf")
	assert.NotEqual(t, first, HashDocuments(root), "hash changes when a document is added")
}
