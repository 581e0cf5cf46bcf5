package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auto-applier/internal/llm"
	"github.com/jonathan/auto-applier/internal/types"
)

type stubClient struct {
	jsonOut string
	err     error
	calls   int
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	s.calls++
	return s.jsonOut, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	s.calls++
	return s.jsonOut, s.err
}

func (s *stubClient) Close() error { return nil }

type textExtractor struct{ text string }

func (e *textExtractor) Extract(context.Context, string) (string, error) {
	return e.text, nil
}

func docRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cv_data.pdf"), []byte("%PDF stub"), 0o644))
	return root
}

const validExtraction = `{
  "profile_updates": {"name": "Ada Lovelace", "email": "ada@example.com"},
  "extra_fields": {"education": {"degree": "Mathematics"}},
  "summary": "Skills: analysis",
  "roles": ["Data Analyst"],
  "search_queries": ["data analyst jobs remote"]
}`

func TestEnsure_BuildsFromModelOutput(t *testing.T) {
	root := docRoot(t)
	client := &stubClient{jsonOut: validExtraction}
	b := NewBuilder(client, &textExtractor{text: "Ada Lovelace\nanalysis"}, nil)

	p, rebuilt, err := b.Ensure(context.Background(), root, types.NewProfile(), false)
	require.NoError(t, err)
	require.True(t, rebuilt)

	assert.Equal(t, "Ada Lovelace", p.Field("name"))
	assert.Equal(t, "Mathematics", p.ExtraFields["education.degree"])
	assert.Equal(t, "Skills: analysis", p.Summary)
	assert.NotEmpty(t, p.DocHash)
	assert.Empty(t, p.SearchQueries, "queries are replanned after a rebuild")
	// "data" in the folder filename adds the path-inferred role.
	assert.Contains(t, p.Roles, "Data Analyst")
	assert.NotEmpty(t, p.CVText)
}

func TestEnsure_SkipsWhenHashUnchanged(t *testing.T) {
	root := docRoot(t)
	client := &stubClient{jsonOut: validExtraction}
	b := NewBuilder(client, &textExtractor{text: "Ada Lovelace"}, nil)

	first, rebuilt, err := b.Ensure(context.Background(), root, types.NewProfile(), false)
	require.NoError(t, err)
	require.True(t, rebuilt)
	callsAfterBuild := client.calls

	second, rebuilt, err := b.Ensure(context.Background(), root, first, false)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, first, second)
	assert.Equal(t, callsAfterBuild, client.calls, "no model call on an unchanged folder")
}

func TestEnsure_ForceRebuild(t *testing.T) {
	root := docRoot(t)
	client := &stubClient{jsonOut: validExtraction}
	b := NewBuilder(client, &textExtractor{text: "Ada Lovelace"}, nil)

	first, _, err := b.Ensure(context.Background(), root, types.NewProfile(), false)
	require.NoError(t, err)

	_, rebuilt, err := b.Ensure(context.Background(), root, first, true)
	require.NoError(t, err)
	assert.True(t, rebuilt)
}

func TestEnsure_FallbackOnModelFailure(t *testing.T) {
	root := docRoot(t)
	client := &stubClient{err: errors.New("model unavailable")}
	b := NewBuilder(client, &textExtractor{text: sampleCV}, nil)

	p, rebuilt, err := b.Ensure(context.Background(), root, types.NewProfile(), false)
	require.NoError(t, err)
	require.True(t, rebuilt)
	assert.Equal(t, "ada@example.com", p.Field("email"))
	assert.Contains(t, p.Summary, "Skills:")
}

func TestEnsure_RejectsOffSchemaOutput(t *testing.T) {
	root := docRoot(t)
	// profile_updates carries a non-whitelisted key, so the model output is
	// rejected and the fallback extractor runs instead.
	client := &stubClient{jsonOut: `{"profile_updates": {"ssn": "000"}}`}
	b := NewBuilder(client, &textExtractor{text: sampleCV}, nil)

	p, rebuilt, err := b.Ensure(context.Background(), root, types.NewProfile(), false)
	require.NoError(t, err)
	require.True(t, rebuilt)
	assert.Empty(t, p.Field("ssn"))
	assert.Equal(t, "ada@example.com", p.Field("email"))
}

func TestEnsure_EmptyRootKeepsExisting(t *testing.T) {
	existing := types.NewProfile()
	b := NewBuilder(nil, &textExtractor{}, nil)

	p, rebuilt, err := b.Ensure(context.Background(), "", existing, true)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, existing, p)
}
