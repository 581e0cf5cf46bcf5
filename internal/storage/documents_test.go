package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/auto-applier/internal/types"
)

func TestLoadProfile_Missing(t *testing.T) {
	p, err := LoadProfile(filepath.Join(t.TempDir(), "autoprofile.json"))
	require.NoError(t, err)

	assert.NotNil(t, p.Fields)
	assert.NotNil(t, p.ExtraFields)
	assert.Empty(t, p.Roles)
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoprofile.json")

	p := types.NewProfile()
	p.Fields["name"] = "Ada Lovelace"
	p.Fields["email"] = "ada@example.com"
	p.ExtraFields["education.degree_1"] = "Mathematics"
	p.Summary = "Skills: analysis, computation"
	p.Roles = []string{"Data Analyst"}
	p.SearchQueries = []string{"data analyst jobs remote"}
	p.DocHash = "abc123"

	require.NoError(t, SaveProfile(path, p))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", loaded.Field("name"))
	assert.Equal(t, "Mathematics", loaded.ExtraFields["education.degree_1"])
	assert.Equal(t, []string{"Data Analyst"}, loaded.Roles)
	assert.Equal(t, "abc123", loaded.DocHash)
}

func TestSaveProfile_AtomicReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoprofile.json")

	p := types.NewProfile()
	p.Summary = "first"
	require.NoError(t, SaveProfile(path, p))
	p.Summary = "second"
	require.NoError(t, SaveProfile(path, p))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a save")

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.Summary)
}

func TestAnswersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personal_answers.json")

	answers, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Empty(t, answers)

	answers["are you authorized to work"] = "Yes"
	require.NoError(t, SaveAnswers(path, answers))

	loaded, err := LoadAnswers(path)
	require.NoError(t, err)
	assert.Equal(t, "Yes", loaded["are you authorized to work"])
}

func TestLoadProfile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoprofile.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}
