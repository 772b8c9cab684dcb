package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weirdsynths/ideasd/internal/domain"
)

func TestPrefsRepoRoundTrip(t *testing.T) {
	repo := PrefsRepo{Path: filepath.Join(t.TempDir(), "preferences.json")}

	state := domain.NewPreferenceState()
	state.CategoryScores["LFO"] = domain.BucketScore{Score: 0.8, Count: 3}
	state.TotalRated = 3
	state.TotalApproved = 2
	require.NoError(t, repo.Save(state))

	loaded := repo.Load()
	assert.Equal(t, state, loaded)
}

func TestPrefsRepoMissingFile(t *testing.T) {
	repo := PrefsRepo{Path: filepath.Join(t.TempDir(), "preferences.json")}

	loaded := repo.Load()
	assert.Equal(t, 0, loaded.TotalRated)
	assert.NotNil(t, loaded.CategoryScores)
	assert.NotNil(t, loaded.StyleScores)
}

func TestPrefsRepoCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded := PrefsRepo{Path: path}.Load()
	assert.Equal(t, 0, loaded.TotalRated)
	assert.NotNil(t, loaded.CategoryScores)
}

func TestPrefsRepoNullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0644))

	loaded := PrefsRepo{Path: path}.Load()
	require.NotNil(t, loaded)
	assert.NotNil(t, loaded.CategoryScores)
}

func TestPrefsRepoReinitsMissingMaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"total_rated":7}`), 0644))

	loaded := PrefsRepo{Path: path}.Load()
	assert.Equal(t, 7, loaded.TotalRated)
	assert.NotNil(t, loaded.CategoryScores)
	assert.NotNil(t, loaded.HPScores)
	assert.NotNil(t, loaded.BodyScores)
	assert.NotNil(t, loaded.OutputScores)
	assert.NotNil(t, loaded.StyleScores)
}
