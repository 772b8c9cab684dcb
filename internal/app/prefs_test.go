package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weirdsynths/ideasd/internal/domain"
)

type fakePrefsRepo struct {
	saves int
	fail  bool
	last  *domain.PreferenceState
}

func (r *fakePrefsRepo) Load() *domain.PreferenceState {
	return domain.NewPreferenceState()
}

func (r *fakePrefsRepo) Save(state *domain.PreferenceState) error {
	r.saves++
	if r.fail {
		return errors.New("disk full")
	}
	r.last = state
	return nil
}

func testIdea() domain.Idea {
	return domain.Idea{
		Id:         "20260223-01",
		Name:       "FLUTTER",
		Category:   "LFO",
		HP:         6,
		Concept:    "A rhythmic modulation source driven by eyelid tremor.",
		KeyFeature: "chaotic tremor tracking",
		Outputs:    []string{"LFO", "GATE"},
		BodyPart:   "eyes",
	}
}

func TestRecordJudgmentFirstObservation(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	m.RecordJudgment(testIdea(), 0.75, "")

	snap := m.Snapshot()
	require.Contains(t, snap.CategoryScores, "LFO")
	assert.Equal(t, 0.75, snap.CategoryScores["LFO"].Score)
	assert.Equal(t, 1, snap.CategoryScores["LFO"].Count)
	assert.Equal(t, 1, snap.TotalRated)
	assert.NotEmpty(t, snap.LastUpdated)
}

func TestRecordJudgmentMovingAverage(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	m.RecordJudgment(testIdea(), 1.0, "")
	m.RecordJudgment(testIdea(), 0.0, "")

	snap := m.Snapshot()
	// 0.3*0.0 + 0.7*1.0
	assert.InDelta(t, 0.7, snap.CategoryScores["LFO"].Score, 1e-9)
	assert.Equal(t, 2, snap.CategoryScores["LFO"].Count)
}

func TestRecordJudgmentUpdatesAllDimensions(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	m.RecordJudgment(testIdea(), 1.0, "")

	snap := m.Snapshot()
	assert.Contains(t, snap.CategoryScores, "LFO")
	assert.Contains(t, snap.BodyScores, "eyes")
	assert.Contains(t, snap.HPScores, "compact")
	assert.Contains(t, snap.OutputScores, "few")
	assert.Contains(t, snap.StyleScores, "rhythmic")
	assert.Contains(t, snap.StyleScores, "modulation")
	assert.Contains(t, snap.StyleScores, "chaotic")
	assert.NotContains(t, snap.StyleScores, "tonal")
}

func TestRecordJudgmentClampsScore(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	m.RecordJudgment(testIdea(), 3.5, "")

	assert.Equal(t, 1.0, m.Snapshot().CategoryScores["LFO"].Score)
}

func TestRecordApprovalAndRejectionCounters(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	m.RecordApproval(testIdea(), "love it")
	m.RecordRejection(testIdea(), "too weird")

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.TotalApproved)
	assert.Equal(t, 1, snap.TotalRejected)
	assert.Equal(t, 2, snap.TotalRated)
}

func TestSummaryColdStart(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	for i := 0; i < 4; i++ {
		m.RecordJudgment(testIdea(), 1.0, "")
		assert.Equal(t, ColdStartSummary, m.Summary())
	}

	m.RecordJudgment(testIdea(), 1.0, "")
	summary := m.Summary()
	assert.NotEqual(t, ColdStartSummary, summary)
	assert.Contains(t, summary, "Millicent")
	assert.Contains(t, summary, "LFO")
}

func TestSummaryColdStartIgnoresScoreMagnitude(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	for i := 0; i < 4; i++ {
		m.RecordApproval(testIdea(), "")
	}

	assert.Equal(t, ColdStartSummary, m.Summary())
}

func TestPreferredHP(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})
	assert.Equal(t, "compact to medium", m.PreferredHP())

	m.RecordJudgment(testIdea(), 0.75, "")
	assert.Equal(t, "8 HP or less", m.PreferredHP())

	wide := testIdea()
	wide.HP = 20
	m.RecordJudgment(wide, 1.0, "")
	assert.Equal(t, "16+ HP", m.PreferredHP())
}

func TestTopCategoriesRanked(t *testing.T) {
	m := NewPreferenceModel(&fakePrefsRepo{})

	for i, cat := range []string{"Filter", "LFO", "Reverb"} {
		idea := testIdea()
		idea.Category = cat
		m.RecordJudgment(idea, float64(i)/2.0, "")
	}

	assert.Equal(t, []string{"Reverb", "LFO"}, m.TopCategories(2))
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	repo := &fakePrefsRepo{fail: true}
	m := NewPreferenceModel(repo)

	m.RecordJudgment(testIdea(), 1.0, "")

	assert.Equal(t, 1, m.Snapshot().TotalRated)
	assert.Equal(t, 1, repo.saves)
}

func TestJudgmentPersistsSynchronously(t *testing.T) {
	repo := &fakePrefsRepo{}
	m := NewPreferenceModel(repo)

	for i := 0; i < 3; i++ {
		m.RecordJudgment(testIdea(), 0.5, fmt.Sprintf("note %d", i))
	}

	require.Equal(t, 3, repo.saves)
	assert.Equal(t, 3, repo.last.TotalRated)
}
