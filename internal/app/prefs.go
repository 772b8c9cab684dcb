package app

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/weirdsynths/ideasd/internal/domain"
)

// Smoothing factor for the exponential moving average score update.
const emaAlpha = 0.3

// Below this many recorded judgments the summary stays at the cold-start
// sentinel so thin signal never biases generation.
const coldStartMin = 5

const ColdStartSummary = "No strong preferences learned yet (keep rating to improve!)"

type PrefsRepo interface {
	Load() *domain.PreferenceState
	Save(state *domain.PreferenceState) error
}

// PreferenceModel learns the reviewer's taste from ratings and approvals.
// It keeps weighted scores across category, HP width, body part, output
// count and concept style tags, and persists after every judgment.
type PreferenceModel struct {
	repo PrefsRepo
	now  func() time.Time

	mu    sync.Mutex
	state *domain.PreferenceState
}

func NewPreferenceModel(repo PrefsRepo) *PreferenceModel {
	return &PreferenceModel{repo: repo, now: time.Now, state: repo.Load()}
}

// RecordJudgment folds a normalized score in [0,1] into every bucket the
// idea belongs to and persists the state synchronously.
func (m *PreferenceModel) RecordJudgment(idea domain.Idea, score float64, note string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordLocked(idea, score)
	m.persistLocked()
}

func (m *PreferenceModel) RecordApproval(idea domain.Idea, critique string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordLocked(idea, 1.0)
	m.state.TotalApproved++
	m.persistLocked()
}

func (m *PreferenceModel) RecordRejection(idea domain.Idea, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.recordLocked(idea, 0.0)
	m.state.TotalRejected++
	m.persistLocked()
}

func (m *PreferenceModel) recordLocked(idea domain.Idea, score float64) {
	r := math.Max(0.0, math.Min(1.0, score))

	category := idea.Category
	if category == "" {
		category = "Unknown"
	}
	bodyPart := idea.BodyPart
	if bodyPart == "" {
		bodyPart = "unknown"
	}

	updateScore(m.state.CategoryScores, category, r)
	updateScore(m.state.BodyScores, bodyPart, r)
	updateScore(m.state.HPScores, domain.HPBucket(idea.HP), r)
	updateScore(m.state.OutputScores, domain.OutputBucket(len(idea.Outputs)), r)

	text := strings.ToLower(idea.Concept + " " + idea.KeyFeature)
	for _, tag := range domain.StyleTags {
		if strings.Contains(text, tag) {
			updateScore(m.state.StyleScores, tag, r)
		}
	}

	m.state.TotalRated++
	m.state.LastUpdated = m.now().Format(time.RFC3339)
}

func updateScore(scores map[string]domain.BucketScore, key string, r float64) {
	prev, ok := scores[key]
	if !ok {
		scores[key] = domain.BucketScore{Score: r, Count: 1}
		return
	}
	scores[key] = domain.BucketScore{
		Score: emaAlpha*r + (1-emaAlpha)*prev.Score,
		Count: prev.Count + 1,
	}
}

// A preference persistence failure is logged but does not block the
// judgment: the in-memory state stays authoritative for the process life.
func (m *PreferenceModel) persistLocked() {
	err := m.repo.Save(m.state)

	if err != nil {
		slog.Error(fmt.Sprintf("failed to persist preferences: %s", err.Error()))
	}
}

func (m *PreferenceModel) Snapshot() *domain.PreferenceState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.Clone()
}

func (m *PreferenceModel) TopCategories(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return topKeys(m.state.CategoryScores, n)
}

func (m *PreferenceModel) TopBodyParts(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return topKeys(m.state.BodyScores, n)
}

func (m *PreferenceModel) PreferredStyles(n int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return topKeys(m.state.StyleScores, n)
}

func (m *PreferenceModel) PreferredHP() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return preferredHP(m.state)
}

// Summary builds the natural-language bias description injected into the
// generation prompt.
func (m *PreferenceModel) Summary() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.TotalRated < coldStartMin {
		return ColdStartSummary
	}

	var parts []string
	if cats := topKeys(m.state.CategoryScores, 3); len(cats) > 0 {
		parts = append(parts, fmt.Sprintf("tends to favour %s modules", strings.Join(cats, ", ")))
	}
	if bps := topKeys(m.state.BodyScores, 2); len(bps) > 0 {
		parts = append(parts, fmt.Sprintf("responds well to ideas using %s", strings.Join(bps, " and ")))
	}
	parts = append(parts, fmt.Sprintf("prefers %s width", preferredHP(m.state)))
	if styles := topKeys(m.state.StyleScores, 2); len(styles) > 0 {
		parts = append(parts, fmt.Sprintf("leans toward %s concepts", strings.Join(styles, " and ")))
	}

	return "Millicent " + strings.Join(parts, ", ") + "."
}

func preferredHP(state *domain.PreferenceState) string {
	if len(state.HPScores) == 0 {
		return "compact to medium"
	}

	best := topKeys(state.HPScores, 1)[0]
	phrases := map[string]string{
		"compact": "8 HP or less",
		"medium":  "8-14 HP",
		"wide":    "16+ HP",
	}
	return phrases[best]
}

// topKeys ranks bucket keys by score, highest first. Ties break on key so
// the ordering is stable across calls.
func topKeys(scores map[string]domain.BucketScore, n int) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		si, sj := scores[keys[i]].Score, scores[keys[j]].Score
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})

	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
