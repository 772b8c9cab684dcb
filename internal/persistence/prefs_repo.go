package persistence

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/weirdsynths/ideasd/internal/domain"
)

// PrefsRepo persists the learned preference state as a single JSON blob.
type PrefsRepo struct {
	Path string
}

// Load returns the persisted state, or a zero-valued default if the file is
// missing or corrupt. Losing learned bias is recoverable; blocking
// generation is not.
func (r PrefsRepo) Load() *domain.PreferenceState {
	state, err := readJSONFile[domain.PreferenceState](r.Path)

	if err != nil || state == nil {
		if err != nil && !os.IsNotExist(err) {
			slog.Error(fmt.Sprintf("failed to load preferences, starting fresh: %s", err.Error()))
		}
		return domain.NewPreferenceState()
	}

	if state.CategoryScores == nil {
		state.CategoryScores = map[string]domain.BucketScore{}
	}
	if state.HPScores == nil {
		state.HPScores = map[string]domain.BucketScore{}
	}
	if state.BodyScores == nil {
		state.BodyScores = map[string]domain.BucketScore{}
	}
	if state.OutputScores == nil {
		state.OutputScores = map[string]domain.BucketScore{}
	}
	if state.StyleScores == nil {
		state.StyleScores = map[string]domain.BucketScore{}
	}

	return state
}

func (r PrefsRepo) Save(state *domain.PreferenceState) error {
	return writeJSONAtomic(r.Path, state)
}
