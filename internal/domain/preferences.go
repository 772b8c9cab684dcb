package domain

// BucketScore is one learned preference bucket: an exponentially weighted
// running score in [0,1] plus the number of judgments that fed it.
type BucketScore struct {
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// PreferenceState is the whole persisted learning state. It is loaded once
// at startup and written back synchronously after every recorded judgment.
type PreferenceState struct {
	CategoryScores map[string]BucketScore `json:"category_scores"`
	HPScores       map[string]BucketScore `json:"hp_scores"`
	BodyScores     map[string]BucketScore `json:"body_scores"`
	OutputScores   map[string]BucketScore `json:"output_scores"`
	StyleScores    map[string]BucketScore `json:"style_scores"`
	TotalRated     int                    `json:"total_rated"`
	TotalApproved  int                    `json:"total_approved"`
	TotalRejected  int                    `json:"total_rejected"`
	LastUpdated    string                 `json:"last_updated,omitempty"`
}

func NewPreferenceState() *PreferenceState {
	return &PreferenceState{
		CategoryScores: map[string]BucketScore{},
		HPScores:       map[string]BucketScore{},
		BodyScores:     map[string]BucketScore{},
		OutputScores:   map[string]BucketScore{},
		StyleScores:    map[string]BucketScore{},
	}
}

// Clone returns a deep copy safe to hand out while judgments keep arriving.
func (s *PreferenceState) Clone() *PreferenceState {
	c := *s
	c.CategoryScores = cloneScores(s.CategoryScores)
	c.HPScores = cloneScores(s.HPScores)
	c.BodyScores = cloneScores(s.BodyScores)
	c.OutputScores = cloneScores(s.OutputScores)
	c.StyleScores = cloneScores(s.StyleScores)
	return &c
}

func cloneScores(m map[string]BucketScore) map[string]BucketScore {
	c := make(map[string]BucketScore, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
