package domain

import "errors"

// Idea lifecycle statuses. Each status maps to one storage partition.
const (
	StatusPending       = "pending"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusNeedsRevision = "needs-revision"
)

var (
	ErrNotFound           = errors.New("idea not found error")
	ErrBackendUnavailable = errors.New("no generation backend available error")
	ErrMalformedOutput    = errors.New("malformed generation output error")
)

// Idea is one generated module concept moving through the review lifecycle.
type Idea struct {
	Id          string   `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Category    string   `json:"category"`
	HP          int      `json:"hp"`
	Concept     string   `json:"concept"`
	KeyFeature  string   `json:"keyFeature"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	Params      []string `json:"params"`
	Inspiration string   `json:"inspiration"`
	BodyPart    string   `json:"bodyPart"`
	Generated   string   `json:"generated"`
	Status      string   `json:"status"`
	Rating      *float64 `json:"rating"`
	Critique    string   `json:"critique"`
	ApprovedAt  string   `json:"approved_at,omitempty"`
}

// Batch is the immutable record of one day's generation. Status changes
// after generation live on the per-idea lifecycle records only.
type Batch struct {
	Date  string `json:"date"`
	RunId string `json:"run_id,omitempty"`
	Ideas []Idea `json:"ideas"`
}

// FeedMeta describes the rolling approved feed consumed by the review page.
type FeedMeta struct {
	Plugin        string `json:"plugin"`
	Description   string `json:"description"`
	LastGenerated string `json:"lastGenerated"`
	TotalIdeas    int    `json:"totalIdeas"`
}

type Feed struct {
	Meta  FeedMeta `json:"meta"`
	Ideas []Idea   `json:"ideas"`
}

var Categories = []string{
	"Oscillator", "Filter", "Envelope", "LFO", "Sequencer",
	"Effect", "Utility", "Mixer", "CV Source", "Clock",
	"Sampler", "Granular", "Reverb", "Delay", "Distortion",
	"Waveshaper", "Spectral", "Physical Model", "Rhythm", "Generative",
}

var BodyParts = []string{
	"eyes", "mouth", "nose", "eyebrows", "cheeks",
	"head-tilt", "jaw", "forehead", "hands", "full-body",
	"breath", "heartbeat", "gaze", "pupils", "lips",
}

// StyleTags is the fixed vocabulary scanned for in an idea's free text when
// updating style preference buckets.
var StyleTags = []string{
	"rhythmic", "tonal", "textural", "generative", "modulation",
	"performance", "expressive", "abstract", "physical", "chaotic",
}

// Field bounds enforced on every candidate during validation.
const (
	MinHP          = 4
	MaxHP          = 24
	MaxNameLen     = 20
	MaxTaglineLen  = 100
	MaxConceptLen  = 500
	MaxFeatureLen  = 200
	MaxInspoLen    = 200
	MaxPortEntries = 8
)

// HPBucket maps a module width to its preference bucket.
func HPBucket(hp int) string {
	if hp <= 8 {
		return "compact"
	}
	if hp >= 16 {
		return "wide"
	}
	return "medium"
}

// OutputBucket maps an output-port count to its preference bucket.
func OutputBucket(n int) string {
	if n <= 3 {
		return "few"
	}
	if n >= 6 {
		return "many"
	}
	return "normal"
}
