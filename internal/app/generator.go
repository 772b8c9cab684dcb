package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weirdsynths/ideasd/internal/domain"
)

const (
	genMaxTokens   = 3000
	genTemperature = 0.85

	// Both the do-not-repeat lookback and the approved-feed window.
	lookbackDays = 30

	// Avoid-list names injected into the prompt are capped so the prompt
	// stays within the local model's context.
	promptAvoidCap = 20
)

// GenerationBackend is one strategy in the backend chain: send a prompt,
// get raw text back within a bounded timeout, or fail.
type GenerationBackend interface {
	Name() string
	Call(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

type IdeaStore interface {
	SaveBatch(batch domain.Batch) error
	BatchExists(date string) bool
	WritePending(ideas []domain.Idea) error
	ListPending() ([]domain.Idea, error)
	ListApproved() ([]domain.Idea, error)
	Find(id string) (*domain.Idea, error)
	Move(idea domain.Idea, status string) error
	RecentNames(days int) ([]string, error)
	WriteFeed(feed domain.Feed) error
}

// Generator produces the daily idea batch: it builds a prompt from the
// learned preference summary, walks the backend chain, validates the
// output and commits the result to the store.
type Generator struct {
	Store    IdeaStore
	Backends []GenerationBackend
	PerDay   int
	Now      func() time.Time
}

// GenerateDaily runs one generation cycle for the current date. With dryRun
// set, nothing is persisted and the parsed ideas are returned as-is.
//
// A second invocation for the same date overwrites the batch file and
// regenerates pending records; callers use the scheduler's
// already-generated check to avoid clobbering reviewer-visible state.
func (g Generator) GenerateDaily(ctx context.Context, prefSummary string, dryRun bool) ([]domain.Idea, error) {
	date := g.Now().Format("2006-01-02")
	runId := uuid.New().String()
	slog.Info(fmt.Sprintf("generating %d ideas for %s (run %s)", g.PerDay, date, runId))

	prompt := g.buildPrompt(prefSummary)

	raw, err := g.callChain(ctx, prompt)

	if err != nil {
		slog.Warn(fmt.Sprintf("no response from any backend (%s), using procedural fallback", err.Error()))
		raw = proceduralBatch(date, g.PerDay)
	}

	ideas, err := parseIdeas(raw, date, g.PerDay)

	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("parsed %d valid ideas", len(ideas)))

	if dryRun {
		return ideas, nil
	}

	if err = g.Store.SaveBatch(domain.Batch{Date: date, RunId: runId, Ideas: ideas}); err != nil {
		return nil, fmt.Errorf("save batch: %w", err)
	}
	if err = g.Store.WritePending(ideas); err != nil {
		return nil, fmt.Errorf("write pending: %w", err)
	}
	if err = g.UpdateFeed(); err != nil {
		return nil, fmt.Errorf("update feed: %w", err)
	}

	return ideas, nil
}

// callChain attempts the configured backends in order and returns the first
// successful completion. Failures are carried as values so the fallback
// order stays visible in the control flow.
func (g Generator) callChain(ctx context.Context, prompt string) (string, error) {
	if len(g.Backends) == 0 {
		return "", domain.ErrBackendUnavailable
	}

	var errs []error
	for _, backend := range g.Backends {
		text, err := backend.Call(ctx, prompt, genMaxTokens, genTemperature)
		if err != nil {
			slog.Error(fmt.Sprintf("%s backend failed: %s", backend.Name(), err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			continue
		}
		return text, nil
	}

	return "", errors.Join(errs...)
}

func (g Generator) buildPrompt(prefSummary string) string {
	names, err := g.Store.RecentNames(lookbackDays)

	if err != nil {
		slog.Error(fmt.Sprintf("failed to load recent idea names: %s", err.Error()))
	}

	avoid := ""
	if len(names) > 0 {
		if len(names) > promptAvoidCap {
			names = names[:promptAvoidCap]
		}
		avoid = fmt.Sprintf("\nDo NOT generate ideas named: %s.\n", strings.Join(names, ", "))
	}

	return fmt.Sprintf(`You are a master synthesizer module designer for VCV Rack Pro 2.
The plugin is called WeirdSynths, all modules use webcam face/body tracking as control input.
A Raspberry Pi 5 with Hailo-10H NPU does the tracking in real-time.

%s

Generate exactly %d original, innovative, diverse VCV Rack module ideas.
Each must use a different face/body tracking input (eyes, mouth, nose-tip, brow, jaw, head-tilt, breath, etc.).
Aim for variety across categories. Think weird, expressive, and musically useful.
%s
Output ONLY valid JSON, an array of exactly %d objects. Each object:
{
  "name": "MODULE_NAME",
  "tagline": "one-line poetic description",
  "category": "<one of: %s...>",
  "hp": <integer 4-20>,
  "concept": "2-3 sentence description of what it does and why it's interesting",
  "keyFeature": "the single most unique/compelling thing about it",
  "inputs": ["port names"],
  "outputs": ["port names"],
  "params": ["knob/switch names"],
  "inspiration": "what inspired this, a real instrument, phenomenon, or technique",
  "bodyPart": "<primary face/body input used>"
}

Be inventive. Prioritise musical usefulness AND weirdness. Make Millicent excited.
Output JSON array only, no preamble, no explanation.`,
		prefSummary, g.PerDay, avoid, g.PerDay, strings.Join(domain.Categories[:10], ", "))
}

// UpdateFeed recomputes the rolling feed of approved ideas from the last 30
// days, newest first.
func (g Generator) UpdateFeed() error {
	approved, err := g.Store.ListApproved()

	if err != nil {
		return err
	}

	cutoff := g.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
	ideas := make([]domain.Idea, 0, len(approved))
	for _, idea := range approved {
		if idea.Generated >= cutoff {
			ideas = append(ideas, idea)
		}
	}

	sort.Slice(ideas, func(i, j int) bool {
		if ideas[i].Generated != ideas[j].Generated {
			return ideas[i].Generated > ideas[j].Generated
		}
		return ideas[i].Id > ideas[j].Id
	})

	feed := domain.Feed{
		Meta: domain.FeedMeta{
			Plugin:        "WeirdSynths",
			Description:   "AI-generated VCV Rack module ideas, rate them to build the roadmap",
			LastGenerated: g.Now().Format("2006-01-02"),
			TotalIdeas:    len(ideas),
		},
		Ideas: ideas,
	}

	return g.Store.WriteFeed(feed)
}
