package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weirdsynths/ideasd/internal/domain"
)

func candidateJSON(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(
			`{"name":"idea %d","tagline":"t","category":"Filter","hp":10,"concept":"c","keyFeature":"k","inputs":["IN"],"outputs":["OUT"],"params":["P"],"inspiration":"i","bodyPart":"jaw"}`, i+1))
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestExtractArrayPlain(t *testing.T) {
	arr, err := extractArray(`  [{"name":"A"}]  `)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"A"}]`, arr)
}

func TestExtractArrayFencedWithCommentary(t *testing.T) {
	raw := "Sure! Here are the ideas:\n```json\n[{\"name\":\"A\"}]\n```\nEnjoy!"
	arr, err := extractArray(raw)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"A"}]`, arr)
}

func TestExtractArraySurroundingProse(t *testing.T) {
	arr, err := extractArray(`here you go [{"name":"A"}] hope you like it`)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"A"}]`, arr)
}

func TestExtractArrayNoArray(t *testing.T) {
	_, err := extractArray("I could not generate ideas today, sorry.")
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
}

func TestParseIdeasAssignsSequentialIds(t *testing.T) {
	ideas, err := parseIdeas(candidateJSON(10), "2026-02-23", 10)
	require.NoError(t, err)
	require.Len(t, ideas, 10)

	for i, idea := range ideas {
		assert.Equal(t, fmt.Sprintf("20260223-%02d", i+1), idea.Id)
		assert.Equal(t, domain.StatusPending, idea.Status)
		assert.Equal(t, "2026-02-23", idea.Generated)
	}
}

func TestParseIdeasIgnoresExcessCandidates(t *testing.T) {
	ideas, err := parseIdeas(candidateJSON(14), "2026-02-23", 10)
	require.NoError(t, err)
	assert.Len(t, ideas, 10)
}

func TestParseIdeasDropsIncompleteCandidates(t *testing.T) {
	raw := `[{"name":"","concept":"c"},{"name":"KEEP","concept":"c"},{"name":"NOCONCEPT"}]`
	ideas, err := parseIdeas(raw, "2026-02-23", 10)
	require.NoError(t, err)
	require.Len(t, ideas, 1)
	assert.Equal(t, "KEEP", ideas[0].Name)
	assert.Equal(t, "20260223-01", ideas[0].Id)
}

func TestParseIdeasMalformedJSON(t *testing.T) {
	_, err := parseIdeas(`[{"name": "BROKEN",`, "2026-02-23", 10)
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
}

func TestParseIdeasAllDropped(t *testing.T) {
	_, err := parseIdeas(`[{"tagline":"no name or concept"}]`, "2026-02-23", 10)
	assert.ErrorIs(t, err, domain.ErrMalformedOutput)
}

func TestNormalizeBounds(t *testing.T) {
	hp := 99.0
	c := candidate{
		Name:     strings.Repeat("verylongname", 5),
		Tagline:  strings.Repeat("x", 400),
		HP:       &hp,
		Concept:  strings.Repeat("y", 900),
		Inputs:   make([]string, 12),
		BodyPart: "jaw",
	}

	idea := normalize(c, "2026-02-23", "20260223-01")

	assert.Len(t, idea.Name, domain.MaxNameLen)
	assert.Equal(t, strings.ToUpper(idea.Name), idea.Name)
	assert.Len(t, idea.Tagline, domain.MaxTaglineLen)
	assert.Len(t, idea.Concept, domain.MaxConceptLen)
	assert.Equal(t, domain.MaxHP, idea.HP)
	assert.Len(t, idea.Inputs, domain.MaxPortEntries)
	assert.Empty(t, idea.Outputs)
	assert.NotNil(t, idea.Outputs)
}

func TestNormalizeDefaults(t *testing.T) {
	low := 1.0
	c := candidate{Name: "tiny", Concept: "c", HP: &low}

	idea := normalize(c, "2026-02-23", "20260223-01")

	assert.Equal(t, "TINY", idea.Name)
	assert.Equal(t, domain.MinHP, idea.HP)
	assert.Equal(t, "Utility", idea.Category)
	assert.Equal(t, "face", idea.BodyPart)
}

func TestNormalizeDefaultHP(t *testing.T) {
	c := candidate{Name: "A", Concept: "c"}
	assert.Equal(t, 8, normalize(c, "2026-02-23", "20260223-01").HP)
}

func TestParseIdeasRoundTripsSerializedBatch(t *testing.T) {
	ideas, err := parseIdeas(candidateJSON(3), "2026-02-23", 10)
	require.NoError(t, err)

	out, err := json.Marshal(ideas)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"20260223-01"`)
}
