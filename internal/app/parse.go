package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/weirdsynths/ideasd/internal/domain"
)

// candidate is one raw idea object as emitted by a backend, before
// validation. Every field is optional at this stage; bounds are enforced in
// normalize.
type candidate struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	Category    string   `json:"category"`
	HP          *float64 `json:"hp"`
	Concept     string   `json:"concept"`
	KeyFeature  string   `json:"keyFeature"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	Params      []string `json:"params"`
	Inspiration string   `json:"inspiration"`
	BodyPart    string   `json:"bodyPart"`
}

// extractArray locates the outermost JSON array in a backend response,
// tolerating markdown fences and surrounding commentary.
func extractArray(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, "```") {
		parts := strings.Split(raw, "```")
		if len(parts) > 1 {
			raw = strings.TrimPrefix(strings.TrimSpace(parts[1]), "json")
		}
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no json array found in response", domain.ErrMalformedOutput)
	}

	return raw[start : end+1], nil
}

// parseIdeas validates and normalizes backend output into at most limit
// pending ideas for the given date. Candidates without a name or concept
// are dropped; excess candidates beyond the limit are ignored.
func parseIdeas(raw string, date string, limit int) ([]domain.Idea, error) {
	arr, err := extractArray(raw)

	if err != nil {
		return nil, err
	}

	var candidates []candidate
	if err = json.Unmarshal([]byte(arr), &candidates); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrMalformedOutput, err.Error())
	}

	slug := strings.ReplaceAll(date, "-", "")
	ideas := make([]domain.Idea, 0, limit)
	for _, c := range candidates {
		if len(ideas) >= limit {
			break
		}
		if c.Name == "" || c.Concept == "" {
			continue
		}
		id := fmt.Sprintf("%s-%02d", slug, len(ideas)+1)
		ideas = append(ideas, normalize(c, date, id))
	}

	if len(ideas) == 0 {
		return nil, fmt.Errorf("%w: no valid ideas in response", domain.ErrMalformedOutput)
	}

	return ideas, nil
}

func normalize(c candidate, date string, id string) domain.Idea {
	hp := 8
	if c.HP != nil {
		hp = int(*c.HP)
	}
	category := c.Category
	if category == "" {
		category = "Utility"
	}
	bodyPart := c.BodyPart
	if bodyPart == "" {
		bodyPart = "face"
	}

	return domain.Idea{
		Id:          id,
		Name:        truncate(strings.ToUpper(c.Name), domain.MaxNameLen),
		Tagline:     truncate(c.Tagline, domain.MaxTaglineLen),
		Category:    category,
		HP:          clampInt(hp, domain.MinHP, domain.MaxHP),
		Concept:     truncate(c.Concept, domain.MaxConceptLen),
		KeyFeature:  truncate(c.KeyFeature, domain.MaxFeatureLen),
		Inputs:      capList(c.Inputs, domain.MaxPortEntries),
		Outputs:     capList(c.Outputs, domain.MaxPortEntries),
		Params:      capList(c.Params, domain.MaxPortEntries),
		Inspiration: truncate(c.Inspiration, domain.MaxInspoLen),
		BodyPart:    bodyPart,
		Generated:   date,
		Status:      domain.StatusPending,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clampInt(v int, min int, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func capList(list []string, max int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}
