package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kondate-planner/internal/llm"
)

// Generator asks the LLM for a structured recipe. The model is a black box
// here: it takes a request and returns recipe JSON, nothing else.
type Generator struct {
	textGen llm.TextGenerator
}

// NewGenerator creates a new Generator.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate produces a recipe for the given user request, e.g.
// "a quick weeknight dinner with pork and cabbage".
func (g *Generator) Generate(ctx context.Context, request string) (*Recipe, error) {
	prompt := fmt.Sprintf(`
You are a home-cooking assistant. Create one recipe matching the user's request.

User request: "%s"

Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe name",
  "ingredients": [{"name": "ingredient name", "amount": "free-text amount, e.g. 200g or 大さじ1"}, ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "servings": "e.g. 2 people",
  "tags": ["tag1", "tag2"]
}

Ensure the output is valid JSON. Return ONLY the raw JSON string.
Do not wrap the response in markdown code blocks.
`, request)

	resp, err := g.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse recipe JSON: %w. Response: %s", err, resp)
	}

	now := time.Now().UTC()
	rec.ID = uuid.New().String()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return &rec, nil
}

// stripCodeFence removes a markdown code fence if the model wrapped its
// output in one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
