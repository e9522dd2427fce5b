package recipe

import (
	"context"
	"fmt"
	"testing"
)

type MockTextGenerator struct {
	Response    string
	ShouldError bool
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if m.ShouldError {
		return "", fmt.Errorf("mock ai error")
	}
	return m.Response, nil
}

func TestGenerate(t *testing.T) {
	aiResponse := `{"title": "生姜焼き", "ingredients": [{"name": "豚肉", "amount": "200g"}, {"name": "生姜", "amount": "1かけ"}], "steps": ["Slice", "Fry"], "servings": "2 people", "tags": ["quick"]}`

	g := NewGenerator(&MockTextGenerator{Response: aiResponse})

	rec, err := g.Generate(context.Background(), "quick pork dinner")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if rec.Title != "生姜焼き" {
		t.Errorf("Expected title '生姜焼き', got '%s'", rec.Title)
	}
	if len(rec.Ingredients) != 2 || rec.Ingredients[0].Name != "豚肉" || rec.Ingredients[0].Amount != "200g" {
		t.Errorf("Unexpected ingredients: %+v", rec.Ingredients)
	}
	if rec.ID == "" {
		t.Error("Expected a generated recipe ID")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestGenerate_FencedResponse(t *testing.T) {
	aiResponse := "```json\n{\"title\": \"Pancakes\", \"ingredients\": [], \"steps\": [], \"servings\": \"2\", \"tags\": []}\n```"

	g := NewGenerator(&MockTextGenerator{Response: aiResponse})

	rec, err := g.Generate(context.Background(), "pancakes")
	if err != nil {
		t.Fatalf("Generate failed on fenced response: %v", err)
	}
	if rec.Title != "Pancakes" {
		t.Errorf("Expected title 'Pancakes', got '%s'", rec.Title)
	}
}

func TestGenerate_BadJSON(t *testing.T) {
	g := NewGenerator(&MockTextGenerator{Response: "sorry, I can't do that"})

	if _, err := g.Generate(context.Background(), "anything"); err == nil {
		t.Fatal("Expected an error for unparseable LLM output")
	}
}

func TestGenerate_LLMError(t *testing.T) {
	g := NewGenerator(&MockTextGenerator{ShouldError: true})

	if _, err := g.Generate(context.Background(), "anything"); err == nil {
		t.Fatal("Expected the LLM error to propagate")
	}
}
