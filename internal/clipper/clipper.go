package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"kondate-planner/internal/llm"
	"kondate-planner/internal/recipe"
)

// RecipeSaver persists clipped recipes.
type RecipeSaver interface {
	Save(ctx context.Context, rec *recipe.Recipe) error
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	repo    RecipeSaver
	textGen llm.TextGenerator
}

// NewClipper creates a new Clipper instance.
func NewClipper(repo RecipeSaver, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		repo:    repo,
		textGen: textGen,
	}
}

// extractedRecipe is the shape the AI returns before it becomes a stored recipe.
type extractedRecipe struct {
	Title       string              `json:"title"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
	Servings    string              `json:"servings"`
	Tags        []string            `json:"tags"`
}

// ClipURL fetches the URL, extracts the recipe using AI, and saves it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*recipe.Recipe, error) {
	// 1. Fetch and Clean HTML
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	// 2. Extract Data via the LLM
	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "ingredients": [{"name": "ingredient name", "amount": "free-text amount"}, ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "servings": "e.g. 4 people",
  "tags": ["tag1", "tag2"]
}

Ensure the output is valid JSON. Return ONLY the raw JSON string.

Page Content:
%s
`, content)

	llmResponse, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal([]byte(llmResponse), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}

	// 3. Save as a stored recipe
	now := time.Now().UTC()
	rec := &recipe.Recipe{
		ID:          uuid.New().String(),
		Title:       extracted.Title,
		Ingredients: extracted.Ingredients,
		Steps:       extracted.Steps,
		Servings:    extracted.Servings,
		Tags:        extracted.Tags,
		SourceURL:   url,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save clipped recipe: %w", err)
	}

	return rec, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
