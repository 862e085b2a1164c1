package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/fridgechef/marcel/internal/cache"
	"github.com/fridgechef/marcel/internal/httpclient"
	"github.com/fridgechef/marcel/internal/metrics"
	"github.com/fridgechef/marcel/internal/services/ai"
)

const (
	chatModel = "gpt-4"
	imageSize = "512x512"

	// MaxRecipeIdeas caps the number of ideas returned per request. Longer
	// model output is truncated; shorter output passes through.
	MaxRecipeIdeas = 6

	validationTemperature = 0.3
	ideasTemperature      = 0.8
	detailTemperature     = 0.7
)

var (
	ErrNoResponse     = errors.New("no response from OpenAI")
	ErrNoImage        = errors.New("no image returned")
	ErrMalformedIdeas = errors.New("malformed recipe ideas from model")
)

// RecipeIdea is one recipe concept proposed by the text model. ImageURL and
// ValidationInfo are attached later by the orchestrator.
type RecipeIdea struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	AdditionalIngredients []string `json:"additionalIngredients"`
	TimeEstimate          string   `json:"timeEstimate"`
	Difficulty            string   `json:"difficulty"`
	ImageURL              string   `json:"imageUrl,omitempty"`
	ValidationInfo        string   `json:"validationInfo,omitempty"`
}

// Client wraps the OpenAI chat-completion and image-generation APIs.
// Ingredient validation results are memoized through the injected cache.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	validation cache.Cache
}

func NewClient(apiKey string, validationCache cache.Cache) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: httpclient.InstrumentedClient,
		validation: validationCache,
	}
}

// Complete sends one system message and one user message to the chat model
// and returns the trimmed primary response text.
func (c *Client) Complete(ctx context.Context, systemRole, prompt string, temperature float64) (string, error) {
	content, err := c.callChat(ctx, chatModel, systemRole, prompt, temperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// GenerateImage requests a single image at a fixed resolution and returns
// the source URL reported by the API.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return c.callImageGeneration(ctx, prompt)
}

// validationKey builds a cache key independent of ingredient order.
func validationKey(ingredients []string) string {
	sorted := make([]string, len(ingredients))
	copy(sorted, ingredients)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}

// ValidateIngredients asks the model whether the ingredients are sensible
// cooking inputs and what they could make. Results are memoized per
// ingredient set for the lifetime of the cache.
func (c *Client) ValidateIngredients(ctx context.Context, ingredients []string) (string, error) {
	key := validationKey(ingredients)

	if c.validation != nil {
		if cached, ok, err := c.validation.Get(ctx, key); err == nil && ok {
			metrics.AddCounter(ctx, metrics.ValidationCacheHitsTotal, 1)
			return cached, nil
		}
		metrics.AddCounter(ctx, metrics.ValidationCacheMissesTotal, 1)
	}

	result, err := c.Complete(ctx, ai.RoleIngredientValidator, ai.ValidationPrompt(ingredients), validationTemperature)
	if err != nil {
		return "", err
	}

	if c.validation != nil {
		if err := c.validation.Set(ctx, key, result, 0); err != nil {
			slog.Warn("Failed to cache validation result", "error", err)
		}
	}

	return result, nil
}

// GenerateRecipeIdeas asks the model for recipe ideas and parses the JSON
// array it returns. Output that does not match the expected shape is an
// upstream generation failure, not a bare parse error.
func (c *Client) GenerateRecipeIdeas(ctx context.Context, ingredients []string) ([]RecipeIdea, error) {
	content, err := c.Complete(ctx, ai.RoleIdeaGenerator, ai.RecipeIdeasPrompt(ingredients), ideasTemperature)
	if err != nil {
		return nil, err
	}

	ideas, err := parseRecipeIdeas(content)
	if err != nil {
		return nil, err
	}

	if len(ideas) > MaxRecipeIdeas {
		ideas = ideas[:MaxRecipeIdeas]
	} else if len(ideas) < MaxRecipeIdeas {
		slog.Warn("Model returned fewer recipe ideas than requested", "count", len(ideas))
	}

	return ideas, nil
}

// GenerateDetailedRecipe produces the full free-form recipe text for a
// chosen idea.
func (c *Client) GenerateDetailedRecipe(ctx context.Context, recipeName string, ingredients []string) (string, error) {
	return c.Complete(ctx, ai.RoleRecipeWriter, ai.DetailedRecipePrompt(recipeName, ingredients), detailTemperature)
}

// GenerateNutritionAnalysis produces the nutrition breakdown text.
func (c *Client) GenerateNutritionAnalysis(ctx context.Context, recipeName string, ingredients []string) (string, error) {
	return c.Complete(ctx, ai.RoleNutritionist, ai.NutritionPrompt(recipeName, ingredients), validationTemperature)
}

var validDifficulties = map[string]string{
	"easy":   "Easy",
	"medium": "Medium",
	"hard":   "Hard",
}

func parseRecipeIdeas(content string) ([]RecipeIdea, error) {
	content = stripCodeFence(content)

	var ideas []RecipeIdea
	if err := json.Unmarshal([]byte(content), &ideas); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIdeas, err)
	}
	if len(ideas) == 0 {
		return nil, fmt.Errorf("%w: empty idea list", ErrMalformedIdeas)
	}

	for i := range ideas {
		normalized, ok := validDifficulties[strings.ToLower(ideas[i].Difficulty)]
		if !ok {
			return nil, fmt.Errorf("%w: idea %q has invalid difficulty %q", ErrMalformedIdeas, ideas[i].Name, ideas[i].Difficulty)
		}
		ideas[i].Difficulty = normalized
	}

	return ideas, nil
}

// stripCodeFence removes a surrounding markdown code fence, which chat
// models emit around JSON despite instructions not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
