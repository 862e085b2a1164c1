// Package recipe orchestrates the two-stage recipe generation flow: a
// concurrent validation + idea-generation stage, then a bounded image
// fan-out that attaches artwork to each idea.
package recipe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fridgechef/marcel/internal/errors"
	"github.com/fridgechef/marcel/internal/metrics"
	"github.com/fridgechef/marcel/internal/services/ai"
	"github.com/fridgechef/marcel/internal/services/openai"
	"github.com/fridgechef/marcel/internal/worker"
)

// maxConcurrentImages caps in-flight image generation tasks per request.
const maxConcurrentImages = 3

// AIProvider is the subset of the model client the orchestrator needs.
type AIProvider interface {
	ValidateIngredients(ctx context.Context, ingredients []string) (string, error)
	GenerateRecipeIdeas(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error)
	GenerateDetailedRecipe(ctx context.Context, recipeName string, ingredients []string) (string, error)
	GenerateNutritionAnalysis(ctx context.Context, recipeName string, ingredients []string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageStore persists a generated image and returns its serving URL.
type ImageStore interface {
	Persist(ctx context.Context, sourceURL, recipeName string) (string, error)
}

// Service coordinates the model client and the image store.
type Service struct {
	ai     AIProvider
	images ImageStore
}

func NewService(provider AIProvider, images ImageStore) *Service {
	return &Service{ai: provider, images: images}
}

// GenerateRecipes validates the ingredients and generates recipe ideas
// concurrently, then fans out image generation across the ideas. Image
// failures are tolerated per idea; every idea comes back, with or without
// an image URL.
func (s *Service) GenerateRecipes(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error) {
	if len(ingredients) < 2 {
		return nil, errors.NewClientInputError("Please provide at least 2 ingredients", "INSUFFICIENT_INGREDIENTS")
	}

	start := time.Now()
	metrics.AddCounter(ctx, metrics.RecipeGenerationsTotal, 1)
	defer metrics.RecordDuration(ctx, metrics.RecipeGenerationDuration, start)

	var (
		validationInfo string
		ideas          []openai.RecipeIdea
	)

	result := worker.RunParallel(ctx, []worker.ParallelFunc{
		func(ctx context.Context) error {
			info, err := s.ai.ValidateIngredients(ctx, ingredients)
			if err != nil {
				return err
			}
			validationInfo = info
			return nil
		},
		func(ctx context.Context) error {
			generated, err := s.ai.GenerateRecipeIdeas(ctx, ingredients)
			if err != nil {
				return err
			}
			ideas = generated
			return nil
		},
	})
	if len(result.Errors) > 0 {
		return nil, errors.NewGenerationError("Failed to generate recipes", "GENERATION_FAILED", 400, result.Errors[0])
	}

	s.attachImages(ctx, ideas, validationInfo)
	return ideas, nil
}

// attachImages generates and persists an image per idea with bounded
// concurrency, matching each finished task back to its idea by index.
// Ideas without a name are skipped. Failures only log; the idea keeps an
// empty image URL.
func (s *Service) attachImages(ctx context.Context, ideas []openai.RecipeIdea, validationInfo string) {
	var pending []int
	for i := range ideas {
		ideas[i].ValidationInfo = validationInfo
		if strings.TrimSpace(ideas[i].Name) == "" {
			slog.Warn("Skipping image generation for unnamed recipe idea", "index", i)
			continue
		}
		pending = append(pending, i)
	}

	results := worker.FanOut(ctx, pending, maxConcurrentImages, func(ctx context.Context, idx int) (string, error) {
		name := ideas[idx].Name
		sourceURL, err := s.ai.GenerateImage(ctx, ai.ImagePrompt(name))
		if err != nil {
			return "", err
		}
		return s.images.Persist(ctx, sourceURL, name)
	})

	for result := range results {
		if result.Err != nil {
			metrics.AddCounter(ctx, metrics.ImageFailuresTotal, 1)
			slog.Error("Image generation failed for recipe",
				"recipe", ideas[result.Key].Name,
				"error", result.Err)
			continue
		}
		ideas[result.Key].ImageURL = result.Value
	}
}

// GetRecipeDetails fetches the full recipe text and its nutrition analysis
// concurrently. Missing details is fatal; missing nutrition is tolerated
// and reported as an empty string.
func (s *Service) GetRecipeDetails(ctx context.Context, recipeName string, ingredients []string) (string, string, error) {
	if strings.TrimSpace(recipeName) == "" {
		return "", "", errors.NewClientInputError("Recipe name is required", "MISSING_RECIPE_NAME")
	}

	var details, nutrition string

	result := worker.RunParallel(ctx, []worker.ParallelFunc{
		func(ctx context.Context) error {
			text, err := s.ai.GenerateDetailedRecipe(ctx, recipeName, ingredients)
			if err != nil {
				return err
			}
			details = text
			return nil
		},
		func(ctx context.Context) error {
			text, err := s.ai.GenerateNutritionAnalysis(ctx, recipeName, ingredients)
			if err != nil {
				slog.Warn("Nutrition analysis unavailable", "recipe", recipeName, "error", err)
			} else {
				nutrition = text
			}
			return nil
		},
	})
	if len(result.Errors) > 0 || details == "" {
		err := error(nil)
		if len(result.Errors) > 0 {
			err = result.Errors[0]
		}
		return "", "", errors.NewGenerationError("Failed to get recipe details", "DETAILS_FAILED", 500, err)
	}

	return details, nutrition, nil
}

// GetNutritionInfo fetches the nutrition breakdown alone. Here absence is
// an error, unlike the tolerated branch in GetRecipeDetails.
func (s *Service) GetNutritionInfo(ctx context.Context, recipeName string, ingredients []string) (string, error) {
	nutrition, err := s.ai.GenerateNutritionAnalysis(ctx, recipeName, ingredients)
	if err != nil || nutrition == "" {
		return "", errors.NewGenerationError("Failed to get nutrition information", "NUTRITION_FAILED", 500, err)
	}
	return nutrition, nil
}
