package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("marcel/business")

	// Recipe metrics
	RecipeGenerationsTotal   metric.Int64Counter
	RecipeGenerationDuration metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// Validation cache metrics
	ValidationCacheHitsTotal   metric.Int64Counter
	ValidationCacheMissesTotal metric.Int64Counter

	// Image metrics
	ImagesStoredTotal  metric.Int64Counter
	ImageFailuresTotal metric.Int64Counter
)

func Init() error {
	var err error

	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeGenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("Duration of the full recipe generation flow"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	ValidationCacheHitsTotal, err = meter.Int64Counter(
		"validation.cache.hits.total",
		metric.WithDescription("Ingredient validation cache hits"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ValidationCacheMissesTotal, err = meter.Int64Counter(
		"validation.cache.misses.total",
		metric.WithDescription("Ingredient validation cache misses"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ImagesStoredTotal, err = meter.Int64Counter(
		"images.stored.total",
		metric.WithDescription("Total number of recipe images persisted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ImageFailuresTotal, err = meter.Int64Counter(
		"images.failures.total",
		metric.WithDescription("Recipe image generation or persistence failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
