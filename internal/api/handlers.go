package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/fridgechef/marcel/internal/errors"
	"github.com/fridgechef/marcel/internal/services/images"
	"github.com/fridgechef/marcel/internal/services/openai"
)

type GenerateRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
}

type GenerateRecipesResponse struct {
	Recipes []openai.RecipeIdea `json:"recipes"`
}

func (s *Server) HandleGenerateRecipes(w http.ResponseWriter, r *http.Request) {
	var req GenerateRecipesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	recipes, err := s.recipes.GenerateRecipes(r.Context(), req.Ingredients)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateRecipesResponse{Recipes: recipes})
}

type RecipeDetailsRequest struct {
	RecipeName  string   `json:"recipeName"`
	Ingredients []string `json:"ingredients"`
}

type RecipeDetailsResponse struct {
	Recipe            string  `json:"recipe"`
	NutritionAnalysis *string `json:"nutritionAnalysis"`
}

func (s *Server) HandleRecipeDetails(w http.ResponseWriter, r *http.Request) {
	var req RecipeDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	details, nutrition, err := s.recipes.GetRecipeDetails(r.Context(), req.RecipeName, req.Ingredients)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := RecipeDetailsResponse{Recipe: details}
	if nutrition != "" {
		resp.NutritionAnalysis = &nutrition
	}
	writeJSON(w, http.StatusOK, resp)
}

type NutritionInfoRequest struct {
	RecipeName  string   `json:"recipeName"`
	Ingredients []string `json:"ingredients"`
}

type NutritionInfoResponse struct {
	NutritionInfo string `json:"nutritionInfo"`
}

func (s *Server) HandleNutritionInfo(w http.ResponseWriter, r *http.Request) {
	var req NutritionInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	nutrition, err := s.recipes.GetNutritionInfo(r.Context(), req.RecipeName, req.Ingredients)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, NutritionInfoResponse{NutritionInfo: nutrition})
}

type ImageURLResponse struct {
	URL string `json:"url"`
}

// HandleImage serves a stored recipe image. Filenames are checked before
// any storage lookup. Local storage streams the bytes; S3 storage answers
// with a presigned URL instead.
func (s *Server) HandleImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !images.ValidFilename(filename) {
		writeError(w, errors.NewClientInputError("Invalid image filename", "INVALID_FILENAME"))
		return
	}

	if s.signer != nil {
		if ok, err := s.signer.Exists(r.Context(), filename); err != nil || !ok {
			writeError(w, errors.NewNotFoundError("Image not found", "IMAGE_NOT_FOUND"))
			return
		}
		url, err := s.signer.SignedURL(r.Context(), filename)
		if err != nil {
			writeError(w, errors.NewStorageError("Failed to sign image URL", "SIGN_FAILED", err))
			return
		}
		writeJSON(w, http.StatusOK, ImageURLResponse{URL: url})
		return
	}

	path, err := s.files.Path(filename)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, errors.NewNotFoundError("Image not found", "IMAGE_NOT_FOUND"))
			return
		}
		writeError(w, errors.NewStorageError("Failed to read image", "READ_FAILED", err))
		return
	}
	http.ServeFile(w, r, path)
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Storage string            `json:"storage"`
	Checks  map[string]string `json:"checks,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Service: s.cfg.ServiceName,
		Storage: s.cfg.Storage.Backend,
	}

	if s.cfg.OpenAIKey == "" {
		resp.Status = "unhealthy"
		resp.Error = "OpenAI API key is not configured"
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if len(s.pingers) > 0 {
		resp.Checks = make(map[string]string, len(s.pingers))
		for name, p := range s.pingers {
			if err := p.Ping(r.Context()); err != nil {
				resp.Status = "unhealthy"
				resp.Checks[name] = "unreachable"
				resp.Error = err.Error()
			} else {
				resp.Checks[name] = "ok"
			}
		}
	}

	if resp.Status != "healthy" {
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Routes mounts every handler on the router. Auth wraps the /api group
// only when a secret is configured.
func (s *Server) Routes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/health", s.HandleHealth)
	r.Get("/images/{filename}", s.HandleImage)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/api/generate-recipes", s.HandleGenerateRecipes)
		r.Post("/api/recipe-details", s.HandleRecipeDetails)
		r.Post("/api/nutrition-info", s.HandleNutritionInfo)
	})
}
