package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fridgechef/marcel/internal/config"
	"github.com/fridgechef/marcel/internal/errors"
	"github.com/fridgechef/marcel/internal/services/openai"
)

type stubRecipeService struct {
	generateFn  func(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error)
	detailsFn   func(ctx context.Context, recipeName string, ingredients []string) (string, string, error)
	nutritionFn func(ctx context.Context, recipeName string, ingredients []string) (string, error)
}

func (s *stubRecipeService) GenerateRecipes(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error) {
	return s.generateFn(ctx, ingredients)
}

func (s *stubRecipeService) GetRecipeDetails(ctx context.Context, recipeName string, ingredients []string) (string, string, error) {
	return s.detailsFn(ctx, recipeName, ingredients)
}

func (s *stubRecipeService) GetNutritionInfo(ctx context.Context, recipeName string, ingredients []string) (string, error) {
	return s.nutritionFn(ctx, recipeName, ingredients)
}

type stubFiles struct {
	calls int
	path  string
	err   error
}

func (s *stubFiles) Path(filename string) (string, error) {
	s.calls++
	return s.path, s.err
}

type stubSigner struct {
	url    string
	exists bool
}

func (s *stubSigner) SignedURL(ctx context.Context, filename string) (string, error) {
	return s.url + "/" + filename, nil
}

func (s *stubSigner) Exists(ctx context.Context, filename string) (bool, error) {
	return s.exists, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceName: "fridgechef-marcel",
		OpenAIKey:   "sk-test",
		Storage:     config.StorageConfig{Backend: config.StorageBackendLocal},
	}
}

func newTestRouter(srv *Server) *chi.Mux {
	r := chi.NewRouter()
	srv.Routes(r, nil)
	return r
}

func TestHandleGenerateRecipes(t *testing.T) {
	svc := &stubRecipeService{
		generateFn: func(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error) {
			if len(ingredients) < 2 {
				return nil, errors.NewClientInputError("Please provide at least 2 ingredients", "INSUFFICIENT_INGREDIENTS")
			}
			return []openai.RecipeIdea{
				{Name: "Fried Rice", Description: "quick", Difficulty: "Easy", ImageURL: "/images/fried_rice.png", ValidationInfo: "fine"},
				{Name: "Egg Drop Soup", Description: "light", Difficulty: "Medium", ValidationInfo: "fine"},
			}, nil
		},
	}
	router := newTestRouter(NewServer(testConfig(), svc, &stubFiles{}, nil))

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/generate-recipes", strings.NewReader(`{"ingredients":["chicken","rice"]}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}

		var resp GenerateRecipesResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if len(resp.Recipes) != 2 {
			t.Fatalf("expected 2 recipes, got %d", len(resp.Recipes))
		}
		for _, r := range resp.Recipes {
			if r.Name == "" || r.Description == "" {
				t.Errorf("recipe missing required fields: %+v", r)
			}
			switch r.Difficulty {
			case "Easy", "Medium", "Hard":
			default:
				t.Errorf("unexpected difficulty %q", r.Difficulty)
			}
		}
	})

	t.Run("Too few ingredients", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/generate-recipes", strings.NewReader(`{"ingredients":["chicken"]}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}

		var resp map[string]json.RawMessage
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if _, ok := resp["error"]; !ok {
			t.Error("expected error key in response")
		}
		if _, ok := resp["recipes"]; ok {
			t.Error("failure response must not carry recipes")
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/generate-recipes", strings.NewReader(`{ingredients}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"error"`) {
			t.Errorf("expected JSON error body, got %q", rr.Body.String())
		}
	})
}

func TestHandleRecipeDetails(t *testing.T) {
	svc := &stubRecipeService{
		detailsFn: func(ctx context.Context, recipeName string, ingredients []string) (string, string, error) {
			switch recipeName {
			case "":
				return "", "", errors.NewClientInputError("Recipe name is required", "MISSING_RECIPE_NAME")
			case "No Nutrition":
				return "Step 1: cook.", "", nil
			case "Broken":
				return "", "", errors.NewGenerationError("Failed to get recipe details", "DETAILS_FAILED", 500, nil)
			}
			return "Step 1: cook.", "Calories: 400", nil
		},
	}
	router := newTestRouter(NewServer(testConfig(), svc, &stubFiles{}, nil))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/recipe-details", strings.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		rr := post(`{"recipeName":"Fried Rice","ingredients":["rice","egg"]}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}

		var resp RecipeDetailsResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Recipe != "Step 1: cook." {
			t.Errorf("unexpected recipe text %q", resp.Recipe)
		}
		if resp.NutritionAnalysis == nil || *resp.NutritionAnalysis != "Calories: 400" {
			t.Errorf("unexpected nutrition analysis %v", resp.NutritionAnalysis)
		}
	})

	t.Run("Nutrition unavailable is null", func(t *testing.T) {
		rr := post(`{"recipeName":"No Nutrition","ingredients":["rice"]}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"nutritionAnalysis":null`) {
			t.Errorf("expected null nutritionAnalysis, got %q", rr.Body.String())
		}
	})

	t.Run("Missing name", func(t *testing.T) {
		if rr := post(`{"ingredients":["rice"]}`); rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("Upstream failure", func(t *testing.T) {
		if rr := post(`{"recipeName":"Broken"}`); rr.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rr.Code)
		}
	})
}

func TestHandleNutritionInfo(t *testing.T) {
	svc := &stubRecipeService{
		nutritionFn: func(ctx context.Context, recipeName string, ingredients []string) (string, error) {
			if recipeName == "Broken" {
				return "", errors.NewGenerationError("Failed to get nutrition information", "NUTRITION_FAILED", 500, nil)
			}
			return "Calories: 400", nil
		},
	}
	router := newTestRouter(NewServer(testConfig(), svc, &stubFiles{}, nil))

	t.Run("Success", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/nutrition-info", strings.NewReader(`{"recipeName":"Fried Rice"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp NutritionInfoResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.NutritionInfo != "Calories: 400" {
			t.Errorf("unexpected nutrition info %q", resp.NutritionInfo)
		}
	})

	t.Run("Failure", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/nutrition-info", strings.NewReader(`{"recipeName":"Broken"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})
}

func TestHandleImage_Local(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "fried_rice.png")
	if err := os.WriteFile(imagePath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("Serves stored image", func(t *testing.T) {
		files := &stubFiles{path: imagePath}
		router := newTestRouter(NewServer(testConfig(), &stubRecipeService{}, files, nil))

		req := httptest.NewRequest("GET", "/images/fried_rice.png", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Body.String() != "png-bytes" {
			t.Errorf("unexpected body %q", rr.Body.String())
		}
	})

	t.Run("Rejects invalid filename before storage", func(t *testing.T) {
		files := &stubFiles{path: imagePath}
		router := newTestRouter(NewServer(testConfig(), &stubRecipeService{}, files, nil))

		req := httptest.NewRequest("GET", "/images/bad;name.png", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		if files.calls != 0 {
			t.Errorf("storage must not be touched for invalid names, got %d calls", files.calls)
		}
	})

	t.Run("Missing image", func(t *testing.T) {
		files := &stubFiles{err: os.ErrNotExist}
		router := newTestRouter(NewServer(testConfig(), &stubRecipeService{}, files, nil))

		req := httptest.NewRequest("GET", "/images/missing.png", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

func TestHandleImage_S3(t *testing.T) {
	t.Run("Returns signed URL", func(t *testing.T) {
		signer := &stubSigner{url: "https://signed.example.com", exists: true}
		router := newTestRouter(NewServer(testConfig(), &stubRecipeService{}, nil, signer))

		req := httptest.NewRequest("GET", "/images/fried_rice.png", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		var resp ImageURLResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.URL != "https://signed.example.com/fried_rice.png" {
			t.Errorf("unexpected URL %q", resp.URL)
		}
	})

	t.Run("Missing object", func(t *testing.T) {
		signer := &stubSigner{url: "https://signed.example.com", exists: false}
		router := newTestRouter(NewServer(testConfig(), &stubRecipeService{}, nil, signer))

		req := httptest.NewRequest("GET", "/images/missing.png", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

func TestHandleHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		srv := NewServer(testConfig(), &stubRecipeService{}, &stubFiles{}, nil)
		srv.AddPinger("redis", &stubPinger{})
		router := newTestRouter(srv)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp HealthResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if resp.Status != "healthy" {
			t.Errorf("expected healthy, got %q", resp.Status)
		}
		if resp.Checks["redis"] != "ok" {
			t.Errorf("expected redis ok, got %+v", resp.Checks)
		}
	})

	t.Run("Missing API key", func(t *testing.T) {
		cfg := testConfig()
		cfg.OpenAIKey = ""
		router := newTestRouter(NewServer(cfg, &stubRecipeService{}, &stubFiles{}, nil))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"unhealthy"`) {
			t.Errorf("expected unhealthy status, got %q", rr.Body.String())
		}
	})

	t.Run("Unreachable dependency", func(t *testing.T) {
		srv := NewServer(testConfig(), &stubRecipeService{}, &stubFiles{}, nil)
		srv.AddPinger("s3", &stubPinger{err: context.DeadlineExceeded})
		router := newTestRouter(srv)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})
}
