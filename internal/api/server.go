package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fridgechef/marcel/internal/config"
	"github.com/fridgechef/marcel/internal/errors"
	"github.com/fridgechef/marcel/internal/services/openai"
)

// RecipeService is the orchestration surface the handlers depend on.
type RecipeService interface {
	GenerateRecipes(ctx context.Context, ingredients []string) ([]openai.RecipeIdea, error)
	GetRecipeDetails(ctx context.Context, recipeName string, ingredients []string) (string, string, error)
	GetNutritionInfo(ctx context.Context, recipeName string, ingredients []string) (string, error)
}

// FileResolver resolves a stored image filename to a local path.
type FileResolver interface {
	Path(filename string) (string, error)
}

// URLSigner produces a time-limited URL for a stored image.
type URLSigner interface {
	SignedURL(ctx context.Context, filename string) (string, error)
	Exists(ctx context.Context, filename string) (bool, error)
}

// Pinger reports reachability of a backing dependency for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the handler dependencies. Exactly one of files or signer is
// set, matching the configured storage backend.
type Server struct {
	cfg     *config.Config
	recipes RecipeService
	files   FileResolver
	signer  URLSigner
	pingers map[string]Pinger
}

func NewServer(cfg *config.Config, recipes RecipeService, files FileResolver, signer URLSigner) *Server {
	return &Server{
		cfg:     cfg,
		recipes: recipes,
		files:   files,
		signer:  signer,
		pingers: make(map[string]Pinger),
	}
}

// AddPinger registers a named dependency to probe from the health endpoint.
func (s *Server) AddPinger(name string, p Pinger) {
	s.pingers[name] = p
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewClientInputError("Invalid request body", "INVALID_BODY")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its HTTP status and the {"error": ...}
// envelope. Unknown errors surface their message with a 500, matching the
// behavior clients already depend on.
func writeError(w http.ResponseWriter, err error) {
	message := err.Error()
	if appErr, ok := errors.AsAppError(err); ok {
		message = appErr.Message
	}
	writeJSON(w, errors.StatusFor(err), map[string]string{"error": message})
}
