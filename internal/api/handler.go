package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flavorforge/internal/logger"
	"flavorforge/internal/recipe"
)

// RecipeGenerator produces a recipe for a request.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, req recipe.Request) (*recipe.Recipe, error)
}

// RecipeStore defines the interface for cached recipe operations.
type RecipeStore interface {
	GetRecipeByRequestHash(ctx context.Context, requestHash string) (*recipe.Record, error)
	SaveRecipe(ctx context.Context, record *recipe.Record) error
	GetRecipesByCuisineOrPreference(ctx context.Context, cuisine, preference string) ([]*recipe.Record, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Generator      RecipeGenerator
	LocalGenerator RecipeGenerator
	// RecipeStore is optional; without it every request is generated fresh.
	RecipeStore RecipeStore
	Timeout     time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(generator, localGenerator RecipeGenerator, recipeStore RecipeStore, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Handler{Generator: generator, LocalGenerator: localGenerator, RecipeStore: recipeStore, Timeout: timeout}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// bindRequest decodes and normalizes the request body, writing a 400 on failure.
func bindRequest(c *gin.Context) (recipe.Request, bool) {
	var req recipe.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request body")
		return recipe.Request{}, false
	}

	req, err := req.Normalize()
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return recipe.Request{}, false
	}
	if len(req.Ingredients) == 0 {
		errorJSON(c, http.StatusBadRequest, "No ingredients provided")
		return recipe.Request{}, false
	}
	return req, true
}

// GenerateRecipe handles POST /generate-recipe using the primary generator and the cache.
func (h *Handler) GenerateRecipe(c *gin.Context) {
	log := logger.FromGin(c)

	req, ok := bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	requestHash := recipe.RequestHash(req)
	log = log.WithField("request_hash", requestHash)

	if h.RecipeStore != nil {
		cached, err := h.RecipeStore.GetRecipeByRequestHash(ctx, requestHash)
		if err != nil {
			// The cache is an optimization; fall through to generation.
			log.WithError(err).Warn("recipe cache lookup failed")
		} else if cached != nil {
			log.Info("recipe found in cache")
			c.JSON(http.StatusOK, cached.Recipe)
			return
		}
	}

	log.WithField("ingredients", req.Ingredients).Info("generating recipe")
	r, err := h.Generator.GenerateRecipe(ctx, req)
	if err != nil {
		h.generationFailed(c, err)
		return
	}

	if h.RecipeStore != nil {
		record := &recipe.Record{
			RequestHash: requestHash,
			Cuisine:     req.Cuisine,
			Preferences: req.Preferences,
			Recipe:      r,
		}
		if err := h.RecipeStore.SaveRecipe(ctx, record); err != nil {
			log.WithError(err).Warn("failed to save recipe")
		}
	}

	c.JSON(http.StatusOK, r)
}

// GenerateRecipeLocal handles POST /generate-recipe-local. Results are not cached.
func (h *Handler) GenerateRecipeLocal(c *gin.Context) {
	if h.LocalGenerator == nil {
		errorJSON(c, http.StatusNotImplemented, "Local generation is not configured")
		return
	}

	req, ok := bindRequest(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	r, err := h.LocalGenerator.GenerateRecipe(ctx, req)
	if err != nil {
		h.generationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) generationFailed(c *gin.Context, err error) {
	log := logger.FromGin(c).WithError(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Error("recipe generation timed out")
		errorJSON(c, http.StatusRequestTimeout, "Recipe generation timed out")
	case errors.Is(err, recipe.ErrNoJSON), errors.Is(err, recipe.ErrInvalidRecipe):
		log.Error("failed to parse generated recipe")
		errorJSON(c, http.StatusInternalServerError, "Failed to parse recipe data")
	default:
		log.Error("error generating recipe")
		errorJSON(c, http.StatusInternalServerError, err.Error())
	}
}

// GetRecipes handles requests to list cached recipes by cuisine or dietary preference.
func (h *Handler) GetRecipes(c *gin.Context) {
	if h.RecipeStore == nil {
		errorJSON(c, http.StatusServiceUnavailable, "Recipe cache is not configured")
		return
	}

	cuisine, err := recipe.ParseCuisine(c.Query("cuisine"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	var preference recipe.DietaryPreference
	if p := c.Query("preference"); p != "" {
		if preference, err = recipe.ParseDietaryPreference(p); err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.RecipeStore.GetRecipesByCuisineOrPreference(ctx, string(cuisine), string(preference))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			errorJSON(c, http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		logger.FromGin(c).WithError(err).Error("failed to list recipes")
		errorJSON(c, http.StatusInternalServerError, "database error")
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetRecipe handles requests to retrieve a single cached recipe by request hash.
func (h *Handler) GetRecipe(c *gin.Context) {
	if h.RecipeStore == nil {
		errorJSON(c, http.StatusServiceUnavailable, "Recipe cache is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.RecipeStore.GetRecipeByRequestHash(ctx, c.Param("hash"))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			errorJSON(c, http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		logger.FromGin(c).WithError(err).Error("failed to get recipe")
		errorJSON(c, http.StatusInternalServerError, "database error")
		return
	}
	if record == nil {
		errorJSON(c, http.StatusNotFound, "Recipe not found")
		return
	}

	c.JSON(http.StatusOK, record)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
