// Package controller owns the recipe form and the lifecycle of the one
// outstanding generation request.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"flavorforge/internal/form"
	"flavorforge/internal/logger"
	"flavorforge/internal/recipe"
)

var (
	// ErrNoIngredients is returned by Submit when the ingredient list is empty.
	ErrNoIngredients = errors.New("at least one ingredient is required")
	// ErrRequestInFlight is returned by Submit while a request is loading.
	ErrRequestInFlight = errors.New("a recipe request is already in flight")
)

// RecipeClient generates a recipe for a request.
type RecipeClient interface {
	GenerateRecipe(ctx context.Context, req recipe.Request) (*recipe.Recipe, error)
}

// Options tune a Controller.
type Options struct {
	// Timeout bounds each generation call. Zero means no extra deadline.
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Snapshot is a consistent copy of the form and request state.
type Snapshot struct {
	Ingredients []string
	Preferences []string
	Cuisine     recipe.Cuisine
	State       State
}

// Controller serializes form edits and request state transitions.
type Controller struct {
	client RecipeClient
	opts   Options

	mu          sync.Mutex
	ingredients form.IngredientList
	preferences form.Preferences
	state       State
	// generation is bumped by every Submit and Reset; a completion carrying
	// an older generation is discarded.
	generation uint64
}

// New creates a Controller in the Idle state.
func New(client RecipeClient, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logger.L()
	}
	return &Controller{client: client, opts: opts, state: idle()}
}

// AddIngredient adds a trimmed, non-duplicate ingredient.
func (c *Controller) AddIngredient(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingredients.Add(text)
}

// RemoveIngredient removes an ingredient by value.
func (c *Controller) RemoveIngredient(value string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ingredients.Remove(value)
}

// TogglePreference flips a dietary preference.
func (c *Controller) TogglePreference(tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferences.TogglePreference(tag)
}

// SetCuisine replaces the cuisine selection.
func (c *Controller) SetCuisine(value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferences.SetCuisine(value)
}

// State returns the current request state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the form and request state as of one instant.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Ingredients: c.ingredients.Items(),
		Preferences: c.preferences.Preferences(),
		Cuisine:     c.preferences.Cuisine(),
		State:       c.state,
	}
}

// Submit moves to Loading and issues one generation call in the background.
// The returned channel yields the state observed once the call has been
// applied (or discarded after a Reset) and is then closed.
func (c *Controller) Submit(ctx context.Context) (<-chan State, error) {
	c.mu.Lock()
	if c.ingredients.Len() == 0 {
		c.mu.Unlock()
		return nil, ErrNoIngredients
	}
	if c.state.Phase == Loading {
		c.mu.Unlock()
		return nil, ErrRequestInFlight
	}

	req := recipe.Request{
		Ingredients: c.ingredients.Items(),
		Preferences: c.preferences.Preferences(),
		Cuisine:     string(c.preferences.Cuisine()),
	}
	c.generation++
	gen := c.generation
	c.state = loading()
	c.mu.Unlock()

	log := c.opts.Logger.WithFields(logrus.Fields{
		"generation":  gen,
		"ingredients": len(req.Ingredients),
		"cuisine":     req.Cuisine,
	})
	log.Info("submitting recipe request")

	done := make(chan State, 1)
	go func() {
		defer close(done)

		callCtx := ctx
		if c.opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
			defer cancel()
		}

		r, err := c.client.GenerateRecipe(callCtx, req)
		if err == nil && r == nil {
			err = errors.New("recipe service returned no recipe")
		}
		done <- c.complete(gen, r, err, log)
	}()
	return done, nil
}

func (c *Controller) complete(gen uint64, r *recipe.Recipe, err error, log logrus.FieldLogger) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Info("discarding stale recipe response")
		return c.state
	}

	if err != nil {
		log.WithError(err).Error("recipe generation failed")
		c.state = failed(err)
	} else {
		log.WithField("title", r.Title).Info("recipe generated")
		c.state = succeeded(r)
	}
	return c.state
}

// Reset clears the form and returns to Idle. A response still in flight is
// discarded when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingredients.Reset()
	c.preferences.Reset()
	c.generation++
	c.state = idle()
}
