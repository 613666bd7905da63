// Package display decides what the recipe page shows and holds the
// presentation-only toggles of a rendered recipe card.
package display

import (
	"strings"

	"flavorforge/internal/controller"
)

// Screen is the panel shown in the result area of the page.
type Screen string

const (
	EmptyState   Screen = "empty"
	LoadingPanel Screen = "loading"
	RecipeCard   Screen = "recipe"
	ErrorPanel   Screen = "error"
)

// ErrorMessage is the fixed text of the error panel.
const ErrorMessage = "We couldn't generate a recipe with those ingredients. Please try again with different ingredients or check your connection."

// SelectScreen picks the panel for a request state. The empty invitation is
// shown until a request actually succeeds; ingredients alone never bring up a
// recipe card.
func SelectScreen(state controller.State) Screen {
	switch state.Phase {
	case controller.Failed:
		return ErrorPanel
	case controller.Succeeded:
		if state.Recipe != nil {
			return RecipeCard
		}
		return EmptyState
	case controller.Loading:
		return LoadingPanel
	default:
		return EmptyState
	}
}

// DifficultyClass maps a difficulty label to its style class.
func DifficultyClass(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy":
		return "difficulty-easy"
	case "medium":
		return "difficulty-medium"
	case "hard":
		return "difficulty-hard"
	default:
		return "difficulty-other"
	}
}
