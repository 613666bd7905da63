package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidRecipe is returned when a decoded recipe does not have the expected shape.
var ErrInvalidRecipe = errors.New("invalid recipe")

// NutritionalInfo holds the per-serving nutrition summary of a recipe.
// Everything except calories is a free-text magnitude such as "12g".
type NutritionalInfo struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Fiber    string `json:"fiber"`
}

// Recipe represents the structure of a generated recipe.
type Recipe struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Ingredients     []string        `json:"ingredients"`
	Instructions    []string        `json:"instructions"`
	PrepTime        string          `json:"prepTime"`
	CookTime        string          `json:"cookTime"`
	Servings        int             `json:"servings"`
	Difficulty      string          `json:"difficulty"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	Tags            []string        `json:"tags"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Servings and calories are accepted either as numbers or numeric strings.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		Servings        json.RawMessage `json:"servings"`
		NutritionalInfo struct {
			Calories json.RawMessage `json:"calories"`
			Protein  string          `json:"protein"`
			Carbs    string          `json:"carbs"`
			Fat      string          `json:"fat"`
			Fiber    string          `json:"fiber"`
		} `json:"nutritionalInfo"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	servings, err := parseCount(aux.Servings)
	if err != nil {
		return fmt.Errorf("servings: %w", err)
	}
	calories, err := parseCount(aux.NutritionalInfo.Calories)
	if err != nil {
		return fmt.Errorf("calories: %w", err)
	}

	r.Servings = servings
	r.NutritionalInfo = NutritionalInfo{
		Calories: calories,
		Protein:  aux.NutritionalInfo.Protein,
		Carbs:    aux.NutritionalInfo.Carbs,
		Fat:      aux.NutritionalInfo.Fat,
		Fiber:    aux.NutritionalInfo.Fiber,
	}
	return nil
}

// parseCount reads a JSON number or a string holding a leading integer ("4", "4 servings").
func parseCount(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return int(num), nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, fmt.Errorf("unsupported value %s", raw)
	}
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("unsupported value %q", str)
	}
	return n, nil
}

// Validate reports whether the recipe carries the fields the display depends on.
func (r *Recipe) Validate() error {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: missing title", ErrInvalidRecipe)
	case len(r.Ingredients) == 0:
		return fmt.Errorf("%w: no ingredients", ErrInvalidRecipe)
	case len(r.Instructions) == 0:
		return fmt.Errorf("%w: no instructions", ErrInvalidRecipe)
	case r.Servings <= 0:
		return fmt.Errorf("%w: servings must be positive, got %d", ErrInvalidRecipe, r.Servings)
	}
	return nil
}

// Request is the payload sent to the generation service.
type Request struct {
	Ingredients []string `json:"ingredients"`
	Preferences []string `json:"preferences"`
	Cuisine     string   `json:"cuisine"`
}

// Normalize checks preferences and cuisine against the fixed enumerations and
// rewrites them in canonical form. Blank ingredients are dropped.
func (req Request) Normalize() (Request, error) {
	out := Request{
		Ingredients: make([]string, 0, len(req.Ingredients)),
		Preferences: make([]string, 0, len(req.Preferences)),
	}
	for _, ing := range req.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			out.Ingredients = append(out.Ingredients, ing)
		}
	}

	seen := make(map[DietaryPreference]bool, len(req.Preferences))
	for _, p := range req.Preferences {
		pref, err := ParseDietaryPreference(p)
		if err != nil {
			return Request{}, err
		}
		seen[pref] = true
	}
	for _, pref := range DietaryPreferences {
		if seen[pref] {
			out.Preferences = append(out.Preferences, string(pref))
		}
	}

	cuisine, err := ParseCuisine(req.Cuisine)
	if err != nil {
		return Request{}, err
	}
	out.Cuisine = string(cuisine)
	return out, nil
}

// RequestHash returns a stable key for the request, independent of ingredient
// order and letter case.
func RequestHash(req Request) string {
	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, strings.ToLower(strings.TrimSpace(ing)))
	}
	sort.Strings(ingredients)

	preferences := append([]string(nil), req.Preferences...)
	sort.Strings(preferences)

	key := strings.Join(ingredients, ",") + "|" + strings.Join(preferences, ",") + "|" + strings.ToLower(req.Cuisine)
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
