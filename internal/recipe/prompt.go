package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when model output holds no JSON object.
var ErrNoJSON = errors.New("could not find JSON object in response")

// BuildPrompt renders the generation prompt for req.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed recipe using these ingredients: %s.\n", strings.Join(req.Ingredients, ", "))
	if len(req.Preferences) > 0 {
		fmt.Fprintf(&b, "It should be %s.\n", strings.Join(req.Preferences, ", "))
	}
	if req.Cuisine != "" {
		fmt.Fprintf(&b, "The cuisine should be %s.\n", req.Cuisine)
	}
	b.WriteString(`
Format the response as a JSON object with the following structure:
{
	"title": "Recipe Title",
	"description": "Brief description of the dish",
	"ingredients": ["Ingredient 1 with quantity", "Ingredient 2 with quantity"],
	"instructions": ["Step 1", "Step 2"],
	"prepTime": "Time in minutes",
	"cookTime": "Time in minutes",
	"servings": number,
	"difficulty": "Easy/Medium/Hard",
	"nutritionalInfo": {
		"calories": number,
		"protein": "grams",
		"carbs": "grams",
		"fat": "grams",
		"fiber": "grams"
	},
	"tags": ["Tag1", "Tag2"]
}

ONLY return the JSON object, with no additional text before or after.`)
	return b.String()
}

// ExtractJSON pulls the JSON object out of a model reply, which might be
// wrapped in markdown fences or surrounded by prose.
func ExtractJSON(text string) (string, error) {
	if _, after, ok := strings.Cut(text, "```json"); ok {
		text = after
		if before, _, ok := strings.Cut(text, "```"); ok {
			text = before
		}
	} else if parts := strings.SplitN(text, "```", 3); len(parts) == 3 {
		text = parts[1]
	}

	startIndex := strings.Index(text, "{")
	endIndex := strings.LastIndex(text, "}")
	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return "", fmt.Errorf("%w: %s", ErrNoJSON, text)
	}
	return text[startIndex : endIndex+1], nil
}

// ParseGenerated extracts, decodes and validates a recipe from model output.
func ParseGenerated(text string) (*Recipe, error) {
	cleanJSON, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var r Recipe
	if err := json.Unmarshal([]byte(cleanJSON), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w. Raw response: %s", err, cleanJSON)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

