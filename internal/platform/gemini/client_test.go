package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavorforge/internal/recipe"
)

func response(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestRecipeFromResponse(t *testing.T) {
	resp := response(genai.Text("```json\n{\"title\":\"Fried Rice\",\"ingredients\":[\"rice\"],\"instructions\":[\"fry\"],\"servings\":2}\n```"))

	r, err := recipeFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Fried Rice", r.Title)
	assert.Equal(t, 2, r.Servings)
}

func TestRecipeFromResponse_Empty(t *testing.T) {
	_, err := recipeFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorContains(t, err, "empty response")

	_, err = recipeFromResponse(response())
	assert.ErrorContains(t, err, "empty response")
}

func TestRecipeFromResponse_WrongPart(t *testing.T) {
	_, err := recipeFromResponse(response(genai.Blob{MIMEType: "image/png"}))
	assert.ErrorContains(t, err, "unexpected response format")
}

func TestRecipeFromResponse_NotJSON(t *testing.T) {
	_, err := recipeFromResponse(response(genai.Text("Sorry, I can't do that.")))
	assert.True(t, errors.Is(err, recipe.ErrNoJSON))
}
