package recipe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPreference is returned for a dietary preference outside the enumeration.
	ErrUnknownPreference = errors.New("unknown dietary preference")
	// ErrUnknownCuisine is returned for a cuisine outside the enumeration.
	ErrUnknownCuisine = errors.New("unknown cuisine")
)

// DietaryPreference is one of the fixed dietary filters.
type DietaryPreference string

const (
	Vegetarian DietaryPreference = "Vegetarian"
	Vegan      DietaryPreference = "Vegan"
	GlutenFree DietaryPreference = "Gluten-Free"
	DairyFree  DietaryPreference = "Dairy-Free"
	Keto       DietaryPreference = "Keto"
	Paleo      DietaryPreference = "Paleo"
	LowCarb    DietaryPreference = "Low-Carb"
)

// DietaryPreferences lists every preference in display order.
var DietaryPreferences = []DietaryPreference{
	Vegetarian, Vegan, GlutenFree, DairyFree, Keto, Paleo, LowCarb,
}

// Cuisine is one of the fixed cuisines. The zero value means unspecified.
type Cuisine string

const (
	AnyCuisine    Cuisine = ""
	Italian       Cuisine = "Italian"
	Mexican       Cuisine = "Mexican"
	Chinese       Cuisine = "Chinese"
	Indian        Cuisine = "Indian"
	Japanese      Cuisine = "Japanese"
	Thai          Cuisine = "Thai"
	Mediterranean Cuisine = "Mediterranean"
	French        Cuisine = "French"
	American      Cuisine = "American"
	MiddleEastern Cuisine = "Middle Eastern"
)

// Cuisines lists every named cuisine in display order.
var Cuisines = []Cuisine{
	Italian, Mexican, Chinese, Indian, Japanese, Thai, Mediterranean, French, American, MiddleEastern,
}

// ParseDietaryPreference matches s case-insensitively against the enumeration
// and returns the canonical value.
func ParseDietaryPreference(s string) (DietaryPreference, error) {
	s = strings.TrimSpace(s)
	for _, p := range DietaryPreferences {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreference, s)
}

// ParseCuisine matches s case-insensitively against the enumeration. An empty
// string yields AnyCuisine.
func ParseCuisine(s string) (Cuisine, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AnyCuisine, nil
	}
	for _, c := range Cuisines {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCuisine, s)
}
