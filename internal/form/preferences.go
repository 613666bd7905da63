package form

import "flavorforge/internal/recipe"

// Preferences is the selected dietary preferences and optional cuisine.
type Preferences struct {
	selected map[recipe.DietaryPreference]bool
	cuisine  recipe.Cuisine
}

// TogglePreference adds tag if absent and removes it if present. Tags outside
// the enumeration are rejected and leave the selection unchanged.
func (p *Preferences) TogglePreference(tag string) error {
	pref, err := recipe.ParseDietaryPreference(tag)
	if err != nil {
		return err
	}
	if p.selected[pref] {
		delete(p.selected, pref)
		return nil
	}
	if p.selected == nil {
		p.selected = make(map[recipe.DietaryPreference]bool)
	}
	p.selected[pref] = true
	return nil
}

// Selected reports whether pref is currently selected.
func (p *Preferences) Selected(pref recipe.DietaryPreference) bool {
	return p.selected[pref]
}

// Preferences returns the selection in enumeration order.
func (p *Preferences) Preferences() []string {
	out := make([]string, 0, len(p.selected))
	for _, pref := range recipe.DietaryPreferences {
		if p.selected[pref] {
			out = append(out, string(pref))
		}
	}
	return out
}

// SetCuisine replaces the cuisine. An empty value clears it.
func (p *Preferences) SetCuisine(value string) error {
	c, err := recipe.ParseCuisine(value)
	if err != nil {
		return err
	}
	p.cuisine = c
	return nil
}

// Cuisine returns the selected cuisine, or recipe.AnyCuisine.
func (p *Preferences) Cuisine() recipe.Cuisine {
	return p.cuisine
}

// Reset clears preferences and cuisine.
func (p *Preferences) Reset() {
	p.selected = nil
	p.cuisine = recipe.AnyCuisine
}
