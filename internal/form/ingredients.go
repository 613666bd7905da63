// Package form holds the editable inputs of the recipe form: the ingredient
// chips and the dietary/cuisine filters. Types here are not safe for
// concurrent use; the controller serializes access.
package form

import "strings"

// IngredientList is an ordered, duplicate-free list of ingredients.
type IngredientList struct {
	items []string
}

// Add appends the trimmed text unless it is blank or already present.
// It reports whether the list changed.
func (l *IngredientList) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || l.Contains(text) {
		return false
	}
	l.items = append(l.items, text)
	return true
}

// Remove deletes value from the list. It reports whether the list changed.
func (l *IngredientList) Remove(value string) bool {
	for i, item := range l.items {
		if item == value {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether value is in the list (exact match).
func (l *IngredientList) Contains(value string) bool {
	for _, item := range l.items {
		if item == value {
			return true
		}
	}
	return false
}

// Items returns a copy of the ingredients in insertion order.
func (l *IngredientList) Items() []string {
	return append([]string(nil), l.items...)
}

// Len returns the number of ingredients.
func (l *IngredientList) Len() int {
	return len(l.items)
}

// Reset clears the list.
func (l *IngredientList) Reset() {
	l.items = nil
}
