package display

import (
	"fmt"

	"flavorforge/internal/recipe"
)

// Notices shown when the host lacks a capability.
const (
	ShareUnsupported = "Web Share API not supported in your browser"
	PrintUnsupported = "Printing is not supported in your browser"
)

// ShareData is what gets handed to the host's share sheet.
type ShareData struct {
	Title string
	Text  string
	URL   string
}

// Printer prints the current page through the host.
type Printer interface {
	Available() bool
	Print() error
}

// Sharer shares a link through the host.
type Sharer interface {
	Available() bool
	Share(data ShareData) error
}

// Notice is a non-blocking message for the user. The zero value means nothing to show.
type Notice struct {
	Text string
}

// Card is a rendered recipe plus its local, non-persisted toggles.
type Card struct {
	Recipe *recipe.Recipe
	Liked  bool
	Saved  bool
}

// NewCard wraps r with all toggles off.
func NewCard(r *recipe.Recipe) *Card {
	return &Card{Recipe: r}
}

// ToggleLiked flips the liked flag.
func (c *Card) ToggleLiked() { c.Liked = !c.Liked }

// ToggleSaved flips the saved flag.
func (c *Card) ToggleSaved() { c.Saved = !c.Saved }

// Print asks the host to print. Availability is checked on every call.
func (c *Card) Print(host Printer) Notice {
	if host == nil || !host.Available() {
		return Notice{Text: PrintUnsupported}
	}
	if err := host.Print(); err != nil {
		return Notice{Text: fmt.Sprintf("Could not print: %v", err)}
	}
	return Notice{}
}

// Share asks the host to share a link to pageURL. Availability is checked on every call.
func (c *Card) Share(host Sharer, pageURL string) Notice {
	if host == nil || !host.Available() {
		return Notice{Text: ShareUnsupported}
	}
	data := ShareData{
		Title: c.Recipe.Title,
		Text:  "Check out this recipe: " + c.Recipe.Title,
		URL:   pageURL,
	}
	if err := host.Share(data); err != nil {
		return Notice{Text: fmt.Sprintf("Could not share: %v", err)}
	}
	return Notice{}
}
