// Package web serves the Flavor Forge page: the ingredient and preference
// form, the generate/reset actions and the result panel.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"flavorforge/internal/controller"
	"flavorforge/internal/display"
	"flavorforge/internal/logger"
	"flavorforge/internal/recipe"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler handles page requests for all sessions.
type Handler struct {
	sessions *sessionStore
}

// NewHandler creates a Handler whose sessions each get their own Controller
// talking to client.
func NewHandler(client controller.RecipeClient, opts controller.Options) *Handler {
	return &Handler{
		sessions: newSessionStore(func() *controller.Controller {
			return controller.New(client, opts)
		}),
	}
}

// Register loads the page templates into r and adds the routes.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"difficultyClass": display.DifficultyClass,
		"inc":             func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.Index)
	r.POST("/ingredients", h.AddIngredient)
	r.POST("/ingredients/remove", h.RemoveIngredient)
	r.POST("/preferences/toggle", h.TogglePreference)
	r.POST("/cuisine", h.SetCuisine)
	r.POST("/generate", h.Generate)
	r.POST("/reset", h.Reset)
	r.POST("/recipe/like", h.Like)
	r.POST("/recipe/save", h.Save)
	r.POST("/recipe/print", h.Print)
	r.POST("/recipe/share", h.Share)
	return nil
}

type preferenceOption struct {
	Name     string
	Selected bool
}

type cuisineOption struct {
	Value    string
	Label    string
	Selected bool
}

// pageData is everything index.html renders.
type pageData struct {
	Ingredients []string
	Preferences []preferenceOption
	Cuisines    []cuisineOption

	Loading     bool
	CanGenerate bool

	ShowLoading  bool
	ShowRecipe   bool
	ShowError    bool
	ErrorMessage string
	Card         *display.Card

	Notice  string
	Actions []clientAction
}

func newPageData(snap controller.Snapshot, card *display.Card) pageData {
	data := pageData{
		Ingredients: snap.Ingredients,
		Loading:     snap.State.Phase == controller.Loading,
		Card:        card,
	}
	data.CanGenerate = len(snap.Ingredients) > 0 && !data.Loading

	selected := make(map[string]bool, len(snap.Preferences))
	for _, p := range snap.Preferences {
		selected[p] = true
	}
	for _, p := range recipe.DietaryPreferences {
		data.Preferences = append(data.Preferences, preferenceOption{Name: string(p), Selected: selected[string(p)]})
	}

	data.Cuisines = append(data.Cuisines, cuisineOption{Label: "Any Cuisine", Selected: snap.Cuisine == recipe.AnyCuisine})
	for _, cu := range recipe.Cuisines {
		data.Cuisines = append(data.Cuisines, cuisineOption{Value: string(cu), Label: string(cu), Selected: cu == snap.Cuisine})
	}

	switch display.SelectScreen(snap.State) {
	case display.ErrorPanel:
		data.ShowError = true
		data.ErrorMessage = display.ErrorMessage
	case display.RecipeCard:
		data.ShowRecipe = card != nil
	case display.LoadingPanel:
		data.ShowLoading = true
	}
	return data
}

// Index renders the page for the caller's session.
func (h *Handler) Index(c *gin.Context) {
	sess := h.sessions.get(c)
	snap := sess.ctrl.Snapshot()

	sess.mu.Lock()
	var card *display.Card
	if current := sess.syncCard(snap.State); current != nil {
		// Copy so rendering does not race with later toggles.
		cp := *current
		card = &cp
	}
	data := newPageData(snap, card)
	notice, actions := sess.drain()
	data.Notice, data.Actions = notice.Text, actions
	sess.mu.Unlock()

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", data)
}

func back(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// AddIngredient handles the add-ingredient form. Blank and duplicate entries
// are ignored.
func (h *Handler) AddIngredient(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.ctrl.AddIngredient(c.PostForm("ingredient"))
	back(c)
}

// RemoveIngredient handles an ingredient chip's remove button.
func (h *Handler) RemoveIngredient(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.ctrl.RemoveIngredient(c.PostForm("ingredient"))
	back(c)
}

// TogglePreference handles a dietary preference chip.
func (h *Handler) TogglePreference(c *gin.Context) {
	sess := h.sessions.get(c)
	if err := sess.ctrl.TogglePreference(c.PostForm("preference")); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	back(c)
}

// SetCuisine handles the cuisine select.
func (h *Handler) SetCuisine(c *gin.Context) {
	sess := h.sessions.get(c)
	if err := sess.ctrl.SetCuisine(c.PostForm("cuisine")); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	back(c)
}

// Generate starts a recipe request. The request outlives this HTTP request;
// the page polls until it settles.
func (h *Handler) Generate(c *gin.Context) {
	log := logger.FromGin(c)
	sess := h.sessions.get(c)

	done, err := sess.ctrl.Submit(context.WithoutCancel(c.Request.Context()))
	switch {
	case errors.Is(err, controller.ErrNoIngredients), errors.Is(err, controller.ErrRequestInFlight):
		log.WithError(err).Debug("generate ignored")
	case err != nil:
		log.WithError(err).Error("failed to submit recipe request")
	default:
		go func() {
			state := <-done
			log.WithField("phase", state.Phase).Info("recipe request settled")
		}()
	}
	back(c)
}

// Reset clears the form and the result panel.
func (h *Handler) Reset(c *gin.Context) {
	sess := h.sessions.get(c)
	sess.ctrl.Reset()

	sess.mu.Lock()
	sess.card = nil
	sess.drain()
	sess.mu.Unlock()
	back(c)
}

// withCard runs fn on the session's current card, if there is one.
func (h *Handler) withCard(c *gin.Context, fn func(sess *session, card *display.Card)) {
	sess := h.sessions.get(c)
	state := sess.ctrl.State()

	sess.mu.Lock()
	if card := sess.syncCard(state); card != nil {
		fn(sess, card)
	}
	sess.mu.Unlock()
	back(c)
}

// Like toggles the card's liked flag.
func (h *Handler) Like(c *gin.Context) {
	h.withCard(c, func(_ *session, card *display.Card) { card.ToggleLiked() })
}

// Save toggles the card's saved flag.
func (h *Handler) Save(c *gin.Context) {
	h.withCard(c, func(_ *session, card *display.Card) { card.ToggleSaved() })
}

// Print asks the browser to print the page on the next render.
func (h *Handler) Print(c *gin.Context) {
	h.withCard(c, func(sess *session, card *display.Card) {
		sess.notice = card.Print(browserPrinter{sess: sess})
	})
}

// Share asks the browser to open its share sheet on the next render. The
// form carries share_supported=1 when the page detected navigator.share.
func (h *Handler) Share(c *gin.Context) {
	supported := c.PostForm("share_supported") == "1"
	url := pageURL(c)
	h.withCard(c, func(sess *session, card *display.Card) {
		sess.notice = card.Share(browserSharer{sess: sess, supported: supported}, url)
	})
}

func pageURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/"
}
