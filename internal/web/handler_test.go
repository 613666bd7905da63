package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flavorforge/internal/controller"
	"flavorforge/internal/display"
	"flavorforge/internal/recipe"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   []recipe.Request
	recipe  *recipe.Recipe
	err     error
	release chan struct{}
}

func (f *fakeClient) GenerateRecipe(ctx context.Context, req recipe.Request) (*recipe.Recipe, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.release != nil {
		<-f.release
	}
	return f.recipe, f.err
}

func (f *fakeClient) lastCall() (recipe.Request, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return recipe.Request{}, 0
	}
	return f.calls[len(f.calls)-1], len(f.calls)
}

var pasta = &recipe.Recipe{
	Title:        "Garlic Pasta",
	Description:  "Quick weeknight pasta",
	Ingredients:  []string{"200g pasta", "3 cloves garlic"},
	Instructions: []string{"Boil the pasta", "Fry the garlic", "Toss together"},
	PrepTime:     "5 mins",
	CookTime:     "15 mins",
	Servings:     2,
	Difficulty:   "Easy",
	NutritionalInfo: recipe.NutritionalInfo{
		Calories: 450,
		Protein:  "14g",
	},
	Tags: []string{"Quick", "Pasta"},
}

type browser struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newServer(t *testing.T, client controller.RecipeClient) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	require.NoError(t, NewHandler(client, controller.Options{}).Register(r))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, server: srv, client: &http.Client{Jar: jar}}
}

func (b *browser) read(resp *http.Response) (int, string) {
	b.t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, string(body)
}

// page fetches the rendered page.
func (b *browser) page() string {
	b.t.Helper()
	resp, err := b.client.Get(b.server.URL + "/")
	require.NoError(b.t, err)
	code, body := b.read(resp)
	require.Equal(b.t, http.StatusOK, code)
	return body
}

// post submits a form and follows the redirect back to the page.
func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.server.URL+path, form)
	require.NoError(b.t, err)
	return b.read(resp)
}

func (b *browser) add(ingredients ...string) {
	b.t.Helper()
	for _, ing := range ingredients {
		code, _ := b.post("/ingredients", url.Values{"ingredient": {ing}})
		require.Equal(b.t, http.StatusOK, code)
	}
}

// generate submits and waits for the page to leave the loading state.
func (b *browser) generate() string {
	b.t.Helper()
	b.post("/generate", nil)

	var body string
	require.Eventually(b.t, func() bool {
		body = b.page()
		return !strings.Contains(body, `http-equiv="refresh"`)
	}, 2*time.Second, 10*time.Millisecond)
	return body
}

func chip(ingredient string) string {
	return `name="ingredient" value="` + ingredient + `"`
}

func TestIndex_EmptyState(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))

	body := b.page()

	assert.Contains(t, body, "Ready to Cook Something Amazing?")
	assert.Contains(t, body, "Generate Recipe")
	assert.Contains(t, body, " disabled>", "generate needs an ingredient")
	assert.NotContains(t, body, "Garlic Pasta")
	assert.Contains(t, body, `<option value="" selected>Any Cuisine</option>`)
}

func TestIngredients(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))

	b.add("Chicken", "Chicken", "  ", " rice ")
	body := b.page()

	assert.Equal(t, 1, strings.Count(body, chip("Chicken")))
	assert.Equal(t, 1, strings.Count(body, chip("rice")))
	assert.NotContains(t, body, " disabled>")

	_, body = b.post("/ingredients/remove", url.Values{"ingredient": {"Chicken"}})
	assert.NotContains(t, body, chip("Chicken"))
	assert.Contains(t, body, chip("rice"))
}

func TestPreferencesAndCuisine(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))

	_, body := b.post("/preferences/toggle", url.Values{"preference": {"Vegan"}})
	assert.Contains(t, body, `class="chip selected" aria-pressed="true">Vegan</button>`)

	_, body = b.post("/preferences/toggle", url.Values{"preference": {"Vegan"}})
	assert.NotContains(t, body, "chip selected")

	_, body = b.post("/cuisine", url.Values{"cuisine": {"Thai"}})
	assert.Contains(t, body, `<option value="Thai" selected>Thai</option>`)

	code, _ := b.post("/preferences/toggle", url.Values{"preference": {"Carnivore"}})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = b.post("/cuisine", url.Values{"cuisine": {"Martian"}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{recipe: pasta}
	b := newBrowser(t, newServer(t, client))

	b.add("pasta", "garlic")
	b.post("/preferences/toggle", url.Values{"preference": {"Vegetarian"}})
	b.post("/cuisine", url.Values{"cuisine": {"Italian"}})
	body := b.generate()

	req, calls := client.lastCall()
	assert.Equal(t, 1, calls)
	assert.Equal(t, recipe.Request{
		Ingredients: []string{"pasta", "garlic"},
		Preferences: []string{"Vegetarian"},
		Cuisine:     "Italian",
	}, req)

	assert.Contains(t, body, "<h2>Garlic Pasta</h2>")
	assert.Contains(t, body, "Serves: 2")
	assert.Contains(t, body, `class="difficulty-easy"`)
	assert.Contains(t, body, `<li data-step="3">Toss together</li>`)
	assert.Contains(t, body, "<strong>450</strong>")
	assert.NotContains(t, body, "Ready to Cook Something Amazing?")
}

func TestGenerate_NoIngredients(t *testing.T) {
	client := &fakeClient{recipe: pasta}
	b := newBrowser(t, newServer(t, client))

	code, body := b.post("/generate", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Ready to Cook Something Amazing?")
	_, calls := client.lastCall()
	assert.Zero(t, calls)
}

func TestGenerate_Failure(t *testing.T) {
	client := &fakeClient{err: errors.New("unexpected status 500")}
	b := newBrowser(t, newServer(t, client))

	b.add("rice")
	body := b.generate()

	assert.Contains(t, body, "Error Generating Recipe")
	assert.Contains(t, body, "Please try again with different ingredients")
	assert.NotContains(t, body, "unexpected status 500", "the underlying error is logged, not shown")
}

func TestGenerate_LoadingThenReset(t *testing.T) {
	client := &fakeClient{recipe: pasta, release: make(chan struct{})}
	b := newBrowser(t, newServer(t, client))

	b.add("rice")
	_, body := b.post("/generate", nil)
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, "Generating Recipe...")
	assert.Contains(t, body, " disabled>")

	_, body = b.post("/reset", nil)
	assert.NotContains(t, body, chip("rice"))
	assert.Contains(t, body, "Ready to Cook Something Amazing?")

	close(client.release)
	assert.Never(t, func() bool {
		return strings.Contains(b.page(), "Garlic Pasta")
	}, 200*time.Millisecond, 20*time.Millisecond, "a response after reset is discarded")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newServer(t, &fakeClient{recipe: pasta})
	alice, bob := newBrowser(t, srv), newBrowser(t, srv)

	alice.add("tofu")

	assert.Contains(t, alice.page(), chip("tofu"))
	assert.NotContains(t, bob.page(), chip("tofu"))
}

func TestRecipeCardActions(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))
	b.add("pasta")
	b.generate()

	_, body := b.post("/recipe/like", nil)
	assert.Contains(t, body, `btn btn-secondary active" aria-pressed="true">Like`)

	_, body = b.post("/recipe/save", nil)
	assert.Contains(t, body, ">Saved</button>")

	_, body = b.post("/recipe/save", nil)
	assert.Contains(t, body, ">Save</button>")

	_, body = b.post("/recipe/print", nil)
	assert.Contains(t, body, "window.print();")
	assert.NotContains(t, b.page(), "window.print();", "actions run once")
}

func TestRecipeCardShare(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))
	b.add("pasta")
	b.generate()

	_, body := b.post("/recipe/share", url.Values{"share_supported": {"0"}})
	assert.Contains(t, body, display.ShareUnsupported)
	assert.NotContains(t, body, "navigator.share({")
	assert.NotContains(t, b.page(), display.ShareUnsupported, "notices are shown once")

	_, body = b.post("/recipe/share", url.Values{"share_supported": {"1"}})
	assert.Contains(t, body, `navigator.share({title: "Garlic Pasta", text: "Check out this recipe: Garlic Pasta"`)
	assert.NotContains(t, body, display.ShareUnsupported)
}

func TestRecipeCardActions_WithoutRecipe(t *testing.T) {
	b := newBrowser(t, newServer(t, &fakeClient{recipe: pasta}))

	_, body := b.post("/recipe/share", url.Values{"share_supported": {"0"}})

	assert.NotContains(t, body, display.ShareUnsupported)
	assert.Contains(t, body, "Ready to Cook Something Amazing?")
}

func TestSessionStorePrunesIdleSessions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st := newSessionStore(func() *controller.Controller {
		return controller.New(&fakeClient{}, controller.Options{})
	})
	st.now = func() time.Time { return now }

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	st.get(c)
	require.Equal(t, 1, st.count())

	now = now.Add(sessionTTL + time.Minute)
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	st.get(c)

	assert.Equal(t, 1, st.count(), "the idle session is replaced by the new one")
}
