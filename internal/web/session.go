package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"flavorforge/internal/controller"
	"flavorforge/internal/display"
)

const (
	sessionCookie = "flavorforge_session"
	sessionTTL    = 24 * time.Hour
	pruneInterval = time.Minute
)

// clientAction is a host call the next rendered page performs in the browser.
type clientAction struct {
	Print bool
	Share *display.ShareData
}

// session is one visitor's form, request state and recipe card.
type session struct {
	ctrl *controller.Controller

	mu       sync.Mutex
	card     *display.Card
	notice   display.Notice
	pending  []clientAction
	lastSeen time.Time
}

// syncCard keeps the card in step with the request state. A new recipe gets a
// fresh card; anything other than a successful state has no card.
// Callers hold s.mu.
func (s *session) syncCard(state controller.State) *display.Card {
	if state.Phase != controller.Succeeded || state.Recipe == nil {
		s.card = nil
		return nil
	}
	if s.card == nil || s.card.Recipe != state.Recipe {
		s.card = display.NewCard(state.Recipe)
	}
	return s.card
}

// drain returns and clears the one-shot notice and client actions.
// Callers hold s.mu.
func (s *session) drain() (display.Notice, []clientAction) {
	notice, actions := s.notice, s.pending
	s.notice, s.pending = display.Notice{}, nil
	return notice, actions
}

// sessionStore keeps sessions in memory, keyed by the session cookie.
type sessionStore struct {
	newController func() *controller.Controller
	now           func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastPrune time.Time
}

func newSessionStore(newController func() *controller.Controller) *sessionStore {
	return &sessionStore{
		newController: newController,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
}

// get returns the caller's session, starting a new one when the cookie is
// missing or the session has expired.
func (st *sessionStore) get(c *gin.Context) *session {
	id, cookieErr := c.Cookie(sessionCookie)

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if now.Sub(st.lastPrune) >= pruneInterval {
		st.prune(now)
	}

	if cookieErr == nil {
		if sess, ok := st.sessions[id]; ok {
			sess.mu.Lock()
			sess.lastSeen = now
			sess.mu.Unlock()
			return sess
		}
	}

	id = uuid.NewString()
	sess := &session{ctrl: st.newController(), lastSeen: now}
	st.sessions[id] = sess

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(sessionTTL.Seconds()), "/", "", false, true)
	return sess
}

// prune drops idle sessions. Callers hold st.mu.
func (st *sessionStore) prune(now time.Time) {
	for id, sess := range st.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > sessionTTL {
			// Any in-flight response is discarded by Reset.
			sess.ctrl.Reset()
			delete(st.sessions, id)
		}
	}
	st.lastPrune = now
}

func (st *sessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
