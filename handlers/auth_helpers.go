package handlers

import (
	"context"
	"crypto/sha256"
	"net/http"

	"blog-server/db"
	"blog-server/ui"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	sessionName   = "blog_session"
	sessionUserId = "user_id"
)

var store *sessions.CookieStore

// InitSessions sets up the signed session cookie. secure marks it https-only.
func InitSessions(secret string, secure bool) {
	hashKey := sha256.Sum256([]byte("session:" + secret))

	store = sessions.NewCookieStore(hashKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func getSession(r *http.Request) *sessions.Session {
	// a cookie that fails to decode still yields a fresh, empty session
	sess, err := store.Get(r, sessionName)
	if err != nil {
		zap.S().Debugf("discarding undecodable session: %v", err)
	}
	return sess
}

func setSessionUser(w http.ResponseWriter, r *http.Request, user *db.User) error {
	sess := getSession(r)
	sess.Values[sessionUserId] = user.Id
	return sess.Save(r, w)
}

func clearSession(w http.ResponseWriter, r *http.Request) error {
	sess := getSession(r)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func addFlash(w http.ResponseWriter, r *http.Request, msg string) {
	sess := getSession(r)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		zap.S().Errorf("Error saving flash message: %v", err)
	}
}

func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	sess := getSession(r)

	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}

	if err := sess.Save(r, w); err != nil {
		zap.S().Errorf("Error clearing flash messages: %v", err)
	}

	var res []string
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			res = append(res, s)
		}
	}
	return res
}

type currentUserKey struct{}

type resolvedUser struct {
	user *db.User
}

// LoadCurrentUser resolves the session's user once per request.
func LoadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := resolveUser(r)
		ctx := context.WithValue(r.Context(), currentUserKey{}, resolvedUser{user: user})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the logged-in user, or nil for anonymous visitors.
func CurrentUser(r *http.Request) *db.User {
	if resolved, ok := r.Context().Value(currentUserKey{}).(resolvedUser); ok {
		return resolved.user
	}
	return resolveUser(r)
}

func resolveUser(r *http.Request) *db.User {
	sess := getSession(r)

	userId, ok := sess.Values[sessionUserId].(int64)
	if !ok {
		return nil
	}

	user, err := db.GetUser(r.Context(), userId)
	if err != nil {
		zap.S().Errorf("Error loading session user %d: %v", userId, err)
		return nil
	}

	return user
}

func pageData(w http.ResponseWriter, r *http.Request, title string, content interface{}) ui.PageData {
	return ui.PageData{
		Title:       title,
		CurrentUser: CurrentUser(r),
		Flashes:     popFlashes(w, r),
		CSRFField:   csrf.TemplateField(r),
		Content:     content,
	}
}
