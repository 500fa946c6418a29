package routes

import (
	"fmt"
	"net/http"

	"blog-server/handlers"
	"blog-server/hooks"
	"blog-server/ui"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BlogHandler func(w http.ResponseWriter, r *http.Request)

func handleBlog(router *mux.Router, path string, handler BlogHandler) *mux.Route {
	return router.Handle(path, recoverPanics(http.HandlerFunc(handler)))
}

func AddHealthRoutes(r *mux.Router) {
	handleBlog(r, "/health", func(w http.ResponseWriter, r *http.Request) {
		hookErr := hooks.ExecHook(hooks.HealthCheck, hooks.HookParams{})
		if hookErr != nil {
			zap.S().Errorf("Error in health check hook: %v", hookErr)
			http.Error(w, hookErr.Msg, hookErr.Status)
			return
		}
		fmt.Fprint(w, "OK")
	}).Methods("GET")
}

// AddRoutes registers every page of the blog. Posting, editing and deleting
// posts sit on a subrouter that only administrators get through.
func AddRoutes(r *mux.Router) {
	r.Use(logRequests, handlers.LoadCurrentUser)
	r.NotFoundHandler = recoverPanics(http.HandlerFunc(handlers.NotFoundHandler))

	AddHealthRoutes(r)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", ui.StaticHandler()))

	handleBlog(r, "/", handlers.ListPostsHandler).Methods("GET")

	handleBlog(r, "/register", handlers.RegisterFormHandler).Methods("GET")
	handleBlog(r, "/register", handlers.RegisterHandler).Methods("POST")
	handleBlog(r, "/login", handlers.LoginFormHandler).Methods("GET")
	handleBlog(r, "/login", handlers.LoginHandler).Methods("POST")
	handleBlog(r, "/logout", handlers.LogoutHandler).Methods("GET")

	handleBlog(r, "/post/{postId:[0-9]+}", handlers.ShowPostHandler).Methods("GET")
	handleBlog(r, "/post/{postId:[0-9]+}", handlers.CreateCommentHandler).Methods("POST")

	handleBlog(r, "/about", handlers.AboutHandler).Methods("GET")
	handleBlog(r, "/contact", handlers.ContactFormHandler).Methods("GET")
	handleBlog(r, "/contact", handlers.ContactHandler).Methods("POST")

	admin := r.NewRoute().Subrouter()
	admin.Use(requireAdmin)

	handleBlog(admin, "/new-post", handlers.NewPostFormHandler).Methods("GET")
	handleBlog(admin, "/new-post", handlers.CreatePostHandler).Methods("POST")
	handleBlog(admin, "/edit-post/{postId:[0-9]+}", handlers.EditPostFormHandler).Methods("GET")
	handleBlog(admin, "/edit-post/{postId:[0-9]+}", handlers.UpdatePostHandler).Methods("POST")
	handleBlog(admin, "/delete/{postId:[0-9]+}", handlers.DeletePostHandler).Methods("GET")
}
