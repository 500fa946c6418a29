package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog-server/db"
	"blog-server/forms"
	"blog-server/hooks"
	"blog-server/ui"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const duplicateTitleMsg = "A post with this title already exists."

type indexContent struct {
	Posts []*db.Post
}

type postContent struct {
	Post     *db.Post
	Comments []*db.Comment
	Form     forms.CommentForm
	Errors   forms.Errors
}

type postFormContent struct {
	Form   forms.PostForm
	Errors forms.Errors
	IsEdit bool
	Action string
}

func postIdFromRequest(r *http.Request) (int64, bool) {
	postId, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
	if err != nil {
		return 0, false
	}
	return postId, true
}

// loadPost writes the 404 or 500 response itself when it returns nil.
func loadPost(w http.ResponseWriter, r *http.Request) *db.Post {
	postId, ok := postIdFromRequest(r)
	if !ok {
		NotFoundHandler(w, r)
		return nil
	}

	post, err := db.GetPost(r.Context(), postId)
	if err != nil {
		internalError(w, r, "Error getting post", err)
		return nil
	}

	if post == nil {
		NotFoundHandler(w, r)
		return nil
	}

	return post
}

func ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for ListPostsHandler")

	posts, err := db.ListPosts(r.Context())
	if err != nil {
		internalError(w, r, "Error listing posts", err)
		return
	}

	ui.Render(w, http.StatusOK, ui.PageIndex, pageData(w, r, "Home", indexContent{Posts: posts}))
}

func ShowPostHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for ShowPostHandler")

	post := loadPost(w, r)
	if post == nil {
		return
	}

	renderPost(w, r, post, forms.CommentForm{}, nil)
}

func renderPost(w http.ResponseWriter, r *http.Request, post *db.Post, form forms.CommentForm, errs forms.Errors) {
	comments, err := db.ListComments(r.Context(), post.Id)
	if err != nil {
		internalError(w, r, "Error listing comments", err)
		return
	}

	ui.Render(w, http.StatusOK, ui.PagePost, pageData(w, r, post.Title, postContent{
		Post:     post,
		Comments: comments,
		Form:     form,
		Errors:   errs,
	}))
}

func NewPostFormHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for NewPostFormHandler")

	ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "New Post", postFormContent{Action: "/new-post"}))
}

func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for CreatePostHandler")

	content := postFormContent{Action: "/new-post"}
	if err := forms.Decode(r, &content.Form); err != nil {
		zap.S().Warnf("Error decoding post form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	if content.Errors = validatePostForm(&content.Form); content.Errors != nil {
		ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "New Post", content))
		return
	}

	user := CurrentUser(r)
	post := &db.Post{
		AuthorId: user.Id,
		Title:    content.Form.Title,
		Subtitle: content.Form.Subtitle,
		Date:     time.Now().Format(db.PostDateFormat),
		Body:     forms.SanitizeRichText(content.Form.Body),
		ImgUrl:   content.Form.ImgUrl,
	}

	err := db.CreatePost(r.Context(), post)
	if errors.Is(err, db.ErrDuplicateTitle) {
		content.Errors = forms.Errors{"title": duplicateTitleMsg}
		ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "New Post", content))
		return
	}
	if err != nil {
		internalError(w, r, "Error creating post", err)
		return
	}

	zap.S().Infof("User %d created post %d", user.Id, post.Id)

	if hookErr := hooks.ExecHook(hooks.DidCreatePost, hooks.HookParams{User: user, Post: post}); hookErr != nil {
		zap.S().Errorf("Error running did create post hook for post %d: %v", post.Id, hookErr)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func EditPostFormHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for EditPostFormHandler")

	post := loadPost(w, r)
	if post == nil {
		return
	}

	ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "Edit Post", postFormContent{
		Form: forms.PostForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			ImgUrl:   post.ImgUrl,
			Body:     post.Body,
		},
		IsEdit: true,
		Action: fmt.Sprintf("/edit-post/%d", post.Id),
	}))
}

func UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for UpdatePostHandler")

	post := loadPost(w, r)
	if post == nil {
		return
	}

	content := postFormContent{IsEdit: true, Action: fmt.Sprintf("/edit-post/%d", post.Id)}
	if err := forms.Decode(r, &content.Form); err != nil {
		zap.S().Warnf("Error decoding post form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	if content.Errors = validatePostForm(&content.Form); content.Errors != nil {
		ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "Edit Post", content))
		return
	}

	// author and date are left as they were
	post.Title = content.Form.Title
	post.Subtitle = content.Form.Subtitle
	post.ImgUrl = content.Form.ImgUrl
	post.Body = forms.SanitizeRichText(content.Form.Body)

	err := db.UpdatePost(r.Context(), post)
	switch {
	case errors.Is(err, db.ErrDuplicateTitle):
		content.Errors = forms.Errors{"title": duplicateTitleMsg}
		ui.Render(w, http.StatusOK, ui.PageMakePost, pageData(w, r, "Edit Post", content))
		return
	case errors.Is(err, db.ErrPostNotFound):
		NotFoundHandler(w, r)
		return
	case err != nil:
		internalError(w, r, "Error updating post", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.Id), http.StatusSeeOther)
}

func DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for DeletePostHandler")

	postId, ok := postIdFromRequest(r)
	if !ok {
		NotFoundHandler(w, r)
		return
	}

	err := db.DeletePost(r.Context(), postId)
	if errors.Is(err, db.ErrPostNotFound) {
		NotFoundHandler(w, r)
		return
	}
	if err != nil {
		internalError(w, r, "Error deleting post", err)
		return
	}

	user := CurrentUser(r)
	zap.S().Infof("User %d deleted post %d", user.Id, postId)

	if hookErr := hooks.ExecHook(hooks.DidDeletePost, hooks.HookParams{User: user, Post: &db.Post{Id: postId}}); hookErr != nil {
		zap.S().Errorf("Error running did delete post hook for post %d: %v", postId, hookErr)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// validatePostForm also rejects a body that sanitizes down to nothing.
func validatePostForm(form *forms.PostForm) forms.Errors {
	errs := forms.Validate(form)
	if form.Body != "" && forms.SanitizeRichText(form.Body) == "" {
		if errs == nil {
			errs = forms.Errors{}
		}
		errs["body"] = "This field is required."
	}
	return errs
}
