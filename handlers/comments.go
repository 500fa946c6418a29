package handlers

import (
	"fmt"
	"net/http"

	"blog-server/db"
	"blog-server/forms"

	"go.uber.org/zap"
)

const flashLoginToComment = "You need to login or register to comment."

func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for CreateCommentHandler")

	post := loadPost(w, r)
	if post == nil {
		return
	}

	// anonymous visitors are turned away before their comment is even looked at
	user := CurrentUser(r)
	if user == nil {
		addFlash(w, r, flashLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	var form forms.CommentForm
	if err := forms.Decode(r, &form); err != nil {
		zap.S().Warnf("Error decoding comment form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	errs := forms.Validate(&form)
	text := forms.SanitizeRichText(form.CommentText)
	if errs == nil && text == "" {
		errs = forms.Errors{"comment_text": "This field is required."}
	}
	if errs != nil {
		renderPost(w, r, post, form, errs)
		return
	}

	comment := &db.Comment{
		Text:     text,
		AuthorId: user.Id,
		PostId:   post.Id,
	}
	if err := db.CreateComment(r.Context(), comment); err != nil {
		internalError(w, r, "Error creating comment", err)
		return
	}

	zap.S().Infof("User %d commented on post %d", user.Id, post.Id)

	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.Id), http.StatusSeeOther)
}
