package handlers

import (
	"net/http"

	"blog-server/ui"

	"go.uber.org/zap"
)

type errorContent struct {
	Status  int
	Message string
}

var errorMessages = map[int]string{
	http.StatusBadRequest:          "That request could not be understood.",
	http.StatusForbidden:           "You don't have permission to do that.",
	http.StatusNotFound:            "That page doesn't exist.",
	http.StatusInternalServerError: "Something went wrong on our end. Please try again.",
}

func renderError(w http.ResponseWriter, r *http.Request, status int) {
	msg, ok := errorMessages[status]
	if !ok {
		msg = http.StatusText(status)
	}

	ui.Render(w, status, ui.PageError, pageData(w, r, http.StatusText(status), errorContent{
		Status:  status,
		Message: msg,
	}))
}

func internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zap.S().Errorf("%s: %v", msg, err)
	renderError(w, r, http.StatusInternalServerError)
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound)
}

func ForbiddenHandler(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusForbidden)
}

func InternalErrorHandler(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusInternalServerError)
}
