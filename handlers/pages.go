package handlers

import (
	"net/http"

	"blog-server/email"
	"blog-server/forms"
	"blog-server/ui"

	"go.uber.org/zap"
)

type contactContent struct {
	Form       forms.ContactForm
	Errors     forms.Errors
	MsgSent    bool
	SendFailed bool
}

func AboutHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for AboutHandler")

	ui.Render(w, http.StatusOK, ui.PageAbout, pageData(w, r, "About", nil))
}

func ContactFormHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for ContactFormHandler")

	ui.Render(w, http.StatusOK, ui.PageContact, pageData(w, r, "Contact", contactContent{}))
}

func ContactHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for ContactHandler")

	var content contactContent
	if err := forms.Decode(r, &content.Form); err != nil {
		zap.S().Warnf("Error decoding contact form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	if content.Errors = forms.Validate(&content.Form); content.Errors == nil {
		f := content.Form
		content.MsgSent = email.SendContactMessage(f.Name, f.Email, f.Phone, f.Message)
		// the visitor keeps what they typed so they can try again
		content.SendFailed = !content.MsgSent
	}

	ui.Render(w, http.StatusOK, ui.PageContact, pageData(w, r, "Contact", content))
}
