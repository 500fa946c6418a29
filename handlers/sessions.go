package handlers

import (
	"net/http"

	"blog-server/auth"
	"blog-server/forms"
	"blog-server/hooks"
	"blog-server/ui"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	flashEmailRegistered = "You've already signed up with that email, log in instead!"
	flashUnknownEmail    = "That email does not exist, please try again."
	flashBadPassword     = "Password incorrect, please try again."
)

type registerContent struct {
	Form   forms.RegisterForm
	Errors forms.Errors
}

type loginContent struct {
	Form   forms.LoginForm
	Errors forms.Errors
}

func RegisterFormHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for RegisterFormHandler")

	ui.Render(w, http.StatusOK, ui.PageRegister, pageData(w, r, "Register", registerContent{}))
}

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for RegisterHandler")

	var form forms.RegisterForm
	if err := forms.Decode(r, &form); err != nil {
		zap.S().Warnf("Error decoding register form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := forms.Validate(&form); errs != nil {
		form.Password, form.ConfirmPassword = "", ""
		ui.Render(w, http.StatusOK, ui.PageRegister, pageData(w, r, "Register", registerContent{Form: form, Errors: errs}))
		return
	}

	user, err := auth.Register(r.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			addFlash(w, r, flashEmailRegistered)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		internalError(w, r, "Error registering user", err)
		return
	}

	zap.S().Infof("Registered user %d with role %s", user.Id, user.Role)

	// the account already exists at this point, so a failing hook can't undo it
	if hookErr := hooks.ExecHook(hooks.CreateAccount, hooks.HookParams{User: user}); hookErr != nil {
		zap.S().Errorf("Error running create account hook for user %d: %v", user.Id, hookErr)
	}

	if err := setSessionUser(w, r, user); err != nil {
		internalError(w, r, "Error saving session", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for LoginFormHandler")

	ui.Render(w, http.StatusOK, ui.PageLogin, pageData(w, r, "Log In", loginContent{}))
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for LoginHandler")

	var form forms.LoginForm
	if err := forms.Decode(r, &form); err != nil {
		zap.S().Warnf("Error decoding login form: %v", err)
		renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := forms.Validate(&form); errs != nil {
		form.Password = ""
		ui.Render(w, http.StatusOK, ui.PageLogin, pageData(w, r, "Log In", loginContent{Form: form, Errors: errs}))
		return
	}

	user, err := auth.Login(r.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrUnknownEmail):
		addFlash(w, r, flashUnknownEmail)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, auth.ErrBadPassword):
		addFlash(w, r, flashBadPassword)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case err != nil:
		internalError(w, r, "Error logging in", err)
		return
	}

	if err := setSessionUser(w, r, user); err != nil {
		internalError(w, r, "Error saving session", err)
		return
	}

	zap.S().Infof("User %d logged in", user.Id)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	zap.S().Debug("Received request for LogoutHandler")

	if err := clearSession(w, r); err != nil {
		zap.S().Errorf("Error clearing session: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusFound)
}
